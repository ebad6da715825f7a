package analyzer

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"tothemoon/internal/calculator"
	"tothemoon/internal/dataset"
	"tothemoon/internal/ledger"
	"tothemoon/internal/model"
	"tothemoon/internal/recorder"
	"tothemoon/internal/strategy"
	"tothemoon/internal/txlog"
)

var (
	// ErrUnknownSymbol is returned for operations on a symbol outside the
	// watchlist.
	ErrUnknownSymbol = errors.New("analyzer: symbol not in watchlist")

	// ErrAlreadyWatched is returned when adding a symbol twice.
	ErrAlreadyWatched = errors.New("analyzer: symbol already in watchlist")

	// ErrUnavailableSymbol is returned when a symbol is not tradable on the
	// exchange or is not a single USD-quoted pair.
	ErrUnavailableSymbol = errors.New("analyzer: symbol unavailable")
)

// Analyzer is the owning aggregate of all mutable trading state: the rolling
// dataset, the ledger, the signal counters, the last evaluated records and
// the latest market snapshot. One mutex serializes the poller's analysis
// passes against interactive commands.
type Analyzer struct {
	mu       sync.Mutex
	dataset  *dataset.Store
	ledger   *ledger.Ledger
	debounce *strategy.Debouncer
	lastRows map[string]model.FeatureRow
	market   model.PriceMap
	txs      *txlog.Log
	rec      recorder.Recorder
}

// New creates an Analyzer with an empty watchlist and a zero balance.
func New(txs *txlog.Log, rec recorder.Recorder) *Analyzer {
	return &Analyzer{
		dataset:  dataset.NewStore(calculator.BollingerPeriod),
		ledger:   ledger.New(),
		debounce: strategy.NewDebouncer(),
		lastRows: make(map[string]model.FeatureRow),
		market:   make(model.PriceMap),
		txs:      txs,
		rec:      rec,
	}
}

// Analyze runs one evaluation pass: it stores the latest exchange snapshot
// and feeds every watched symbol's price through the indicator pipeline.
// With fold set, the freshly computed feature rows are folded into the
// rolling dataset; otherwise the computation is transient and only drives
// the trading decision.
func (a *Analyzer) Analyze(prices model.PriceMap, fold bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.market = make(model.PriceMap, len(prices))
	for sym, price := range prices {
		a.market[sym] = price
	}

	for _, symbol := range a.dataset.Symbols() {
		price, ok := a.market[symbol]
		if !ok {
			log.Printf("[WARN] no price for %s in snapshot, skipping", symbol)
			continue
		}
		a.evaluate(symbol, price, fold)
	}
}

// evaluate computes RSI, then Bollinger Bands, then the debounced decision
// for one symbol. Caller holds the lock.
func (a *Analyzer) evaluate(symbol string, price float64, fold bool) {
	rsiWindow, err := a.dataset.Window(symbol, calculator.RSIPeriod)
	if err != nil {
		log.Printf("[ERROR] rsi window for %s: %v", symbol, err)
		return
	}
	rsi, err := calculator.RSI(rsiWindow, price)
	if err != nil {
		log.Printf("[ERROR] rsi for %s: %v", symbol, err)
		return
	}
	rsiAction := calculator.ClassifyRSI(rsi)

	bbWindow, err := a.dataset.Window(symbol, calculator.BollingerPeriod)
	if err != nil {
		log.Printf("[ERROR] bollinger window for %s: %v", symbol, err)
		return
	}
	lower, upper, err := calculator.Bollinger(bbWindow, price)
	if err != nil {
		log.Printf("[ERROR] bollinger for %s: %v", symbol, err)
		return
	}
	bbAction := calculator.ClassifyBollinger(price, lower, upper)

	row := model.FeatureRow{RSI: rsi, BBLower: lower, BBUpper: upper, Close: price}
	branch := strategy.Combine(rsiAction, bbAction)

	switch branch {
	case model.ActionBuy:
		armed := a.debounce.Hit(symbol)
		switch {
		case armed && a.ledger.Balance()/ledger.InvestmentSplit > 1:
			a.executeBuy(symbol, price)
		case armed:
			log.Printf("[WARN] [BUY SIGNAL] %s at %v USD - insufficient funds", symbol, price)
		}
	case model.ActionSell:
		armed := a.debounce.Hit(symbol)
		switch {
		case armed && a.ledger.Holding(symbol) > 0:
			a.executeSell(symbol, price)
		case armed:
			log.Printf("[WARN] [SELL SIGNAL] %s at %v USD - could not sell, nothing held", symbol, price)
		}
	default:
		a.debounce.Reset(symbol)
	}

	a.lastRows[symbol] = row
	if fold {
		if err := a.dataset.Append(symbol, row); err != nil {
			log.Printf("[ERROR] fold row for %s: %v", symbol, err)
		}
		if err := a.rec.RecordEvaluation(&recorder.Evaluation{
			Symbol: symbol, Row: row, Action: branch, Streak: a.debounce.Streak(symbol),
		}); err != nil {
			log.Printf("[ERROR] record evaluation: %v", err)
		}
	}
}

// executeBuy runs a gated buy and resets the symbol's streak. Caller holds
// the lock.
func (a *Analyzer) executeBuy(symbol string, price float64) {
	log.Printf("[INFO] [BUY SIGNAL] %s at exchange rate %v", symbol, price)
	tx, err := a.ledger.Buy(symbol, price)
	if err != nil {
		log.Printf("[ERROR] buy %s: %v", symbol, err)
		return
	}
	a.recordTransaction(tx)
	a.debounce.Reset(symbol)
}

// executeSell liquidates the symbol's position and resets its streak.
// Caller holds the lock.
func (a *Analyzer) executeSell(symbol string, price float64) {
	log.Printf("[INFO] [SELL SIGNAL] %s at exchange rate %v", symbol, price)
	tx, err := a.ledger.Sell(symbol, price)
	if err != nil {
		log.Printf("[ERROR] sell %s: %v", symbol, err)
		return
	}
	a.recordTransaction(tx)
	a.debounce.Reset(symbol)
}

func (a *Analyzer) recordTransaction(tx *model.Transaction) {
	a.txs.Record(tx)
	if err := a.rec.RecordTransaction(tx); err != nil {
		log.Printf("[ERROR] record transaction: %v", err)
	}
}

// validPair reports whether the symbol is tradable on the exchange and is
// quoted against USD exactly once. The single-occurrence rule rejects
// stablecoin cross pairs such as USDT to USDC, which would otherwise make
// the buy/sell direction ambiguous.
func (a *Analyzer) validPair(symbol string) bool {
	_, ok := a.market[symbol]
	return ok && strings.Count(symbol, "USD") == 1
}

// AddSymbol puts a symbol on the watchlist and seeds its rolling dataset
// from historical close prices. During warm-up (fewer closes than an
// indicator's period) the indicator cells are stored as zero placeholders;
// once seeded past the Bollinger period, the live path always has a full
// window.
func (a *Analyzer) AddSymbol(symbol string, closes []float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dataset.Has(symbol) {
		return fmt.Errorf("%w: %s", ErrAlreadyWatched, symbol)
	}
	if !a.validPair(symbol) {
		return fmt.Errorf("%w: %s", ErrUnavailableSymbol, symbol)
	}

	a.dataset.Add(symbol)
	a.seedCloses(symbol, closes)
	a.ledger.Track(symbol)
	a.debounce.Track(symbol)
	return nil
}

// AddSymbolFromRows seeds a symbol from pre-computed bootstrap rows instead
// of raw closes (the offline seeding path).
func (a *Analyzer) AddSymbolFromRows(symbol string, rows []model.FeatureRow) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dataset.Has(symbol) {
		return fmt.Errorf("%w: %s", ErrAlreadyWatched, symbol)
	}
	if !a.validPair(symbol) {
		return fmt.Errorf("%w: %s", ErrUnavailableSymbol, symbol)
	}

	a.dataset.Add(symbol)
	for _, row := range rows {
		if err := a.dataset.Append(symbol, row); err != nil {
			log.Printf("[ERROR] seed row for %s: %v", symbol, err)
		}
	}
	a.ledger.Track(symbol)
	a.debounce.Track(symbol)
	return nil
}

// seedCloses replays historical closes into the dataset, computing indicator
// cells once enough history has accumulated and storing zero placeholders
// before that. Caller holds the lock.
func (a *Analyzer) seedCloses(symbol string, closes []float64) {
	for i, price := range closes {
		var row model.FeatureRow
		if i > calculator.RSIPeriod {
			if w, err := a.dataset.Window(symbol, calculator.RSIPeriod); err == nil {
				if rsi, err := calculator.RSI(w, price); err == nil {
					row.RSI = rsi
				}
			}
		}
		if i > calculator.BollingerPeriod {
			if w, err := a.dataset.Window(symbol, calculator.BollingerPeriod); err == nil {
				if lower, upper, err := calculator.Bollinger(w, price); err == nil {
					row.BBLower = lower
					row.BBUpper = upper
				}
			}
		}
		row.Close = price
		if err := a.dataset.Append(symbol, row); err != nil {
			log.Printf("[ERROR] seed close for %s: %v", symbol, err)
		}
	}
}

// RemoveSymbol takes a symbol off the watchlist. A non-zero position is
// force-liquidated first at the symbol's last known close price, producing a
// regular sell transaction, before all per-symbol state is purged.
func (a *Analyzer) RemoveSymbol(symbol string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.dataset.Has(symbol) {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	if a.ledger.Holding(symbol) > 0 {
		a.executeSell(symbol, a.lastRows[symbol].Close)
	}
	a.dataset.Remove(symbol)
	a.ledger.Untrack(symbol)
	a.debounce.Untrack(symbol)
	delete(a.lastRows, symbol)
	return nil
}

// Deposit adds USD to the account. The amount must be positive.
func (a *Analyzer) Deposit(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("analyzer: deposit amount must be positive, got %v", amount)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ledger.Deposit(amount)
	return nil
}

// WithdrawAll converts every position to USD at the latest known rates,
// clears the ledger and returns the total. Called once, after both actors
// have stopped.
func (a *Analyzer) WithdrawAll() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Withdraw(a.market)
}

// Balance returns the available USD balance.
func (a *Analyzer) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Balance()
}

// IsWatched reports whether the symbol is on the watchlist.
func (a *Analyzer) IsWatched(symbol string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dataset.Has(symbol)
}

// Holdings returns the current holdings plus the estimated total withdrawal
// value at the latest known rates.
func (a *Analyzer) Holdings() (map[string]float64, float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Holdings(), a.ledger.EstimatedValue(a.market)
}

// MarketView returns the latest exchange rate of every watched symbol.
func (a *Analyzer) MarketView() model.PriceMap {
	a.mu.Lock()
	defer a.mu.Unlock()
	view := make(model.PriceMap)
	for _, symbol := range a.dataset.Symbols() {
		view[symbol] = a.market[symbol]
	}
	return view
}

// IndicatorView returns the most recent feature row per watched symbol.
func (a *Analyzer) IndicatorView() map[string]model.FeatureRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	view := make(map[string]model.FeatureRow, len(a.lastRows))
	for symbol, row := range a.lastRows {
		view[symbol] = row
	}
	return view
}

// RecentTransactions returns the bounded in-memory history, newest first.
func (a *Analyzer) RecentTransactions() []*model.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.txs.Recent()
}

// PortfolioSnapshot captures the ledger for the periodic recorder job.
func (a *Analyzer) PortfolioSnapshot() *recorder.PortfolioSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &recorder.PortfolioSnapshot{
		Balance:        a.ledger.Balance(),
		EstimatedValue: a.ledger.EstimatedValue(a.market),
		Holdings:       a.ledger.Holdings(),
	}
}
