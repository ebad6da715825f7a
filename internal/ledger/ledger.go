package ledger

import (
	"fmt"
	"time"

	"tothemoon/internal/model"
)

const (
	// TradingFee is the proportional fee charged on every buy/sell notional
	// (not on deposits or withdrawals).
	TradingFee = 0.005

	// InvestmentSplit is the fraction of available cash committed per buy:
	// each executed buy invests balance/InvestmentSplit.
	InvestmentSplit = 10
)

// Ledger tracks the simulated USD balance and per-symbol holdings. It carries
// no lock of its own: the analyzer serializes all access behind a single
// mutex.
type Ledger struct {
	balance  float64
	holdings map[string]float64
}

// New returns an empty ledger with a zero USD balance.
func New() *Ledger {
	return &Ledger{holdings: make(map[string]float64)}
}

// Balance returns the available USD balance.
func (l *Ledger) Balance() float64 { return l.balance }

// Holding returns the held quantity of a symbol (0 when not held).
func (l *Ledger) Holding(symbol string) float64 { return l.holdings[symbol] }

// Holdings returns a copy of all per-symbol quantities.
func (l *Ledger) Holdings() map[string]float64 {
	out := make(map[string]float64, len(l.holdings))
	for sym, qty := range l.holdings {
		out[sym] = qty
	}
	return out
}

// Track registers a symbol with a zero position. Tracking an existing symbol
// keeps its position.
func (l *Ledger) Track(symbol string) {
	if _, ok := l.holdings[symbol]; !ok {
		l.holdings[symbol] = 0
	}
}

// Untrack drops a symbol's position entry. The caller is responsible for
// liquidating first.
func (l *Ledger) Untrack(symbol string) {
	delete(l.holdings, symbol)
}

// Deposit adds USD to the balance. The amount must already be validated
// as positive by the caller.
func (l *Ledger) Deposit(amount float64) {
	l.balance += amount
}

// Buy invests balance/InvestmentSplit into the symbol at the given rate,
// deducting the trading fee from the invested slice, and returns the
// resulting transaction.
func (l *Ledger) Buy(symbol string, price float64) (*model.Transaction, error) {
	if price <= 0 {
		return nil, fmt.Errorf("buy %s: non-positive price %.8f", symbol, price)
	}
	invested := l.balance / InvestmentSplit
	net := invested - invested*TradingFee
	quantity := net / price
	l.balance -= invested
	l.holdings[symbol] += quantity
	return &model.Transaction{
		Time:         time.Now(),
		Symbol:       symbol,
		Amount:       quantity,
		ExchangeRate: price,
		Action:       model.ActionBuy,
	}, nil
}

// Sell liquidates the whole position of the symbol at the given rate,
// credits the fee-adjusted proceeds, and returns the resulting transaction.
func (l *Ledger) Sell(symbol string, price float64) (*model.Transaction, error) {
	quantity, ok := l.holdings[symbol]
	if !ok {
		return nil, fmt.Errorf("sell %s: symbol not tracked", symbol)
	}
	gross := quantity * price
	l.holdings[symbol] = 0
	l.balance += gross - gross*TradingFee
	return &model.Transaction{
		Time:         time.Now(),
		Symbol:       symbol,
		Amount:       quantity,
		ExchangeRate: price,
		Action:       model.ActionSell,
	}, nil
}

// Withdraw converts every position to USD at the given current rates, adds
// the cash balance, clears the ledger and returns the total. Used once, at
// termination.
func (l *Ledger) Withdraw(currentPrices model.PriceMap) float64 {
	total := l.balance
	for sym, qty := range l.holdings {
		total += qty * currentPrices[sym]
	}
	l.balance = 0
	l.holdings = make(map[string]float64)
	return total
}

// EstimatedValue returns the balance plus all positions valued at the given
// rates, without mutating anything. Used for the current-state display.
func (l *Ledger) EstimatedValue(currentPrices model.PriceMap) float64 {
	total := l.balance
	for sym, qty := range l.holdings {
		total += qty * currentPrices[sym]
	}
	return total
}
