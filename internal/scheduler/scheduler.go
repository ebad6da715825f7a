// Package scheduler owns the periodic side of the bot: the price poll loop
// that drives analysis passes, the cron job that snapshots the portfolio,
// and the dispatch of interactive commands against the analyzer.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tothemoon/internal/analyzer"
	"tothemoon/internal/collector"
	"tothemoon/internal/console"
	"tothemoon/internal/dataset"
	"tothemoon/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Options carries the tunables the scheduler needs from configuration.
type Options struct {
	PollInterval time.Duration
	FoldInterval time.Duration
	SeedInterval string // kline interval used when seeding from the exchange
	BootstrapDir string // non-empty switches seeding to local CSV files
	TxLogPath    string // shown in the history reply
}

// Scheduler runs the poll loop and the cron tasks against the analyzer.
type Scheduler struct {
	cron     *cron.Cron
	fetcher  collector.Fetcher
	analyzer *analyzer.Analyzer
	recorder recorder.Recorder
	opts     Options

	lastFold time.Time
}

// New creates a Scheduler. Cron jobs are registered separately.
func New(f collector.Fetcher, a *analyzer.Analyzer, rec recorder.Recorder, opts Options) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		fetcher:  f,
		analyzer: a,
		recorder: rec,
		opts:     opts,
	}
}

// RegisterSnapshotJob schedules the periodic portfolio snapshot.
func (s *Scheduler) RegisterSnapshotJob(expr string) error {
	if _, err := s.cron.AddFunc(expr, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// StartCron starts the cron scheduler.
func (s *Scheduler) StartCron() {
	s.cron.Start()
	log.Println("[INFO] cron scheduler started")
}

// StopCron stops the cron scheduler gracefully.
func (s *Scheduler) StopCron() {
	s.cron.Stop()
	log.Println("[INFO] cron scheduler stopped")
}

func (s *Scheduler) snapshotTask() {
	snap := s.analyzer.PortfolioSnapshot()
	if err := s.recorder.RecordPortfolio(snap); err != nil {
		log.Printf("[ERROR] record portfolio snapshot: %v", err)
	}
}

// Prime fetches one exchange snapshot synchronously so that symbol
// validation works before the poll loop starts.
func (s *Scheduler) Prime() error {
	prices, err := s.fetcher.FetchLatestPrices()
	if err != nil {
		return fmt.Errorf("prime market snapshot: %w", err)
	}
	s.analyzer.Analyze(prices, false)
	return nil
}

// RunPoller is the poll loop actor. The first cycle runs immediately; after
// that a cycle runs every PollInterval until the context is cancelled. Every
// FoldInterval the cycle folds its computed rows into the rolling dataset.
func (s *Scheduler) RunPoller(ctx context.Context) {
	log.Printf("[INFO] poll loop started (%s via %s)", s.opts.PollInterval, s.fetcher.Name())
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	s.lastFold = time.Now()
	s.poll()
	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] poll loop stopped")
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

// poll runs one cycle. A fetch failure turns the cycle into a logged no-op:
// no state changes, no counter movement.
func (s *Scheduler) poll() {
	prices, err := s.fetcher.FetchLatestPrices()
	if err != nil {
		log.Printf("[WARN] fetch prices: %v (cycle skipped)", err)
		return
	}
	fold := time.Since(s.lastFold) >= s.opts.FoldInterval
	if fold {
		s.lastFold = time.Now()
	}
	s.analyzer.Analyze(prices, fold)
}

// HandleCommand processes one interactive command and returns the reply.
// The "withdraw" command never reaches here: the console intercepts it.
func (s *Scheduler) HandleCommand(input string) string {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return ""
	}
	command := strings.ToLower(fields[0])

	switch {
	case command == "help":
		return console.FormatHelp()
	case command == "current":
		holdings, estimated := s.analyzer.Holdings()
		return console.FormatHoldings(s.analyzer.Balance(), holdings, estimated)
	case command == "market":
		return console.FormatMarket(s.analyzer.MarketView())
	case command == "indicators":
		return console.FormatIndicators(s.analyzer.IndicatorView())
	case command == "history":
		return console.FormatHistory(s.analyzer.RecentTransactions(), s.opts.TxLogPath)
	case command == "deposit" && len(fields) == 2:
		return s.deposit(fields[1])
	case command == "add" && len(fields) == 2:
		return s.addSymbol(normalizeSymbol(fields[1]))
	case command == "remove" && len(fields) == 2:
		return s.removeSymbol(normalizeSymbol(fields[1]))
	default:
		return fmt.Sprintf("Unknown command: %q\n%s", input, console.FormatHelp())
	}
}

func (s *Scheduler) deposit(arg string) string {
	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Sprintf("Invalid amount: %q", arg)
	}
	if err := s.analyzer.Deposit(amount); err != nil {
		return fmt.Sprintf("Invalid amount: %q", arg)
	}
	return fmt.Sprintf("Deposited %v USD. Balance: %v USD", amount, s.analyzer.Balance())
}

// addSymbol seeds the new symbol's history and puts it on the watchlist.
// With a bootstrap directory configured, seeding reads the symbol's local
// CSV; otherwise historical closes come from the exchange.
func (s *Scheduler) addSymbol(symbol string) string {
	var err error
	if s.opts.BootstrapDir != "" {
		rows, readErr := dataset.ReadSeedFile(filepath.Join(s.opts.BootstrapDir, symbol+".csv"))
		if readErr != nil {
			log.Printf("[ERROR] read bootstrap file for %s: %v", symbol, readErr)
			return fmt.Sprintf("Could not seed %s from bootstrap data", symbol)
		}
		err = s.analyzer.AddSymbolFromRows(symbol, rows)
	} else {
		closes, fetchErr := s.fetcher.FetchHistoricalCloses(symbol, s.opts.SeedInterval)
		if fetchErr != nil {
			log.Printf("[ERROR] fetch history for %s: %v", symbol, fetchErr)
			return fmt.Sprintf("Could not fetch history for %s", symbol)
		}
		err = s.analyzer.AddSymbol(symbol, closes)
	}

	switch {
	case err == nil:
		log.Printf("[INFO] now watching %s", symbol)
		return fmt.Sprintf("Now watching %s", symbol)
	case errors.Is(err, analyzer.ErrAlreadyWatched):
		return fmt.Sprintf("%s is already watched", symbol)
	case errors.Is(err, analyzer.ErrUnavailableSymbol):
		return fmt.Sprintf("%s is not a tradable USD pair", symbol)
	default:
		log.Printf("[ERROR] add %s: %v", symbol, err)
		return fmt.Sprintf("Could not add %s", symbol)
	}
}

func (s *Scheduler) removeSymbol(symbol string) string {
	if err := s.analyzer.RemoveSymbol(symbol); err != nil {
		if errors.Is(err, analyzer.ErrUnknownSymbol) {
			return fmt.Sprintf("%s is not watched", symbol)
		}
		log.Printf("[ERROR] remove %s: %v", symbol, err)
		return fmt.Sprintf("Could not remove %s", symbol)
	}
	log.Printf("[INFO] stopped watching %s", symbol)
	return fmt.Sprintf("Removed %s (open position liquidated)", symbol)
}

// normalizeSymbol upper-cases the pair and strips the optional separator, so
// btc/usdt and BTCUSDT mean the same thing.
func normalizeSymbol(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(raw, "/", ""))
}
