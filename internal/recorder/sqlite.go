package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"tothemoon/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			action        TEXT NOT NULL,
			amount        REAL,
			exchange_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_ts ON transactions(timestamp)`,

		`CREATE TABLE IF NOT EXISTS evaluations (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			rsi       REAL,
			bb_lower  REAL,
			bb_upper  REAL,
			close     REAL,
			action    TEXT,
			streak    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			balance         REAL,
			estimated_value REAL,
			positions       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_ts ON portfolio_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTransaction(tx *model.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO transactions
		(timestamp, symbol, action, amount, exchange_rate)
		VALUES (?,?,?,?,?)`,
		tx.Time.Unix(), tx.Symbol, tx.Action.String(), tx.Amount, tx.ExchangeRate,
	)
	return err
}

func (r *SQLiteRecorder) RecordEvaluation(ev *Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, symbol, rsi, bb_lower, bb_upper, close, action, streak)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), ev.Symbol,
		ev.Row.RSI, ev.Row.BBLower, ev.Row.BBUpper, ev.Row.Close,
		ev.Action.String(), ev.Streak,
	)
	return err
}

func (r *SQLiteRecorder) RecordPortfolio(snap *PortfolioSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO portfolio_snapshots
		(timestamp, balance, estimated_value, positions)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), snap.Balance, snap.EstimatedValue, formatPositions(snap.Holdings),
	)
	return err
}

// formatPositions flattens the holdings map into a stable "SYM=qty" list.
func formatPositions(holdings map[string]float64) string {
	symbols := make([]string, 0, len(holdings))
	for sym := range holdings {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	parts := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		parts = append(parts, fmt.Sprintf("%s=%v", sym, holdings[sym]))
	}
	return strings.Join(parts, ";")
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
