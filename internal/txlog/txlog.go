package txlog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tothemoon/internal/model"
)

// MaxRecent is the capacity of the in-memory transaction history. The full
// history lives in the durable CSV file.
const MaxRecent = 20

const csvHeader = "Time,Name,Amount,Exchange Rate\n"

// Log keeps the bounded in-memory recent transactions and mirrors every
// record into an append-only CSV file. It carries no lock: the analyzer
// serializes access.
type Log struct {
	recent []*model.Transaction
	path   string
}

// New prepares the durable log: the output directory is created (and cleared
// of any prior run's files) and the CSV header is written. The returned log
// starts with an empty in-memory history.
func New(dir, filename string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return nil, fmt.Errorf("clear output dir: %w", err)
		}
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(csvHeader), 0644); err != nil {
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return &Log{path: path}, nil
}

// Path returns the durable log location.
func (l *Log) Path() string { return l.path }

// Record pushes the transaction into the bounded history (evicting the
// oldest entry at capacity) and appends it to the durable file. A file write
// failure is logged and swallowed: the in-memory ledger stays authoritative
// for the running session.
func (l *Log) Record(tx *model.Transaction) {
	if len(l.recent) >= MaxRecent {
		l.recent = l.recent[1:]
	}
	l.recent = append(l.recent, tx)

	if err := l.appendRow(tx); err != nil {
		log.Printf("[ERROR] append transaction to %s: %v", l.path, err)
	}
}

func (l *Log) appendRow(tx *model.Transaction) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%s,%s,%v,%v\n",
		tx.Time.Format("2006-01-02 15:04:05"), tx.Symbol, tx.Amount, tx.ExchangeRate)
	return err
}

// Recent returns the in-memory history most-recent-first.
func (l *Log) Recent() []*model.Transaction {
	out := make([]*model.Transaction, 0, len(l.recent))
	for i := len(l.recent) - 1; i >= 0; i-- {
		out = append(out, l.recent[i])
	}
	return out
}
