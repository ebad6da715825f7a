package recorder

import (
	"tothemoon/internal/model"
)

// Evaluation is one fold-cycle indicator record for a watched symbol.
type Evaluation struct {
	Symbol string
	Row    model.FeatureRow
	Action model.Action
	Streak int
}

// PortfolioSnapshot captures the ledger at a point in time.
type PortfolioSnapshot struct {
	Balance        float64
	EstimatedValue float64
	Holdings       map[string]float64
}

// Recorder persists historical data for offline analysis. The durable CSV
// transaction log remains authoritative; a Recorder is a side channel.
type Recorder interface {
	RecordTransaction(tx *model.Transaction) error
	RecordEvaluation(ev *Evaluation) error
	RecordPortfolio(snap *PortfolioSnapshot) error
	Close() error
}
