package recorder

import "tothemoon/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTransaction(_ *model.Transaction) error { return nil }
func (n *NoopRecorder) RecordEvaluation(_ *Evaluation) error         { return nil }
func (n *NoopRecorder) RecordPortfolio(_ *PortfolioSnapshot) error   { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
