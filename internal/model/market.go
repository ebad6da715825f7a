package model

// FeatureRow is one evaluated record of a symbol's rolling dataset.
// Immutable once stored; Close is the candidate price the indicators were
// computed against.
type FeatureRow struct {
	RSI     float64
	BBLower float64
	BBUpper float64
	Close   float64
}

// PriceMap maps an exchange pair symbol (e.g. BTCUSDT) to its latest price.
type PriceMap map[string]float64
