package calculator

import (
	"fmt"

	"tothemoon/internal/model"
)

// RSIPeriod is the number of historical closes the RSI window covers.
const RSIPeriod = 13

const (
	rsiSellThreshold = 70
	rsiBuyThreshold  = 30
)

// RSI computes the Relative Strength Index over the historical closes plus
// the candidate price. The window must hold exactly RSIPeriod closes, so the
// extended series yields RSIPeriod consecutive differences.
func RSI(window []float64, candidate float64) (float64, error) {
	if len(window) != RSIPeriod {
		return 0, fmt.Errorf("rsi: window of %d closes required, got %d", RSIPeriod, len(window))
	}

	closes := make([]float64, 0, len(window)+1)
	closes = append(closes, window...)
	closes = append(closes, candidate)

	diffs := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		diffs = append(diffs, closes[i]-closes[i-1])
	}

	avgUp := MeanGains(diffs)
	avgDown := MeanLosses(diffs)
	relStrength := 0.0
	if avgDown != 0 { // avoid div by zero
		relStrength = avgUp / avgDown
	}
	return 100 - 100/(1+relStrength), nil
}

// ClassifyRSI maps an RSI value to a trading action: >70 overbought (sell),
// <30 oversold (buy), otherwise hold.
func ClassifyRSI(rsi float64) model.Action {
	switch {
	case rsi > rsiSellThreshold:
		return model.ActionSell
	case rsi < rsiBuyThreshold:
		return model.ActionBuy
	default:
		return model.ActionHold
	}
}
