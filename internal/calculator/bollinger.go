package calculator

import (
	"fmt"

	"tothemoon/internal/model"
)

// BollingerPeriod is the number of historical closes the Bollinger window
// covers. It also fixes the rolling dataset capacity.
const BollingerPeriod = 20

// Bollinger computes the Bollinger Bands over the historical closes plus the
// candidate price: mean ± 2 population standard deviations over the
// BollingerPeriod+1 samples.
func Bollinger(window []float64, candidate float64) (lower, upper float64, err error) {
	if len(window) != BollingerPeriod {
		return 0, 0, fmt.Errorf("bollinger: window of %d closes required, got %d", BollingerPeriod, len(window))
	}

	closes := make([]float64, 0, len(window)+1)
	closes = append(closes, window...)
	closes = append(closes, candidate)

	mean := Mean(closes)
	std := PopulationStdDev(closes, mean)
	return mean - 2*std, mean + 2*std, nil
}

// ClassifyBollinger maps a price against the band envelope: above the upper
// band sell, below the lower band buy, otherwise hold.
func ClassifyBollinger(price, lower, upper float64) model.Action {
	switch {
	case price > upper:
		return model.ActionSell
	case price < lower:
		return model.ActionBuy
	default:
		return model.ActionHold
	}
}
