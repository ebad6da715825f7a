package calculator

import (
	"math"
	"testing"

	"tothemoon/internal/model"
)

func TestBollinger_FlatWindow(t *testing.T) {
	window := make([]float64, BollingerPeriod)
	for i := range window {
		window[i] = 50
	}
	lower, upper, err := Bollinger(window, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lower != 50 || upper != 50 {
		t.Fatalf("flat series should collapse the bands, got [%.2f, %.2f]", lower, upper)
	}
	if ClassifyBollinger(50, lower, upper) != model.ActionHold {
		t.Fatal("price on the collapsed band should be Hold")
	}
}

func TestBollinger_KnownValues(t *testing.T) {
	// 20 closes of 10 plus a candidate of 31: mean = 11, population
	// variance = (20*1 + 400)/21 = 20, std = sqrt(20).
	window := make([]float64, BollingerPeriod)
	for i := range window {
		window[i] = 10
	}
	lower, upper, err := Bollinger(window, 31)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	std := math.Sqrt(20)
	if math.Abs(lower-(11-2*std)) > 1e-9 || math.Abs(upper-(11+2*std)) > 1e-9 {
		t.Fatalf("expected bands [%.6f, %.6f], got [%.6f, %.6f]", 11-2*std, 11+2*std, lower, upper)
	}
	if ClassifyBollinger(31, lower, upper) != model.ActionSell {
		t.Fatal("candidate above the upper band should be Sell")
	}
}

func TestBollinger_ShortWindow(t *testing.T) {
	if _, _, err := Bollinger([]float64{1, 2}, 3); err == nil {
		t.Fatal("expected error for a short window")
	}
}

func TestClassifyBollinger(t *testing.T) {
	tests := []struct {
		price, lower, upper float64
		want                model.Action
	}{
		{5, 10, 20, model.ActionBuy},
		{10, 10, 20, model.ActionHold},
		{15, 10, 20, model.ActionHold},
		{20, 10, 20, model.ActionHold},
		{25, 10, 20, model.ActionSell},
	}
	for _, tt := range tests {
		if got := ClassifyBollinger(tt.price, tt.lower, tt.upper); got != tt.want {
			t.Errorf("ClassifyBollinger(%.1f, %.1f, %.1f) = %v, want %v",
				tt.price, tt.lower, tt.upper, got, tt.want)
		}
	}
}
