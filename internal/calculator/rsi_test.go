package calculator

import (
	"math"
	"testing"

	"tothemoon/internal/model"
)

func TestRSI_ConstantPrices(t *testing.T) {
	window := make([]float64, RSIPeriod)
	for i := range window {
		window[i] = 100
	}

	// All differences are zero: avgUp = avgDown = 0, relative strength 0.
	rsi, err := RSI(window, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 0 {
		t.Fatalf("expected RSI 0 for a flat window, got %.4f", rsi)
	}
	if ClassifyRSI(rsi) != model.ActionBuy {
		t.Fatalf("RSI 0 should classify as Buy, got %v", ClassifyRSI(rsi))
	}
}

func TestRSI_WorkedExample(t *testing.T) {
	// 13 differences: six +4, six -2, one final +2.
	// avgUp = (6*4+2)/13 = 2, avgDown = 12/13.
	window := make([]float64, 0, RSIPeriod)
	price := 100.0
	window = append(window, price)
	// 12 historical diffs: alternate +4 and -2, starting with +4.
	diffs := []float64{4, -2, 4, -2, 4, -2, 4, -2, 4, -2, 4, -2, 2}
	for i := 0; i < 12; i++ {
		price += diffs[i]
		window = append(window, price)
	}
	candidate := price + diffs[12]
	// avgUp = (6*4 + 2)/13 = 2, avgDown = (6*2)/13 = 12/13.
	rsi, err := RSI(window, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs := 2.0 / (12.0 / 13.0)
	want := 100 - 100/(1+rs)
	if math.Abs(rsi-want) > 1e-9 {
		t.Fatalf("expected RSI %.6f, got %.6f", want, rsi)
	}
}

func TestRSI_AvgRatioTwoToOne(t *testing.T) {
	// avgUp/avgDown = 2 must give RSI = 100 - 100/3 ~ 66.67 (Hold zone).
	rs := 2.0
	rsi := 100 - 100/(1+rs)
	if math.Abs(rsi-66.6666666667) > 1e-6 {
		t.Fatalf("expected RSI ~66.67, got %.6f", rsi)
	}
	if ClassifyRSI(rsi) != model.ActionHold {
		t.Fatalf("RSI %.2f should classify as Hold", rsi)
	}
}

func TestRSI_ShortWindow(t *testing.T) {
	if _, err := RSI([]float64{1, 2, 3}, 4); err == nil {
		t.Fatal("expected error for a short window")
	}
}

func TestClassifyRSI_Boundaries(t *testing.T) {
	tests := []struct {
		rsi  float64
		want model.Action
	}{
		{0, model.ActionBuy},
		{29.99, model.ActionBuy},
		{30, model.ActionHold},
		{50, model.ActionHold},
		{70, model.ActionHold},
		{70.01, model.ActionSell},
		{100, model.ActionSell},
	}
	for _, tt := range tests {
		if got := ClassifyRSI(tt.rsi); got != tt.want {
			t.Errorf("ClassifyRSI(%.2f) = %v, want %v", tt.rsi, got, tt.want)
		}
	}
}
