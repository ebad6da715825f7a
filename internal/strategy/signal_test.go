package strategy

import (
	"testing"

	"tothemoon/internal/model"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name     string
		rsi, bb  model.Action
		expected model.Action
	}{
		{"both hold", model.ActionHold, model.ActionHold, model.ActionHold},
		{"rsi buy", model.ActionBuy, model.ActionHold, model.ActionBuy},
		{"bb buy", model.ActionHold, model.ActionBuy, model.ActionBuy},
		{"rsi sell", model.ActionSell, model.ActionHold, model.ActionSell},
		{"bb sell", model.ActionHold, model.ActionSell, model.ActionSell},
		{"both buy", model.ActionBuy, model.ActionBuy, model.ActionBuy},
		{"both sell", model.ActionSell, model.ActionSell, model.ActionSell},
		// On disagreement the Buy branch wins: it is checked first.
		{"rsi buy bb sell", model.ActionBuy, model.ActionSell, model.ActionBuy},
		{"rsi sell bb buy", model.ActionSell, model.ActionBuy, model.ActionBuy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Combine(tt.rsi, tt.bb); got != tt.expected {
				t.Errorf("Combine(%v, %v) = %v, want %v", tt.rsi, tt.bb, got, tt.expected)
			}
		})
	}
}

func TestDebouncer_ThresholdAndReset(t *testing.T) {
	d := NewDebouncer()
	d.Track("BTCUSDT")

	for i := 1; i < Threshold; i++ {
		if d.Hit("BTCUSDT") {
			t.Fatalf("streak of %d must not arm the debouncer", i)
		}
	}
	if !d.Hit("BTCUSDT") {
		t.Fatalf("streak of %d should arm the debouncer", Threshold)
	}
	// Past the threshold it stays armed until a reset.
	if !d.Hit("BTCUSDT") {
		t.Fatal("armed debouncer should stay armed without a reset")
	}

	d.Reset("BTCUSDT")
	if d.Streak("BTCUSDT") != 0 {
		t.Fatalf("expected streak 0 after reset, got %d", d.Streak("BTCUSDT"))
	}
}

func TestDebouncer_PerSymbolIsolation(t *testing.T) {
	d := NewDebouncer()
	d.Track("BTCUSDT")
	d.Track("ETHUSDT")

	d.Hit("BTCUSDT")
	d.Hit("BTCUSDT")
	d.Hit("ETHUSDT")

	if d.Streak("BTCUSDT") != 2 || d.Streak("ETHUSDT") != 1 {
		t.Fatalf("streaks must be independent: btc=%d eth=%d",
			d.Streak("BTCUSDT"), d.Streak("ETHUSDT"))
	}

	d.Untrack("BTCUSDT")
	if d.Streak("BTCUSDT") != 0 {
		t.Fatal("untracked symbol should report a zero streak")
	}
}
