package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tothemoon/internal/analyzer"
	"tothemoon/internal/collector"
	"tothemoon/internal/model"
	"tothemoon/internal/recorder"
	"tothemoon/internal/txlog"
)

func newTestScheduler(t *testing.T, f *collector.MockFetcher) *Scheduler {
	t.Helper()
	txs, err := txlog.New(t.TempDir(), "results.csv")
	if err != nil {
		t.Fatalf("new txlog: %v", err)
	}
	a := analyzer.New(txs, recorder.NewNoopRecorder())
	return New(f, a, recorder.NewNoopRecorder(), Options{
		PollInterval: 5 * time.Millisecond,
		FoldInterval: 5 * time.Millisecond,
		SeedInterval: "1m",
		TxLogPath:    txs.Path(),
	})
}

func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return closes
}

func TestHandleCommand_AddAndRemove(t *testing.T) {
	f := &collector.MockFetcher{
		Prices: model.PriceMap{"BTCUSDT": 100, "USDTUSDC": 1},
		Closes: map[string][]float64{"BTCUSDT": flatCloses(21, 100)},
	}
	s := newTestScheduler(t, f)
	if err := s.Prime(); err != nil {
		t.Fatalf("prime: %v", err)
	}

	if got := s.HandleCommand("add btc/usdt"); !strings.Contains(got, "Now watching BTCUSDT") {
		t.Errorf("unexpected add reply: %q", got)
	}
	if got := s.HandleCommand("add BTCUSDT"); !strings.Contains(got, "already watched") {
		t.Errorf("duplicate add reply: %q", got)
	}
	if got := s.HandleCommand("add USDTUSDC"); !strings.Contains(got, "not a tradable USD pair") {
		t.Errorf("stablecoin cross reply: %q", got)
	}
	if got := s.HandleCommand("remove BTCUSDT"); !strings.Contains(got, "Removed BTCUSDT") {
		t.Errorf("remove reply: %q", got)
	}
	if got := s.HandleCommand("remove BTCUSDT"); !strings.Contains(got, "not watched") {
		t.Errorf("remove unknown reply: %q", got)
	}
}

func TestHandleCommand_Deposit(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{Prices: model.PriceMap{}})

	if got := s.HandleCommand("deposit 250"); !strings.Contains(got, "Balance: 250 USD") {
		t.Errorf("deposit reply: %q", got)
	}
	if got := s.HandleCommand("deposit abc"); !strings.Contains(got, "Invalid amount") {
		t.Errorf("bad amount reply: %q", got)
	}
	if got := s.HandleCommand("deposit -5"); !strings.Contains(got, "Invalid amount") {
		t.Errorf("negative amount reply: %q", got)
	}
}

func TestHandleCommand_UnknownShowsHelp(t *testing.T) {
	s := newTestScheduler(t, &collector.MockFetcher{})
	got := s.HandleCommand("frobnicate")
	if !strings.Contains(got, "Unknown command") || !strings.Contains(got, "Available commands") {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestPoll_FetchFailureIsNoOp(t *testing.T) {
	f := &collector.MockFetcher{Err: errors.New("exchange down")}
	s := newTestScheduler(t, f)
	s.lastFold = time.Now()
	s.poll() // must not panic or mutate anything

	if got := s.HandleCommand("current"); !strings.Contains(got, "Balance: 0 USD") {
		t.Errorf("state changed on failed cycle: %q", got)
	}
}

func TestRunPoller_StopsOnCancel(t *testing.T) {
	f := &collector.MockFetcher{Prices: model.PriceMap{"BTCUSDT": 100}}
	s := newTestScheduler(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunPoller(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
