package strategy

// Threshold is the number of consecutive same-direction signal hits required
// before an action is executed.
const Threshold = 5

// Debouncer tracks per-symbol consecutive signal hits, gating execution
// until a symbol has triggered Threshold passes in a row. The counter
// intentionally survives a pass whose execution was blocked (insufficient
// funds, nothing to sell) so the action keeps retrying until the gate opens
// or the indicators change direction.
type Debouncer struct {
	counters map[string]int
}

// NewDebouncer returns an empty debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{counters: make(map[string]int)}
}

// Track registers a symbol with a zero counter.
func (d *Debouncer) Track(symbol string) {
	if _, ok := d.counters[symbol]; !ok {
		d.counters[symbol] = 0
	}
}

// Untrack drops a symbol's counter.
func (d *Debouncer) Untrack(symbol string) {
	delete(d.counters, symbol)
}

// Hit increments the symbol's streak and reports whether it reached the
// execution threshold.
func (d *Debouncer) Hit(symbol string) bool {
	d.counters[symbol]++
	return d.counters[symbol] >= Threshold
}

// Reset clears the symbol's streak: called after an executed action or a
// pass where no branch triggered.
func (d *Debouncer) Reset(symbol string) {
	d.counters[symbol] = 0
}

// Streak returns the symbol's current consecutive-hit count.
func (d *Debouncer) Streak(symbol string) int {
	return d.counters[symbol]
}
