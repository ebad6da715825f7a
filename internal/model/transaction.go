package model

import "time"

// Transaction records one executed simulated buy or sell. Created only by a
// successful execution and never mutated afterwards.
type Transaction struct {
	Time         time.Time
	Symbol       string
	Amount       float64
	ExchangeRate float64
	Action       Action
}
