package model

// Action is a trading decision derived from the technical indicators.
type Action int

const (
	ActionDefault Action = iota
	ActionBuy
	ActionSell
	ActionHold
)

// String returns the display name of the action. The switch is exhaustive so
// every variant is guaranteed a label at compile time.
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "Buy"
	case ActionSell:
		return "Sell"
	case ActionHold:
		return "Hold"
	default:
		return "Default"
	}
}
