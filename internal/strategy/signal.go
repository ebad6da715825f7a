package strategy

import "tothemoon/internal/model"

// Combine merges the RSI and Bollinger suggestions into one branch decision.
//
// A single triggering indicator is enough to enter a branch, and the Buy
// branch is checked first, so on a Buy/Sell disagreement Buy wins. That
// asymmetry keeps the bot responsive for demonstration purposes; a stricter
// variant would require both indicators to agree.
func Combine(rsi, bb model.Action) model.Action {
	if bb == model.ActionBuy || rsi == model.ActionBuy {
		return model.ActionBuy
	}
	if bb == model.ActionSell || rsi == model.ActionSell {
		return model.ActionSell
	}
	return model.ActionHold
}
