package console

import (
	"fmt"
	"sort"
	"strings"

	"tothemoon/internal/model"
)

// FormatHelp lists the interactive command surface.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("  help              - show this message\n")
	b.WriteString("  deposit <amount>  - add USD to the account\n")
	b.WriteString("  current           - balance, holdings and estimated value\n")
	b.WriteString("  market            - latest exchange rate per watched symbol\n")
	b.WriteString("  indicators        - latest RSI and Bollinger Bands per symbol\n")
	b.WriteString("  history           - recent transactions\n")
	b.WriteString("  add <symbol>      - start watching a symbol\n")
	b.WriteString("  remove <symbol>   - stop watching a symbol\n")
	b.WriteString("  withdraw          - liquidate everything and exit")
	return b.String()
}

// FormatHoldings formats the account: USD balance, per-symbol positions and
// the estimated total value at the latest known rates.
func FormatHoldings(balance float64, holdings map[string]float64, estimated float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Balance: %v USD\n", balance))
	if len(holdings) == 0 {
		b.WriteString("Holdings: none\n")
	} else {
		b.WriteString("Holdings:\n")
		for _, symbol := range sortedKeys(holdings) {
			b.WriteString(fmt.Sprintf("  %s: %v\n", symbol, holdings[symbol]))
		}
	}
	b.WriteString(fmt.Sprintf("Estimated total: %v USD", estimated))
	return b.String()
}

// FormatMarket formats the latest exchange rate of every watched symbol.
func FormatMarket(view model.PriceMap) string {
	if len(view) == 0 {
		return "No symbols watched."
	}
	var b strings.Builder
	b.WriteString("Market:\n")
	for _, symbol := range sortedKeys(view) {
		b.WriteString(fmt.Sprintf("  %s: %v USD", symbol, view[symbol]))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatIndicators formats the most recent feature row per watched symbol.
func FormatIndicators(view map[string]model.FeatureRow) string {
	if len(view) == 0 {
		return "No indicators computed yet."
	}
	var b strings.Builder
	b.WriteString("Indicators:\n")
	for _, symbol := range sortedKeys(view) {
		row := view[symbol]
		b.WriteString(fmt.Sprintf("  %s: close=%v rsi=%.2f bb=[%.2f, %.2f]\n",
			symbol, row.Close, row.RSI, row.BBLower, row.BBUpper))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatHistory formats the bounded recent transactions, newest first, and
// points at the durable log for the full record.
func FormatHistory(txs []*model.Transaction, logPath string) string {
	if len(txs) == 0 {
		return fmt.Sprintf("No transactions yet. Full log: %s", logPath)
	}
	var b strings.Builder
	b.WriteString("Recent transactions (newest first):\n")
	for _, tx := range txs {
		b.WriteString(fmt.Sprintf("  %s  %-4s %s amount=%v rate=%v\n",
			tx.Time.Format("2006-01-02 15:04:05"), tx.Action, tx.Symbol, tx.Amount, tx.ExchangeRate))
	}
	b.WriteString(fmt.Sprintf("Full log: %s", logPath))
	return b.String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
