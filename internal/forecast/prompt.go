package forecast

import (
	"fmt"
	"strings"

	"ai-stock-forecaster/internal/types"
)

// BuildPrompt renders the analysis prompt: symbol, a table of the most
// recent maxBars daily bars, and the news text. The model is instructed to
// reply with strictly one JSON object.
func BuildPrompt(symbol string, bars []types.Bar, newsText string, maxBars int) string {
	tail := bars
	if maxBars > 0 && len(tail) > maxBars {
		tail = tail[len(tail)-maxBars:]
	}

	var table strings.Builder
	table.WriteString("Date        Open       High       Low        Close      Volume\n")
	for _, b := range tail {
		fmt.Fprintf(&table, "%s  %-10s %-10s %-10s %-10s %d\n",
			b.Date.Format("2006-01-02"),
			b.Open.StringFixed(2),
			b.High.StringFixed(2),
			b.Low.StringFixed(2),
			b.Close.StringFixed(2),
			b.Volume,
		)
	}

	return fmt.Sprintf(`Analyze the financial data for **%s**. Respond with a single, clean JSON object with keys: "sentiment", "reasoning", "predicted_low", "predicted_high".
- "sentiment": Must be "Bullish", "Bearish", or "Neutral".
- Do not include any text, markdown, or explanations outside of the JSON object.

Historical Data:
%s
Recent News:
%s
`, symbol, table.String(), newsText)
}
