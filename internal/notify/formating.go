package notify

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fibobot/internal/models"
)

// FormatSignal: текст сигнала в Markdown-разметке Telegram.
func FormatSignal(s models.Signal) string {
	return fmt.Sprintf(
		"🚨 *BUY SIGNAL* 🚨\n\n"+
			"*Symbol:* `%s`\n"+
			"*Strategy:* `%s`\n\n"+
			"*Entry Price:* `%s`\n"+
			"*Stop Loss:* `%s`\n"+
			"*Take Profit:* `%s`\n\n"+
			"Please verify on the chart before taking any action.",
		s.Symbol,
		s.Reason,
		f3(s.EntryPrice),
		f3(s.StopLoss),
		f3(s.TakeProfit),
	)
}

func f3(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}
