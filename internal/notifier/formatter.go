package notifier

import (
	"fmt"
	"html"
	"strings"

	"AfriQuoteFeed/internal/ingest"
)

const maxMovers = 5

// FormatRunSummary renders a batch run as a Telegram HTML message.
func FormatRunSummary(sum ingest.Summary, report *ingest.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>AfriQuoteFeed</b> | %s\n\n", report.StartedAt.UTC().Format("2006-01-02 15:04 MST")))
	b.WriteString(fmt.Sprintf("Fetched: %d | Failed: %d\n", sum.Fetched, sum.Failed))
	b.WriteString(fmt.Sprintf("Stocks ▲%d ▼%d ＝%d\n", sum.Gainers, sum.Losers, sum.Unchanged))

	if len(sum.Movers) > 0 {
		b.WriteString("\n<b>Top movers:</b>\n")
		for i, m := range sum.Movers {
			if i == maxMovers {
				break
			}
			b.WriteString(fmt.Sprintf("  %s %.2f (%+.2f%%)\n", html.EscapeString(string(m.Symbol)), m.Last, m.Change))
		}
	}

	if len(sum.Failures) > 0 {
		b.WriteString("\n<b>Skipped:</b>\n")
		for _, o := range sum.Failures {
			b.WriteString(fmt.Sprintf("  %s (%s)\n", html.EscapeString(string(o.Symbol)), o.Failure()))
		}
	}

	if report.SaveErr != nil {
		b.WriteString(fmt.Sprintf("\n❌ snapshot not saved: %s\n", html.EscapeString(report.SaveErr.Error())))
	}
	return b.String()
}
