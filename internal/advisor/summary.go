package advisor

import (
	"fmt"
	"strings"
	"time"
)

// actionablePrefix is the tag the detector puts on confirmed incidents.
// Reasons without it are unconfirmed risk signals and stay out of the
// report even when their severity qualifies.
const actionablePrefix = "suspicious login flagged"

// IsActionable reports whether an anomaly reason carries the detector's
// confirmed-incident tag. Empty reasons are never actionable.
func IsActionable(reason string) bool {
	return len(reason) >= len(actionablePrefix) &&
		strings.EqualFold(reason[:len(actionablePrefix)], actionablePrefix)
}

// SummaryAlert is one actionable alert as rendered in the report.
type SummaryAlert struct {
	Email     string
	Timestamp time.Time
	Severity  string
	Reason    string
}

const summaryTimeLayout = "2006-01-02 15:04:05 MST"

// RenderSummary renders the suspicious-login report as plain text with
// lightweight markdown markers. alerts must already be filtered to
// actionable records and ordered newest-first. windowText is the human
// phrasing of the queried window ("5 minutes" or "24 hours"); category
// is the optional reason filter the caller applied.
func RenderSummary(alerts []SummaryAlert, windowText, category string) string {
	if len(alerts) == 0 {
		if category != "" {
			return fmt.Sprintf("No actionable suspicious login attempts matching category %q were found in the last %s.", category, windowText)
		}
		return fmt.Sprintf("No actionable suspicious login attempts were found in the last %s.", windowText)
	}

	var b strings.Builder

	noun := "alerts"
	if len(alerts) == 1 {
		noun = "alert"
	}
	fmt.Fprintf(&b, "**Suspicious Login Report**: %d actionable %s in the last %s", len(alerts), noun, windowText)
	if category != "" {
		fmt.Fprintf(&b, " (category: %s)", category)
	}
	b.WriteString("\n")

	for i, alert := range alerts {
		fmt.Fprintf(&b, "\n**%d. %s**\n", i+1, alert.Email)
		fmt.Fprintf(&b, "- Time: %s\n", alert.Timestamp.Format(summaryTimeLayout))
		fmt.Fprintf(&b, "- Severity: %s\n", alert.Severity)
		fmt.Fprintf(&b, "- Reason: %s\n", alert.Reason)
		b.WriteString("- Recommended actions:\n")
		for _, action := range RecommendAll(alert.Reason) {
			fmt.Fprintf(&b, "  - %s\n", action)
		}
	}

	return b.String()
}
