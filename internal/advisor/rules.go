// Package advisor maps detector anomaly reasons to remediation guidance
// and renders the suspicious-login report.
//
// The detector emits free-text reasons, so classification here is
// fragment matching against an ordered rule table. The table is the
// single source of remediation text for every surface (summary report,
// chat quick replies).
package advisor

import "strings"

// rule is one entry of the remediation table. Exclusive rules
// short-circuit evaluation; fragment rules accumulate.
type rule struct {
	fragments []string
	advice    string
	exclusive bool
}

// ruleTable is evaluated in order. Keep the exclusive rules first.
var ruleTable = []rule{
	{
		fragments: []string{"permanently blocked"},
		advice:    "This account is permanently blocked. Keep the network-level block in place and do not restore access without a full incident review.",
		exclusive: true,
	},
	{
		fragments: []string{"new ip address", "new country"},
		advice:    "Verify the login location with the account owner and temporarily lock the account if it cannot be confirmed.",
	},
	{
		fragments: []string{"new browser", "new device"},
		advice:    "Confirm the new device with the account owner and revoke any sessions they do not recognize.",
	},
	{
		fragments: []string{"unusual login time", "unusual time"},
		advice:    "Check whether the account owner logged in at this time and require step-up authentication on the next login.",
	},
	{
		fragments: []string{"ml model"},
		advice:    "Review the model's risk indicators for this attempt and correlate with other activity from the same IP address.",
	},
}

const (
	genericAdvice  = "Investigate the account's recent login activity and verify with the account owner before taking further action."
	noReasonAdvice = "No anomaly reason was provided. Queue this attempt for manual review."
)

// RecommendAll returns every remediation action matching the reason, in
// rule-table order. An exclusive match returns only its own guidance.
// Pure function; matching is case-insensitive.
func RecommendAll(reason string) []string {
	if reason == "" {
		return []string{noReasonAdvice}
	}

	lower := strings.ToLower(reason)
	var matched []string
	for _, r := range ruleTable {
		for _, frag := range r.fragments {
			if strings.Contains(lower, frag) {
				if r.exclusive {
					return []string{r.advice}
				}
				matched = append(matched, r.advice)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []string{genericAdvice}
	}
	return matched
}

// Recommend returns the matching remediation guidance as a single
// space-joined string.
func Recommend(reason string) string {
	return strings.Join(RecommendAll(reason), " ")
}
