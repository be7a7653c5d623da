package analytics

import (
	"math"
	"time"

	"github.com/ritee123/loginsight/internal/activity"
)

// DashboardMetrics is the per-request aggregate view of one day's login
// activity. Recomputed on every call, never persisted.
type DashboardMetrics struct {
	TotalLogins      int             `json:"totalLogins"`
	AnomalousLogins  int             `json:"anomalousLogins"`
	ActiveUsers      int             `json:"activeUsers"`
	CriticalAlerts   int             `json:"criticalAlerts"`
	AvgRiskScore     int             `json:"avgRiskScore"`
	TopRiskCountries []CountryRisk   `json:"topRiskCountries"`
	LoginTrends      []TrendBucket   `json:"loginTrends"`
	RiskDistribution []SeverityShare `json:"riskDistribution"`
	NewDevices       int             `json:"newDevices"`
}

// CountryRisk is one entry of the country risk ranking.
type CountryRisk struct {
	Country   string `json:"country"`
	Count     int    `json:"count"`
	RiskScore int    `json:"riskScore"` // rounded mean anomaly score
}

// TrendBucket is one hourly slot of the login trend series.
type TrendBucket struct {
	Label      string `json:"label"` // hour formatted HH:MM
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	Anomalous  int    `json:"anomalous"`
}

// SeverityShare is one row of the severity histogram.
type SeverityShare struct {
	Level      string `json:"level"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

const trendBuckets = 24

// ComputeDashboardMetrics reduces one window's records into dashboard
// metrics. start is the window start (trend buckets are hours from it),
// history holds records from before the window for novelty seeding.
// Never fails: every division is guarded and an empty window yields a
// well-formed zero structure.
func ComputeDashboardMetrics(start time.Time, records, history []*activity.LoginRecord) DashboardMetrics {
	m := DashboardMetrics{
		TotalLogins:      len(records),
		TopRiskCountries: make([]CountryRisk, 0),
	}

	activeUsers := make(map[int64]bool)
	var scoreSum float64

	for _, rec := range records {
		if rec.IsAnomaly {
			m.AnomalousLogins++
		}
		if rec.LoginSuccessful && rec.UserID != 0 {
			activeUsers[rec.UserID] = true
		}
		if rec.Severity == activity.SeverityCritical {
			m.CriticalAlerts++
		}
		scoreSum += safeScore(rec.AnomalyScore)
	}
	m.ActiveUsers = len(activeUsers)
	if len(records) > 0 {
		m.AvgRiskScore = int(math.Round(scoreSum / float64(len(records))))
	}

	m.TopRiskCountries = topRiskCountries(records)
	m.LoginTrends = loginTrends(start, records)
	m.RiskDistribution = riskDistribution(records)

	for _, view := range AnnotateNovelty(records, history) {
		if view.IsNewDevice {
			m.NewDevices++
		}
	}

	return m
}

// topRiskCountries groups records by country, ranks by rounded mean
// anomaly score descending, and keeps the top five. Ties keep first-seen
// grouping order.
func topRiskCountries(records []*activity.LoginRecord) []CountryRisk {
	type group struct {
		count int
		sum   float64
	}
	groups := make(map[string]*group)
	var order []string

	for _, rec := range records {
		if rec.Country == "" {
			continue
		}
		g, ok := groups[rec.Country]
		if !ok {
			g = &group{}
			groups[rec.Country] = g
			order = append(order, rec.Country)
		}
		g.count++
		g.sum += safeScore(rec.AnomalyScore)
	}

	ranked := make([]CountryRisk, 0, len(order))
	for _, country := range order {
		g := groups[country]
		ranked = append(ranked, CountryRisk{
			Country:   country,
			Count:     g.count,
			RiskScore: int(math.Round(g.sum / float64(g.count))),
		})
	}

	// Insertion sort keeps the first-seen order stable on equal scores
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].RiskScore > ranked[j-1].RiskScore; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}

// loginTrends buckets records into 24 hourly slots from start. All 24
// buckets are always emitted so charts get a fixed-length series.
func loginTrends(start time.Time, records []*activity.LoginRecord) []TrendBucket {
	buckets := make([]TrendBucket, trendBuckets)
	for i := range buckets {
		buckets[i].Label = start.Add(time.Duration(i) * time.Hour).Format("15:04")
	}

	for _, rec := range records {
		i := int(rec.Timestamp.Sub(start) / time.Hour)
		if i < 0 || i >= trendBuckets {
			continue
		}
		if rec.LoginSuccessful {
			buckets[i].Successful++
		} else {
			buckets[i].Failed++
		}
		if rec.IsAnomaly {
			buckets[i].Anomalous++
		}
	}
	return buckets
}

// riskDistribution emits the severity histogram in fixed Low, Medium,
// High, Critical order. Percentages are 0 when there are no records.
func riskDistribution(records []*activity.LoginRecord) []SeverityShare {
	counts := make(map[activity.Severity]int)
	for _, rec := range records {
		sev := rec.Severity
		if sev.Rank() == 0 {
			// Out-of-contract severity from upstream; fold into Low so
			// the histogram still accounts for every record.
			sev = activity.SeverityLow
		}
		counts[sev]++
	}

	out := make([]SeverityShare, 0, len(activity.Severities))
	for _, sev := range activity.Severities {
		share := SeverityShare{Level: string(sev), Count: counts[sev]}
		if len(records) > 0 {
			share.Percentage = int(math.Round(100 * float64(counts[sev]) / float64(len(records))))
		}
		out = append(out, share)
	}
	return out
}

// safeScore treats NaN anomaly scores as 0 so they cannot poison sums.
func safeScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return score
}
