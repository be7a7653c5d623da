// Package activity defines login-attempt records and the store that holds them.
//
// Records are produced by an external detection pipeline; the analytics
// engine only reads them. Insert exists for that pipeline and for tests.
package activity

import (
	"context"
	"strings"
	"time"
)

// Severity is the detector-assigned severity of an anomalous attempt.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Severities lists all severities in ascending rank order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the ordering rank of a severity. Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

// AtLeast reports whether s ranks at or above min.
func (s Severity) AtLeast(min Severity) bool {
	return s.Rank() >= min.Rank()
}

// LoginRecord is one login attempt as recorded by the detection pipeline.
// Immutable once stored; the engine never mutates records it reads.
type LoginRecord struct {
	ID              string    `json:"id"`
	UserID          int64     `json:"userId,omitempty"` // 0 = attempt against an unknown account
	Email           string    `json:"email"`
	Timestamp       time.Time `json:"timestamp"`
	IPAddress       string    `json:"ipAddress"`
	Country         string    `json:"country,omitempty"` // "" = unresolved provenance
	ASN             string    `json:"asn,omitempty"`
	UserAgent       string    `json:"userAgent"`
	DeviceType      string    `json:"deviceType"`
	Browser         string    `json:"browser"`
	OperatingSystem string    `json:"operatingSystem"`
	LoginFrequency  int       `json:"loginFrequency"`
	LoginSuccessful bool      `json:"loginSuccessful"`
	Status          string    `json:"status"`
	IsAnomaly       bool      `json:"isAnomaly"`
	AnomalyScore    float64   `json:"anomalyScore"`
	AnomalyReason   string    `json:"anomalyReason,omitempty"`
	Severity        Severity  `json:"severity,omitempty"`
}

// Filter selects records from the store. Zero-value fields are ignored.
type Filter struct {
	// Start and End bound Timestamp inclusively when non-zero.
	Start time.Time
	End   time.Time

	// StartExclusive makes the lower bound strict (Timestamp > Start).
	// Relative windows are open at their lower bound; day windows are
	// closed.
	StartExclusive bool

	// AnomalousOnly restricts to records the detector flagged.
	AnomalousOnly bool

	// MinSeverity restricts to records ranking at or above this severity.
	MinSeverity Severity

	// ReasonContains restricts to records whose anomaly reason contains
	// this fragment, case-insensitively.
	ReasonContains string

	// Descending orders newest-first; default is oldest-first.
	Descending bool

	// Limit caps the result set. 0 = unlimited.
	Limit int
}

// Matches reports whether rec passes every set criterion of the filter
// other than ordering and limit.
func (f Filter) Matches(rec *LoginRecord) bool {
	if !f.Start.IsZero() {
		if f.StartExclusive {
			if !rec.Timestamp.After(f.Start) {
				return false
			}
		} else if rec.Timestamp.Before(f.Start) {
			return false
		}
	}
	if !f.End.IsZero() && rec.Timestamp.After(f.End) {
		return false
	}
	if f.AnomalousOnly && !rec.IsAnomaly {
		return false
	}
	if f.MinSeverity != "" && !rec.Severity.AtLeast(f.MinSeverity) {
		return false
	}
	if f.ReasonContains != "" &&
		!strings.Contains(strings.ToLower(rec.AnomalyReason), strings.ToLower(f.ReasonContains)) {
		return false
	}
	return true
}

// Store is the queryable login-activity collection.
type Store interface {
	// Query returns records matching the filter in the requested order.
	Query(ctx context.Context, f Filter) ([]*LoginRecord, error)

	// QueryBefore returns records for the given users with Timestamp
	// strictly before the instant. Used to seed novelty history.
	// An empty userIDs slice returns no records.
	QueryBefore(ctx context.Context, before time.Time, userIDs []int64) ([]*LoginRecord, error)

	// Insert appends a record. The analytics engine never calls this;
	// it exists for the detection pipeline and for tests.
	Insert(ctx context.Context, rec *LoginRecord) error
}
