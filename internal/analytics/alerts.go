package analytics

import (
	"time"

	"github.com/ritee123/loginsight/internal/activity"
)

// alertTitle is the fixed title of every projected alert.
const alertTitle = "Anomalous Login Detected"

// AlertStatusNew is the only status this engine emits. Triage state
// transitions (investigating, resolved, false_positive) are owned by the
// consuming UI, not by this engine.
const AlertStatusNew = "new"

// SecurityAlert is the feed view of one anomalous login record. Identity
// is the source record id.
type SecurityAlert struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Timestamp   time.Time         `json:"timestamp"`
	IPAddress   string            `json:"ipAddress"`
	Country     string            `json:"country,omitempty"`
	Severity    activity.Severity `json:"severity"`
	Status      string            `json:"status"`
}

// NameResolver maps a user id to a display name. Returns false when no
// name is known, in which case the alert falls back to the email.
type NameResolver func(userID int64) (string, bool)

// ProjectAlerts maps anomalous records into the alert feed view. records
// are expected newest-first; limit caps the result (<= 0 means no cap).
// resolve may be nil.
func ProjectAlerts(records []*activity.LoginRecord, limit int, resolve NameResolver) []SecurityAlert {
	alerts := make([]SecurityAlert, 0, len(records))
	for _, rec := range records {
		if !rec.IsAnomaly {
			continue
		}
		if limit > 0 && len(alerts) == limit {
			break
		}

		username := rec.Email
		if resolve != nil && rec.UserID != 0 {
			if name, ok := resolve(rec.UserID); ok {
				username = name
			}
		}

		alerts = append(alerts, SecurityAlert{
			ID:          rec.ID,
			Title:       alertTitle,
			Description: rec.AnomalyReason,
			Username:    username,
			Email:       rec.Email,
			Timestamp:   rec.Timestamp,
			IPAddress:   rec.IPAddress,
			Country:     rec.Country,
			Severity:    rec.Severity,
			Status:      AlertStatusNew,
		})
	}
	return alerts
}
