package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ritee123/loginsight/internal/activity"
	"github.com/ritee123/loginsight/internal/advisor"
	"github.com/ritee123/loginsight/internal/metrics"
	"github.com/ritee123/loginsight/internal/traces"
)

const (
	maxAlerts   = 20
	maxAttempts = 500
)

// Service is the login-activity analytics engine. Read-only against the
// store and stateless between calls.
type Service struct {
	store   activity.Store
	resolve NameResolver
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock. Tests use this to pin time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNameResolver wires a display-name lookup for the alert feed.
func WithNameResolver(resolve NameResolver) Option {
	return func(s *Service) { s.resolve = resolve }
}

// NewService creates the analytics engine over a login-activity store.
func NewService(store activity.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDashboardMetrics aggregates the window's records into dashboard
// metrics. An empty date means the trailing 24 hours.
func (s *Service) GetDashboardMetrics(ctx context.Context, date string) (DashboardMetrics, error) {
	ctx, span := traces.StartSpan(ctx, "analytics.GetDashboardMetrics", traces.Date(date))
	defer span.End()

	start, end, err := DayWindow(s.now(), date)
	if err != nil {
		return DashboardMetrics{}, err
	}

	records, err := s.store.Query(ctx, activity.Filter{Start: start, End: end})
	if err != nil {
		return DashboardMetrics{}, fmt.Errorf("query login activity: %w", err)
	}
	span.SetAttributes(traces.RecordCount(len(records)))

	history, err := s.historyFor(ctx, start, records)
	if err != nil {
		return DashboardMetrics{}, err
	}

	return ComputeDashboardMetrics(start, records, history), nil
}

// GetSecurityAlerts returns up to 20 alerts for the window, newest first.
func (s *Service) GetSecurityAlerts(ctx context.Context, date string) ([]SecurityAlert, error) {
	ctx, span := traces.StartSpan(ctx, "analytics.GetSecurityAlerts", traces.Date(date))
	defer span.End()

	start, end, err := DayWindow(s.now(), date)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Query(ctx, activity.Filter{
		Start:         start,
		End:           end,
		AnomalousOnly: true,
		Descending:    true,
		Limit:         maxAlerts,
	})
	if err != nil {
		return nil, fmt.Errorf("query anomalous logins: %w", err)
	}

	alerts := ProjectAlerts(records, maxAlerts, s.resolve)
	metrics.AlertsServedTotal.Add(float64(len(alerts)))
	span.SetAttributes(traces.RecordCount(len(alerts)))
	return alerts, nil
}

// GetLoginAttempts returns up to 500 novelty-annotated attempts for the
// window, newest first.
func (s *Service) GetLoginAttempts(ctx context.Context, date string) ([]AttemptView, error) {
	ctx, span := traces.StartSpan(ctx, "analytics.GetLoginAttempts", traces.Date(date))
	defer span.End()

	start, end, err := DayWindow(s.now(), date)
	if err != nil {
		return nil, err
	}

	// Ascending order: the novelty walk needs time order.
	records, err := s.store.Query(ctx, activity.Filter{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("query login activity: %w", err)
	}
	span.SetAttributes(traces.RecordCount(len(records)))

	history, err := s.historyFor(ctx, start, records)
	if err != nil {
		return nil, err
	}

	views := AnnotateNovelty(records, history)

	// Newest first for the feed
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}
	if len(views) > maxAttempts {
		views = views[:maxAttempts]
	}
	return views, nil
}

// GetSuspiciousSummary renders the actionable-alert report for a relative
// window ("recent" = 5 minutes, anything else = 24 hours), optionally
// narrowed to reasons containing category. An unknown category yields the
// empty-report message, not an error.
func (s *Service) GetSuspiciousSummary(ctx context.Context, window, category string) (string, error) {
	ctx, span := traces.StartSpan(ctx, "analytics.GetSuspiciousSummary",
		traces.Window(window), traces.Category(category))
	defer span.End()

	windowLabel := "24-hour"
	if window == "recent" {
		windowLabel = "recent"
	}
	metrics.SummaryRequestsTotal.WithLabelValues(windowLabel).Inc()

	since := RelativeWindow(s.now(), window)
	records, err := s.store.Query(ctx, activity.Filter{
		Start:          since,
		StartExclusive: true,
		AnomalousOnly:  true,
		MinSeverity:    activity.SeverityHigh,
		ReasonContains: category,
		Descending:     true,
	})
	if err != nil {
		return "", fmt.Errorf("query suspicious logins: %w", err)
	}

	var alerts []advisor.SummaryAlert
	for _, rec := range records {
		if !advisor.IsActionable(rec.AnomalyReason) {
			continue
		}
		alerts = append(alerts, advisor.SummaryAlert{
			Email:     rec.Email,
			Timestamp: rec.Timestamp,
			Severity:  string(rec.Severity),
			Reason:    rec.AnomalyReason,
		})
	}
	span.SetAttributes(traces.RecordCount(len(alerts)))

	return advisor.RenderSummary(alerts, WindowText(window), category), nil
}

// historyFor loads the pre-window records of every user appearing in
// records, for novelty seeding.
func (s *Service) historyFor(ctx context.Context, start time.Time, records []*activity.LoginRecord) ([]*activity.LoginRecord, error) {
	seen := make(map[int64]bool)
	var userIDs []int64
	for _, rec := range records {
		if rec.UserID != 0 && !seen[rec.UserID] {
			seen[rec.UserID] = true
			userIDs = append(userIDs, rec.UserID)
		}
	}
	if len(userIDs) == 0 {
		return nil, nil
	}

	history, err := s.store.QueryBefore(ctx, start, userIDs)
	if err != nil {
		return nil, fmt.Errorf("query login history: %w", err)
	}
	return history, nil
}
