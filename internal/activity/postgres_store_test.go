//go:build integration

package activity

import (
	"context"
	"testing"
	"time"

	"github.com/ritee123/loginsight/internal/testutil"
)

func setupPostgres(t *testing.T) (*PostgresStore, func()) {
	t.Helper()
	db, cleanup := testutil.PGTest(t)
	return NewPostgresStore(db), cleanup
}

func TestPostgres_InsertAndQuery(t *testing.T) {
	store, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	rec := &LoginRecord{
		UserID:          42,
		Email:           "analyst@example.com",
		Timestamp:       now,
		IPAddress:       "203.0.113.9",
		Country:         "Nepal",
		DeviceType:      "Desktop",
		Browser:         "Firefox",
		OperatingSystem: "Linux",
		LoginSuccessful: true,
		Status:          "success",
		IsAnomaly:       true,
		AnomalyScore:    72.5,
		AnomalyReason:   "Suspicious login flagged: new IP address",
		Severity:        SeverityHigh,
	}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.Query(ctx, Filter{AnomalousOnly: true})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Email != "analyst@example.com" {
		t.Errorf("email = %s", got[0].Email)
	}
	if got[0].Country != "Nepal" {
		t.Errorf("country = %s", got[0].Country)
	}
	if !got[0].Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, now)
	}
	if got[0].Severity != SeverityHigh {
		t.Errorf("severity = %s", got[0].Severity)
	}
}

func TestPostgres_StartExclusive(t *testing.T) {
	store, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	since := time.Now().UTC().Truncate(time.Microsecond)

	recs := []*LoginRecord{
		{Email: "boundary@example.com", Timestamp: since, Status: "success"},
		{Email: "after@example.com", Timestamp: since.Add(time.Minute), Status: "success"},
	}
	for _, r := range recs {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.Query(ctx, Filter{Start: since, StartExclusive: true})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].Email != "after@example.com" {
		t.Fatalf("expected only the post-boundary record, got %d", len(got))
	}

	inclusive, err := store.Query(ctx, Filter{Start: since})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(inclusive) != 2 {
		t.Fatalf("inclusive lower bound should match both records, got %d", len(inclusive))
	}
}

func TestPostgres_NullColumns(t *testing.T) {
	store, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()

	// No user id, no country, no asn: stored as NULL, read back as zero values
	rec := &LoginRecord{
		Email:     "unknown@example.com",
		Timestamp: time.Now().UTC(),
		IPAddress: "198.51.100.1",
		Status:    "failed",
	}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].UserID != 0 {
		t.Errorf("UserID = %d, want 0", got[0].UserID)
	}
	if got[0].Country != "" {
		t.Errorf("Country = %q, want empty", got[0].Country)
	}
}

func TestPostgres_MinSeverityAndReason(t *testing.T) {
	store, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC()

	seed := []*LoginRecord{
		{Email: "low@x.com", Timestamp: now, IPAddress: "1.1.1.1", IsAnomaly: true, Severity: SeverityLow, AnomalyReason: "unusual login time"},
		{Email: "high@x.com", Timestamp: now, IPAddress: "1.1.1.2", IsAnomaly: true, Severity: SeverityHigh, AnomalyReason: "Suspicious login flagged: NEW COUNTRY"},
		{Email: "crit@x.com", Timestamp: now, IPAddress: "1.1.1.3", IsAnomaly: true, Severity: SeverityCritical, AnomalyReason: "Suspicious login flagged: ML model"},
	}
	for _, r := range seed {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.Query(ctx, Filter{MinSeverity: SeverityHigh})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 high+ records, got %d", len(got))
	}

	got, err = store.Query(ctx, Filter{ReasonContains: "new country"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].Email != "high@x.com" {
		t.Fatalf("ILIKE reason filter failed: %+v", got)
	}
}

func TestPostgres_QueryBefore(t *testing.T) {
	store, cleanup := setupPostgres(t)
	defer cleanup()

	ctx := context.Background()
	cutoff := time.Now().UTC()

	seed := []*LoginRecord{
		{UserID: 7, Email: "u7@x.com", Timestamp: cutoff.Add(-time.Hour), IPAddress: "1.2.3.4"},
		{UserID: 7, Email: "u7@x.com", Timestamp: cutoff.Add(time.Hour), IPAddress: "1.2.3.4"},
		{UserID: 8, Email: "u8@x.com", Timestamp: cutoff.Add(-time.Hour), IPAddress: "1.2.3.5"},
	}
	for _, r := range seed {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.QueryBefore(ctx, cutoff, []int64{7})
	if err != nil {
		t.Fatalf("QueryBefore failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(got))
	}
	if got[0].UserID != 7 {
		t.Errorf("UserID = %d", got[0].UserID)
	}

	none, err := store.QueryBefore(ctx, cutoff, nil)
	if err != nil {
		t.Fatalf("QueryBefore failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no records for empty user list")
	}
}
