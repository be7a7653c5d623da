package activity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ritee123/loginsight/internal/idgen"
)

// PostgresStore implements Store with PostgreSQL.
// Schema is owned by the goose migrations under migrations/.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed login-activity store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const recordColumns = `
	id, COALESCE(user_id, 0), email, timestamp, ip_address,
	COALESCE(country, ''), COALESCE(asn, ''), user_agent, device_type,
	browser, operating_system, login_frequency, login_successful, status,
	is_anomaly, COALESCE(anomaly_score, 0), COALESCE(anomaly_reason, ''),
	COALESCE(severity, '')`

func (p *PostgresStore) Query(ctx context.Context, f Filter) ([]*LoginRecord, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.Start.IsZero() {
		op := ">="
		if f.StartExclusive {
			op = ">"
		}
		conds = append(conds, "timestamp "+op+" "+arg(f.Start))
	}
	if !f.End.IsZero() {
		conds = append(conds, "timestamp <= "+arg(f.End))
	}
	if f.AnomalousOnly {
		conds = append(conds, "is_anomaly = TRUE")
	}
	if f.MinSeverity != "" {
		var allowed []string
		for _, s := range Severities {
			if s.AtLeast(f.MinSeverity) {
				allowed = append(allowed, string(s))
			}
		}
		conds = append(conds, "severity = ANY("+arg(pq.Array(allowed))+")")
	}
	if f.ReasonContains != "" {
		conds = append(conds, "anomaly_reason ILIKE "+arg("%"+f.ReasonContains+"%"))
	}

	query := "SELECT" + recordColumns + " FROM login_activity"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.Descending {
		query += " ORDER BY timestamp DESC"
	} else {
		query += " ORDER BY timestamp ASC"
	}
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query login activity: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (p *PostgresStore) QueryBefore(ctx context.Context, before time.Time, userIDs []int64) ([]*LoginRecord, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT`+recordColumns+`
		FROM login_activity
		WHERE timestamp < $1 AND user_id = ANY($2)
		ORDER BY timestamp ASC
	`, before, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("query login history: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (p *PostgresStore) Insert(ctx context.Context, rec *LoginRecord) error {
	id := rec.ID
	if id == "" {
		id = idgen.WithPrefix("la_")
	}

	// Nullable columns stored as NULL rather than zero values
	var userID interface{}
	if rec.UserID != 0 {
		userID = rec.UserID
	}
	var country interface{}
	if rec.Country != "" {
		country = rec.Country
	}
	var asn interface{}
	if rec.ASN != "" {
		asn = rec.ASN
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO login_activity (
			id, user_id, email, timestamp, ip_address, country, asn,
			user_agent, device_type, browser, operating_system,
			login_frequency, login_successful, status,
			is_anomaly, anomaly_score, anomaly_reason, severity
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, id, userID, rec.Email, rec.Timestamp, rec.IPAddress, country, asn,
		rec.UserAgent, rec.DeviceType, rec.Browser, rec.OperatingSystem,
		rec.LoginFrequency, rec.LoginSuccessful, rec.Status,
		rec.IsAnomaly, rec.AnomalyScore, rec.AnomalyReason, string(rec.Severity))
	if err != nil {
		return fmt.Errorf("insert login record: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]*LoginRecord, error) {
	result := make([]*LoginRecord, 0)
	for rows.Next() {
		rec := &LoginRecord{}
		var severity string
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Email, &rec.Timestamp, &rec.IPAddress,
			&rec.Country, &rec.ASN, &rec.UserAgent, &rec.DeviceType,
			&rec.Browser, &rec.OperatingSystem, &rec.LoginFrequency,
			&rec.LoginSuccessful, &rec.Status, &rec.IsAnomaly,
			&rec.AnomalyScore, &rec.AnomalyReason, &severity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan login record: %w", err)
		}
		rec.Severity = Severity(severity)
		result = append(result, rec)
	}
	return result, rows.Err()
}
