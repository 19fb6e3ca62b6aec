package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/mailpulse/internal/domain"
)

// MetricsRepo reads raw per-day performance records from PostgreSQL. The
// ingestion pipeline owns writes to entity_metrics_daily; this repository is
// strictly read-only and implements analytics.Source and
// analytics.WarmupSource.
type MetricsRepo struct{ db *sql.DB }

// NewMetricsRepo creates a Postgres-backed record source.
func NewMetricsRepo(db *sql.DB) *MetricsRepo { return &MetricsRepo{db: db} }

// FetchRecords returns the raw records for a kind, optionally narrowed to
// specific entity ids and an inclusive date range. Rows come back ordered by
// date then entity id; the aggregator re-sorts anyway, so the ordering here
// is only for predictable debugging.
func (r *MetricsRepo) FetchRecords(ctx context.Context, kind domain.EntityKind, ids []string, rng domain.DateRange) ([]domain.RawRecord, error) {
	q := `
		SELECT entity_id, COALESCE(display_name, ''),
		       to_char(metric_date, 'YYYY-MM-DD'),
		       sent, delivered, opened, clicked, replied,
		       bounced, unsubscribed, spam_complaints, updated_at
		FROM entity_metrics_daily
		WHERE entity_kind = $1`
	args := []interface{}{string(kind)}
	idx := 2

	if len(ids) > 0 {
		q += fmt.Sprintf(" AND entity_id = ANY($%d)", idx)
		args = append(args, pq.Array(ids))
		idx++
	}
	if rng.Start != "" {
		q += fmt.Sprintf(" AND metric_date >= $%d", idx)
		args = append(args, rng.Start)
		idx++
	}
	if rng.End != "" {
		q += fmt.Sprintf(" AND metric_date <= $%d", idx)
		args = append(args, rng.End)
		idx++
	}
	q += " ORDER BY metric_date ASC, entity_id ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s records: %w", kind, err)
	}
	defer rows.Close()

	var records []domain.RawRecord
	for rows.Next() {
		var rec domain.RawRecord
		if err := rows.Scan(
			&rec.EntityID, &rec.Name, &rec.Date,
			&rec.Metrics.Sent, &rec.Metrics.Delivered, &rec.Metrics.Opened,
			&rec.Metrics.Clicked, &rec.Metrics.Replied, &rec.Metrics.Bounced,
			&rec.Metrics.Unsubscribed, &rec.Metrics.SpamComplaints,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan %s record: %w", kind, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s records: %w", kind, err)
	}
	return records, nil
}

// Progress returns warmup progress (0-100) per entity id. Entities without
// a warmup row are omitted; the scorer treats them as fully warmed.
func (r *MetricsRepo) Progress(ctx context.Context, kind domain.EntityKind, ids []string) (map[string]int, error) {
	q := `SELECT entity_id, progress FROM warmup_progress WHERE entity_kind = $1`
	args := []interface{}{string(kind)}
	if len(ids) > 0 {
		q += " AND entity_id = ANY($2)"
		args = append(args, pq.Array(ids))
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch warmup progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]int)
	for rows.Next() {
		var id string
		var p int
		if err := rows.Scan(&id, &p); err != nil {
			return nil, fmt.Errorf("scan warmup progress: %w", err)
		}
		progress[id] = p
	}
	return progress, rows.Err()
}
