package postgres

import (
	"context"
	"database/sql"

	"workcompliance/internal/model"
	"workcompliance/internal/repository"
)

// AssignmentPostgres reads site assignment history from the site_assignments table.
type AssignmentPostgres struct {
	db *sql.DB
}

// NewAssignmentPostgres creates a new AssignmentPostgres repository.
func NewAssignmentPostgres(db *sql.DB) *AssignmentPostgres {
	return &AssignmentPostgres{db: db}
}

var _ repository.AssignmentRepository = (*AssignmentPostgres)(nil)

const assignmentColumns = `worker_id, site_id, assigned_at, released_at, active`

// ListBySites returns the history of every worker actively assigned to one of siteIDs.
// Membership and history come back from the same query.
func (r *AssignmentPostgres) ListBySites(ctx context.Context, siteIDs []string) ([]model.AssignmentRecord, error) {
	if len(siteIDs) == 0 {
		return []model.AssignmentRecord{}, nil
	}
	const q = `
		SELECT ` + assignmentColumns + `
		FROM site_assignments
		WHERE worker_id IN (
			SELECT worker_id FROM site_assignments WHERE active AND site_id = ANY($1)
		)
		ORDER BY worker_id, assigned_at, site_id
	`
	return r.query(ctx, q, siteIDs)
}

// ListByWorkers returns the history of the given workers.
func (r *AssignmentPostgres) ListByWorkers(ctx context.Context, workerIDs []string) ([]model.AssignmentRecord, error) {
	if len(workerIDs) == 0 {
		return []model.AssignmentRecord{}, nil
	}
	const q = `
		SELECT ` + assignmentColumns + `
		FROM site_assignments
		WHERE worker_id = ANY($1)
		ORDER BY worker_id, assigned_at, site_id
	`
	return r.query(ctx, q, workerIDs)
}

// ListActive returns the history of every worker holding an active assignment.
func (r *AssignmentPostgres) ListActive(ctx context.Context) ([]model.AssignmentRecord, error) {
	const q = `
		SELECT ` + assignmentColumns + `
		FROM site_assignments
		WHERE worker_id IN (SELECT worker_id FROM site_assignments WHERE active)
		ORDER BY worker_id, assigned_at, site_id
	`
	return r.query(ctx, q)
}

func (r *AssignmentPostgres) query(ctx context.Context, q string, args ...any) ([]model.AssignmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AssignmentRecord, 0)
	for rows.Next() {
		var (
			a        model.AssignmentRecord
			released sql.NullTime
		)
		if err := rows.Scan(
			&a.WorkerID,
			&a.SiteID,
			&a.AssignedAt,
			&released,
			&a.Active,
		); err != nil {
			return nil, err
		}
		if released.Valid {
			t := released.Time
			a.ReleasedAt = &t
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
