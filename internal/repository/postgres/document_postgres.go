package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"workcompliance/internal/model"
	"workcompliance/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// ListByWorkers fetches the documents of all given workers with a single ANY($1) query.
// Rows carrying an unknown validation state fail the whole call.
func (r *DocumentPostgres) ListByWorkers(ctx context.Context, workerIDs []string) ([]model.UploadedDocument, error) {
	if len(workerIDs) == 0 {
		return []model.UploadedDocument{}, nil
	}

	const q = `
		SELECT id, worker_id, type_code, site_id, uploaded_at, expiration_date, validation_state, signed
		FROM worker_documents
		WHERE worker_id = ANY($1)
		ORDER BY worker_id, uploaded_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, workerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UploadedDocument, 0)
	for rows.Next() {
		var (
			d        model.UploadedDocument
			siteID   sql.NullString
			expires  sql.NullTime
			rawState string
		)
		if err := rows.Scan(
			&d.ID,
			&d.WorkerID,
			&d.TypeCode,
			&siteID,
			&d.UploadedAt,
			&expires,
			&rawState,
			&d.Signed,
		); err != nil {
			return nil, err
		}
		state, err := model.ParseValidationState(rawState)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		d.ValidationState = state
		d.SiteID = siteID.String
		if expires.Valid {
			t := expires.Time
			d.ExpirationDate = &t
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
