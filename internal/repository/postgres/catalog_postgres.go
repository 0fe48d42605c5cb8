package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"workcompliance/internal/model"
	"workcompliance/internal/repository"
)

// CatalogPostgres reads document type definitions from the document_types table.
type CatalogPostgres struct {
	db *sql.DB
}

// NewCatalogPostgres creates a new CatalogPostgres repository.
func NewCatalogPostgres(db *sql.DB) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

var _ repository.CatalogRepository = (*CatalogPostgres)(nil)

// ListDocumentTypes returns every catalog entry, inactive ones included.
func (r *CatalogPostgres) ListDocumentTypes(ctx context.Context) ([]model.DocumentTypeDefinition, error) {
	const q = `
		SELECT code, name, category, has_expiration, requires_signature, active, display_order, scope, prerequisite_code
		FROM document_types
		ORDER BY display_order, code
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentTypeDefinition, 0)
	for rows.Next() {
		var (
			d        model.DocumentTypeDefinition
			rawScope string
			prereq   sql.NullString
		)
		if err := rows.Scan(
			&d.Code,
			&d.Name,
			&d.Category,
			&d.HasExpiration,
			&d.RequiresSignature,
			&d.Active,
			&d.DisplayOrder,
			&rawScope,
			&prereq,
		); err != nil {
			return nil, err
		}
		scope, err := model.ParseScope(rawScope)
		if err != nil {
			return nil, fmt.Errorf("document type %s: %w", d.Code, err)
		}
		d.Scope = scope
		d.PrerequisiteCode = prereq.String
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
