package repository

import (
	"context"

	"workcompliance/internal/model"
)

// CatalogRepository reads the obligatory document type catalog, active and inactive entries alike.
type CatalogRepository interface {
	ListDocumentTypes(ctx context.Context) ([]model.DocumentTypeDefinition, error)
}
