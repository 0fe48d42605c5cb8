package repository

import (
	"context"

	"workcompliance/internal/model"
)

// DocumentRepository reads uploaded worker documents. Writes belong to the upload service.
type DocumentRepository interface {
	// ListByWorkers returns every uploaded document of the given workers in one query.
	// An empty workerIDs slice returns no documents.
	ListByWorkers(ctx context.Context, workerIDs []string) ([]model.UploadedDocument, error)
}
