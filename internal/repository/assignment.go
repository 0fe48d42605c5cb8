package repository

import (
	"context"

	"workcompliance/internal/model"
)

// AssignmentRepository reads site assignment history. Each method is a single query.
type AssignmentRepository interface {
	// ListBySites returns the full assignment history of every worker that is
	// actively assigned to at least one of siteIDs.
	ListBySites(ctx context.Context, siteIDs []string) ([]model.AssignmentRecord, error)

	// ListByWorkers returns the full assignment history of the given workers.
	ListByWorkers(ctx context.Context, workerIDs []string) ([]model.AssignmentRecord, error)

	// ListActive returns the full assignment history of every worker with an active assignment.
	ListActive(ctx context.Context) ([]model.AssignmentRecord, error)
}
