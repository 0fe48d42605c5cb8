package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"workcompliance/internal/model"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListDocumentTypes(ctx context.Context) ([]model.DocumentTypeDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentTypeDefinition), args.Error(1)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) ListBySites(ctx context.Context, siteIDs []string) ([]model.AssignmentRecord, error) {
	args := m.Called(ctx, siteIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssignmentRecord), args.Error(1)
}

func (m *MockAssignmentRepository) ListByWorkers(ctx context.Context, workerIDs []string) ([]model.AssignmentRecord, error) {
	args := m.Called(ctx, workerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssignmentRecord), args.Error(1)
}

func (m *MockAssignmentRepository) ListActive(ctx context.Context) ([]model.AssignmentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssignmentRecord), args.Error(1)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) ListByWorkers(ctx context.Context, workerIDs []string) ([]model.UploadedDocument, error) {
	args := m.Called(ctx, workerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UploadedDocument), args.Error(1)
}
