package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"workcompliance/internal/model"
	"workcompliance/internal/service"
)

type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) WorkerCompliance(ctx context.Context, workerID string) (*model.WorkerComplianceSummary, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkerComplianceSummary), args.Error(1)
}

func (m *MockComplianceService) FleetCompliance(ctx context.Context, siteIDs []string) (map[string]model.SiteComplianceSummary, error) {
	args := m.Called(ctx, siteIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]model.SiteComplianceSummary), args.Error(1)
}

func (m *MockComplianceService) GlobalCompliance(ctx context.Context) (*model.GlobalComplianceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GlobalComplianceSummary), args.Error(1)
}

// AsOf records the instant and returns the service registered for it, or m itself.
func (m *MockComplianceService) AsOf(t time.Time) service.ComplianceService {
	args := m.Called(t)
	if svc, ok := args.Get(0).(service.ComplianceService); ok {
		return svc
	}
	return m
}

var _ service.ComplianceService = (*MockComplianceService)(nil)
