package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"workcompliance/internal/compliance"
	"workcompliance/internal/model"
	repoMocks "workcompliance/internal/repository/mocks"
)

var (
	evalNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	jan     = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	feb     = time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	dec     = time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
)

func days(n int) *time.Time {
	t := evalNow.AddDate(0, 0, n)
	return &t
}

var catalogDefs = []model.DocumentTypeDefinition{
	{Code: "aso", Name: "ASO", Category: "health", HasExpiration: true, Active: true, DisplayOrder: 1, Scope: model.ScopeWorker},
	{Code: "contract", Name: "Contract", Category: "contract", RequiresSignature: true, Active: true, DisplayOrder: 2, Scope: model.ScopeWorker},
	{Code: "nr35", Name: "NR-35", Category: "training", Active: false, DisplayOrder: 3, Scope: model.ScopeWorker},
	{Code: "admission", Name: "Admission", RequiresSignature: true, Active: true, DisplayOrder: 10, Scope: model.ScopeSiteOpening},
	{Code: "extension", Name: "Extension", RequiresSignature: true, Active: true, DisplayOrder: 11, Scope: model.ScopeSiteExtension},
	{Code: "severance", Name: "Severance", Active: true, DisplayOrder: 12, Scope: model.ScopeSiteClosing},
}

func released(t time.Time) *time.Time { return &t }

// w1 closed out site-z and is fully compliant at site-a.
// w2 at site-b has an expired ASO and no admission.
// w3 at site-b has an ASO expiring in 10 days and a contract awaiting validation.
var fleetAssignments = []model.AssignmentRecord{
	{WorkerID: "w1", SiteID: "site-z", AssignedAt: dec, ReleasedAt: released(jan), Active: false},
	{WorkerID: "w1", SiteID: "site-a", AssignedAt: jan, Active: true},
	{WorkerID: "w2", SiteID: "site-b", AssignedAt: feb, Active: true},
	{WorkerID: "w3", SiteID: "site-b", AssignedAt: feb, Active: true},
}

var fleetDocuments = []model.UploadedDocument{
	{ID: "d1", WorkerID: "w1", TypeCode: "aso", UploadedAt: jan, ExpirationDate: days(200), ValidationState: model.StateCurrent, Signed: true},
	{ID: "d2", WorkerID: "w1", TypeCode: "contract", UploadedAt: jan, ValidationState: model.StateCurrent, Signed: true},
	{ID: "d3", WorkerID: "w1", TypeCode: "severance", SiteID: "site-z", UploadedAt: jan, ValidationState: model.StateCurrent},
	{ID: "d4", WorkerID: "w1", TypeCode: "admission", SiteID: "site-a", UploadedAt: jan, ValidationState: model.StateCurrent, Signed: true},
	{ID: "d5", WorkerID: "w2", TypeCode: "aso", UploadedAt: feb, ExpirationDate: days(-5), ValidationState: model.StateCurrent},
	{ID: "d6", WorkerID: "w2", TypeCode: "contract", UploadedAt: feb, ValidationState: model.StateCurrent, Signed: true},
	{ID: "d7", WorkerID: "w3", TypeCode: "aso", UploadedAt: feb, ExpirationDate: days(10), ValidationState: model.StateCurrent},
	{ID: "d8", WorkerID: "w3", TypeCode: "contract", UploadedAt: feb, ValidationState: model.StatePending, Signed: true},
	{ID: "d9", WorkerID: "w3", TypeCode: "admission", SiteID: "site-b", UploadedAt: feb, ValidationState: model.StateCurrent, Signed: true},
}

func ofWorker[T any](items []T, worker string, key func(T) string) []T {
	out := []T{}
	for _, it := range items {
		if key(it) == worker {
			out = append(out, it)
		}
	}
	return out
}

func assignmentsOf(worker string) []model.AssignmentRecord {
	return ofWorker(fleetAssignments, worker, func(a model.AssignmentRecord) string { return a.WorkerID })
}

func documentsOf(worker string) []model.UploadedDocument {
	return ofWorker(fleetDocuments, worker, func(d model.UploadedDocument) string { return d.WorkerID })
}

type fixture struct {
	catalog     *repoMocks.MockCatalogRepository
	assignments *repoMocks.MockAssignmentRepository
	documents   *repoMocks.MockDocumentRepository
}

func newFixture() fixture {
	return fixture{
		catalog:     new(repoMocks.MockCatalogRepository),
		assignments: new(repoMocks.MockAssignmentRepository),
		documents:   new(repoMocks.MockDocumentRepository),
	}
}

func (f fixture) service(opts ...Option) ComplianceService {
	opts = append([]Option{WithClock(func() time.Time { return evalNow })}, opts...)
	return NewComplianceService(f.catalog, f.assignments, f.documents, opts...)
}

func (f fixture) assertExpectations(t *testing.T) {
	f.catalog.AssertExpectations(t)
	f.assignments.AssertExpectations(t)
	f.documents.AssertExpectations(t)
}

func TestComplianceService_WorkerCompliance(t *testing.T) {
	tests := []struct {
		name       string
		workerID   string
		setupMocks func(f fixture)
		wantErr    error
		wantErrMsg string
		check      func(t *testing.T, s *model.WorkerComplianceSummary)
	}{
		{
			name:     "fully compliant worker",
			workerID: "w1",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
				f.assignments.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(assignmentsOf("w1"), nil)
				f.documents.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(documentsOf("w1"), nil)
			},
			check: func(t *testing.T, s *model.WorkerComplianceSummary) {
				assert.Equal(t, "w1", s.WorkerID)
				assert.Equal(t, 3, s.TotalApplicable)
				assert.Equal(t, 3, s.Completed)
				assert.Equal(t, 100, s.Percentage)
				assert.Empty(t, s.MissingTypes)
			},
		},
		{
			name:     "expired document and missing admission",
			workerID: "w2",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
				f.assignments.On("ListByWorkers", mock.Anything, []string{"w2"}).Return(assignmentsOf("w2"), nil)
				f.documents.On("ListByWorkers", mock.Anything, []string{"w2"}).Return(documentsOf("w2"), nil)
			},
			check: func(t *testing.T, s *model.WorkerComplianceSummary) {
				assert.Equal(t, 3, s.TotalApplicable)
				assert.Equal(t, 1, s.Completed)
				assert.Equal(t, 1, s.Expired)
				assert.Equal(t, 33, s.Percentage)
				require.Len(t, s.MissingTypes, 1)
				assert.Equal(t, model.MissingType{Code: "admission", Name: "Admission", SiteID: "site-b"}, s.MissingTypes[0])
				require.Len(t, s.ExpiredTypes, 1)
				assert.Equal(t, "aso", s.ExpiredTypes[0].Code)
			},
		},
		{
			name:     "unknown worker gets every unconditional type as missing",
			workerID: "ghost",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
				f.assignments.On("ListByWorkers", mock.Anything, []string{"ghost"}).Return([]model.AssignmentRecord{}, nil)
				f.documents.On("ListByWorkers", mock.Anything, []string{"ghost"}).Return([]model.UploadedDocument{}, nil)
			},
			check: func(t *testing.T, s *model.WorkerComplianceSummary) {
				assert.Equal(t, 2, s.TotalApplicable)
				assert.Equal(t, 0, s.Percentage)
				assert.Len(t, s.MissingTypes, 2)
			},
		},
		{
			name:     "empty catalog",
			workerID: "w1",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return([]model.DocumentTypeDefinition{}, nil)
				f.assignments.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(assignmentsOf("w1"), nil)
				f.documents.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(documentsOf("w1"), nil)
			},
			check: func(t *testing.T, s *model.WorkerComplianceSummary) {
				assert.Equal(t, 0, s.TotalApplicable)
				assert.Equal(t, 0, s.Percentage)
			},
		},
		{
			name:       "validation - empty id",
			workerID:   "",
			setupMocks: func(f fixture) {},
			wantErr:    ErrIDRequired,
		},
		{
			name:     "document fetch error",
			workerID: "w1",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil).Maybe()
				f.assignments.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(assignmentsOf("w1"), nil).Maybe()
				f.documents.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(nil, errors.New("db fail"))
			},
			wantErrMsg: "fetch documents: db fail",
		},
		{
			name:     "catalog fetch error",
			workerID: "w1",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return(nil, errors.New("bucket gone"))
				f.assignments.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(assignmentsOf("w1"), nil).Maybe()
				f.documents.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(documentsOf("w1"), nil).Maybe()
			},
			wantErrMsg: "fetch catalog: bucket gone",
		},
		{
			name:     "malformed document",
			workerID: "w1",
			setupMocks: func(f fixture) {
				f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
				f.assignments.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(assignmentsOf("w1"), nil)
				f.documents.On("ListByWorkers", mock.Anything, []string{"w1"}).Return([]model.UploadedDocument{
					{ID: "bad", WorkerID: "w1", TypeCode: "aso", UploadedAt: jan, ValidationState: "archived"},
				}, nil)
			},
			wantErr: compliance.ErrMalformedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			s, err := f.service().WorkerCompliance(context.Background(), tt.workerID)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
			case tt.wantErrMsg != "":
				assert.ErrorContains(t, err, tt.wantErrMsg)
				assert.Nil(t, s)
			default:
				require.NoError(t, err)
				require.NotNil(t, s)
				tt.check(t, s)
			}
			f.assertExpectations(t)
		})
	}
}

func TestComplianceService_FleetCompliance(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil).Once()
	f.assignments.On("ListBySites", mock.Anything, []string{"site-a", "site-b", "site-c"}).Return(fleetAssignments, nil).Once()
	f.documents.On("ListByWorkers", mock.Anything, []string{"w1", "w2", "w3"}).Return(fleetDocuments, nil).Once()

	got, err := f.service(WithParallelism(4)).FleetCompliance(context.Background(), []string{"site-b", "site-c", "site-a", "site-b"})

	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, model.SiteComplianceSummary{SiteID: "site-a", ComplianceRollup: model.ComplianceRollup{
		TotalWorkers: 1, WorkersCompliant: 1, OverallPercentage: 100,
	}}, got["site-a"])
	assert.Equal(t, model.SiteComplianceSummary{SiteID: "site-b", ComplianceRollup: model.ComplianceRollup{
		TotalWorkers: 2, WorkersPending: 1, WorkersCritical: 1, OverallPercentage: 50,
		TotalExpiredDocuments: 1, TotalExpiringDocuments: 1,
	}}, got["site-b"])
	assert.Equal(t, model.SiteComplianceSummary{SiteID: "site-c"}, got["site-c"])

	// one query per source whatever the number of sites or workers
	f.catalog.AssertNumberOfCalls(t, "ListDocumentTypes", 1)
	f.assignments.AssertNumberOfCalls(t, "ListBySites", 1)
	f.documents.AssertNumberOfCalls(t, "ListByWorkers", 1)
	f.assertExpectations(t)
}

func TestComplianceService_FleetCompliance_NoSites(t *testing.T) {
	f := newFixture()

	got, err := f.service().FleetCompliance(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	f.catalog.AssertNotCalled(t, "ListDocumentTypes", mock.Anything)
	f.assignments.AssertNotCalled(t, "ListBySites", mock.Anything, mock.Anything)
	f.documents.AssertNotCalled(t, "ListByWorkers", mock.Anything, mock.Anything)
}

func TestComplianceService_FleetCompliance_EmptySiteID(t *testing.T) {
	f := newFixture()

	_, err := f.service().FleetCompliance(context.Background(), []string{"site-a", ""})

	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestComplianceService_FleetCompliance_NoWorkersSkipsDocuments(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
	f.assignments.On("ListBySites", mock.Anything, []string{"site-q"}).Return([]model.AssignmentRecord{}, nil)

	got, err := f.service().FleetCompliance(context.Background(), []string{"site-q"})

	require.NoError(t, err)
	assert.Equal(t, model.SiteComplianceSummary{SiteID: "site-q"}, got["site-q"])
	f.documents.AssertNotCalled(t, "ListByWorkers", mock.Anything, mock.Anything)
}

func TestComplianceService_FleetCompliance_FetchFailure(t *testing.T) {
	sentinel := errors.New("connection reset")
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil).Maybe()
	f.assignments.On("ListBySites", mock.Anything, mock.Anything).Return(fleetAssignments, nil)
	f.documents.On("ListByWorkers", mock.Anything, mock.Anything).Return(nil, sentinel)

	got, err := f.service().FleetCompliance(context.Background(), []string{"site-a", "site-b"})

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorContains(t, err, "fetch documents")
	assert.Nil(t, got)
}

func TestComplianceService_FleetCompliance_MalformedRecordFailsBatch(t *testing.T) {
	f := newFixture()
	docs := append([]model.UploadedDocument{
		{ID: "bad", WorkerID: "w3", TypeCode: "aso", ValidationState: model.StateCurrent},
	}, fleetDocuments...)
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
	f.assignments.On("ListBySites", mock.Anything, mock.Anything).Return(fleetAssignments, nil)
	f.documents.On("ListByWorkers", mock.Anything, mock.Anything).Return(docs, nil)

	got, err := f.service(WithParallelism(2)).FleetCompliance(context.Background(), []string{"site-a", "site-b"})

	assert.ErrorIs(t, err, compliance.ErrMalformedRecord)
	assert.Nil(t, got)
}

func TestComplianceService_BatchMatchesSingleton(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
	f.assignments.On("ListBySites", mock.Anything, []string{"site-b"}).Return(fleetAssignments, nil)
	f.documents.On("ListByWorkers", mock.Anything, []string{"w2", "w3"}).Return(fleetDocuments, nil)
	for _, w := range []string{"w2", "w3"} {
		f.assignments.On("ListByWorkers", mock.Anything, []string{w}).Return(assignmentsOf(w), nil)
		f.documents.On("ListByWorkers", mock.Anything, []string{w}).Return(documentsOf(w), nil)
	}
	svc := f.service()
	ctx := context.Background()

	fleet, err := svc.FleetCompliance(ctx, []string{"site-b"})
	require.NoError(t, err)

	var singles []model.WorkerComplianceSummary
	for _, w := range []string{"w2", "w3"} {
		s, err := svc.WorkerCompliance(ctx, w)
		require.NoError(t, err)
		singles = append(singles, *s)
	}

	assert.Equal(t, compliance.Rollup(singles), fleet["site-b"].ComplianceRollup)
}

func TestComplianceService_GlobalCompliance(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil).Once()
	f.assignments.On("ListActive", mock.Anything).Return(fleetAssignments, nil).Once()
	f.documents.On("ListByWorkers", mock.Anything, []string{"w1", "w2", "w3"}).Return(fleetDocuments, nil).Once()

	got, err := f.service().GlobalCompliance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.ComplianceRollup{
		TotalWorkers:           3,
		WorkersCompliant:       1,
		WorkersPending:         1,
		WorkersCritical:        1,
		OverallPercentage:      67,
		TotalExpiredDocuments:  1,
		TotalExpiringDocuments: 1,
	}, got.ComplianceRollup)
	f.assertExpectations(t)
}

func TestComplianceService_GlobalCompliance_Empty(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
	f.assignments.On("ListActive", mock.Anything).Return([]model.AssignmentRecord{}, nil)

	got, err := f.service().GlobalCompliance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.ComplianceRollup{}, got.ComplianceRollup)
}

func TestComplianceService_AsOf(t *testing.T) {
	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
	f.assignments.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(assignmentsOf("w1"), nil)
	f.documents.On("ListByWorkers", mock.Anything, []string{"w1"}).Return(documentsOf("w1"), nil)
	svc := f.service()

	later, err := svc.AsOf(evalNow.AddDate(1, 0, 0)).WorkerCompliance(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, later.Expired)
	assert.Equal(t, 67, later.Percentage)

	// the receiver still evaluates at its own clock
	today, err := svc.WorkerCompliance(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, 100, today.Percentage)
}

func TestComplianceService_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	f := newFixture()
	f.catalog.On("ListDocumentTypes", mock.Anything).Return(catalogDefs, nil)
	f.assignments.On("ListActive", mock.Anything).Return(fleetAssignments, nil).Once()
	f.assignments.On("ListActive", mock.Anything).Return(nil, errors.New("db fail")).Once()
	f.documents.On("ListByWorkers", mock.Anything, mock.Anything).Return(fleetDocuments, nil)
	svc := f.service(WithMetrics(m))

	_, err = svc.GlobalCompliance(context.Background())
	require.NoError(t, err)
	_, err = svc.GlobalCompliance(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.computations.WithLabelValues(scopeGlobal, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.computations.WithLabelValues(scopeGlobal, "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.workersEvaluated))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
