package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"workcompliance/internal/compliance"
	"workcompliance/internal/model"
	"workcompliance/internal/repository"
)

var ErrIDRequired = errors.New("id is required")

const (
	scopeWorker = "worker"
	scopeSites  = "sites"
	scopeGlobal = "global"
)

// ComplianceService computes compliance summaries on demand. Nothing is cached
// between calls except what the catalog source itself caches.
type ComplianceService interface {
	// WorkerCompliance returns the summary of one worker. A worker with no
	// documents or assignments is not an error: every unconditional type is missing.
	WorkerCompliance(ctx context.Context, workerID string) (*model.WorkerComplianceSummary, error)

	// FleetCompliance returns one summary per requested site using a fixed number of
	// fetches whatever the number of sites or workers. Sites with no active workers
	// get an all-zero summary.
	FleetCompliance(ctx context.Context, siteIDs []string) (map[string]model.SiteComplianceSummary, error)

	// GlobalCompliance rolls up every worker with at least one active assignment.
	GlobalCompliance(ctx context.Context) (*model.GlobalComplianceSummary, error)

	// AsOf returns a service that evaluates at t instead of the current time.
	AsOf(t time.Time) ComplianceService
}

// Option configures a ComplianceService.
type Option func(*complianceService)

// WithClock replaces time.Now as the evaluation instant.
func WithClock(now func() time.Time) Option {
	return func(s *complianceService) { s.now = now }
}

// WithParallelism bounds how many workers are evaluated at once. Values below 1 mean 1.
func WithParallelism(n int) Option {
	return func(s *complianceService) { s.parallelism = max(n, 1) }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *complianceService) { s.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(s *complianceService) { s.metrics = m }
}

type complianceService struct {
	catalog     repository.CatalogRepository
	assignments repository.AssignmentRepository
	documents   repository.DocumentRepository

	now         func() time.Time
	parallelism int
	logger      *zap.Logger
	metrics     *Metrics
	tracer      trace.Tracer
}

// NewComplianceService constructs a ComplianceService over the three read ports.
func NewComplianceService(
	catalog repository.CatalogRepository,
	assignments repository.AssignmentRepository,
	documents repository.DocumentRepository,
	opts ...Option,
) ComplianceService {
	s := &complianceService{
		catalog:     catalog,
		assignments: assignments,
		documents:   documents,
		now:         time.Now,
		parallelism: 1,
		logger:      zap.NewNop(),
		tracer:      otel.Tracer("workcompliance/internal/service"),
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With(zap.String("component", "compliance_service"))
	return s
}

func (s *complianceService) AsOf(t time.Time) ComplianceService {
	cp := *s
	cp.now = func() time.Time { return t }
	return &cp
}

func (s *complianceService) WorkerCompliance(ctx context.Context, workerID string) (_ *model.WorkerComplianceSummary, err error) {
	if workerID == "" {
		return nil, ErrIDRequired
	}
	now := s.now()
	ctx, span := s.tracer.Start(ctx, "ComplianceService.WorkerCompliance",
		trace.WithAttributes(attribute.String("worker.id", workerID)))
	defer s.finish(span, scopeWorker, time.Now(), func() int { return 1 }, &err)

	var (
		cat         compliance.Catalog
		assignments []model.AssignmentRecord
		docs        []model.UploadedDocument
	)
	ids := []string{workerID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat, err = s.loadCatalog(gctx)
		return err
	})
	g.Go(func() (err error) {
		assignments, err = s.assignments.ListByWorkers(gctx, ids)
		if err != nil {
			return fmt.Errorf("fetch assignments: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		docs, err = s.documents.ListByWorkers(gctx, ids)
		if err != nil {
			return fmt.Errorf("fetch documents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary, err := compliance.EvaluateWorker(workerID, cat, docs, assignments, now)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *complianceService) FleetCompliance(ctx context.Context, siteIDs []string) (_ map[string]model.SiteComplianceSummary, err error) {
	if len(siteIDs) == 0 {
		return map[string]model.SiteComplianceSummary{}, nil
	}
	if slices.Contains(siteIDs, "") {
		return nil, ErrIDRequired
	}
	sites := slices.Clone(siteIDs)
	slices.Sort(sites)
	sites = slices.Compact(sites)

	now := s.now()
	ctx, span := s.tracer.Start(ctx, "ComplianceService.FleetCompliance",
		trace.WithAttributes(attribute.Int("sites.count", len(sites))))
	var workers []string
	defer s.finish(span, scopeSites, time.Now(), func() int { return len(workers) }, &err)

	var (
		cat         compliance.Catalog
		assignments []model.AssignmentRecord
		docs        []model.UploadedDocument
		members     map[string][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat, err = s.loadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.assignments.ListBySites(gctx, sites)
		if err != nil {
			return fmt.Errorf("fetch assignments: %w", err)
		}
		members = compliance.ActiveMembers(assignments, sites)
		workers = memberUnion(members)
		if len(workers) == 0 {
			return nil
		}
		docs, err = s.documents.ListByWorkers(gctx, workers)
		if err != nil {
			return fmt.Errorf("fetch documents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workers.count", len(workers)))

	summaries, err := s.evaluate(ctx, cat, workers, assignments, docs, now)
	if err != nil {
		return nil, err
	}
	byWorker := make(map[string]model.WorkerComplianceSummary, len(summaries))
	for _, sum := range summaries {
		byWorker[sum.WorkerID] = sum
	}
	return compliance.SiteRollups(sites, members, byWorker), nil
}

func (s *complianceService) GlobalCompliance(ctx context.Context) (_ *model.GlobalComplianceSummary, err error) {
	now := s.now()
	ctx, span := s.tracer.Start(ctx, "ComplianceService.GlobalCompliance")
	var workers []string
	defer s.finish(span, scopeGlobal, time.Now(), func() int { return len(workers) }, &err)

	var (
		cat         compliance.Catalog
		assignments []model.AssignmentRecord
		docs        []model.UploadedDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cat, err = s.loadCatalog(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = s.assignments.ListActive(gctx)
		if err != nil {
			return fmt.Errorf("fetch assignments: %w", err)
		}
		workers = compliance.ActiveWorkers(assignments)
		if len(workers) == 0 {
			return nil
		}
		docs, err = s.documents.ListByWorkers(gctx, workers)
		if err != nil {
			return fmt.Errorf("fetch documents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workers.count", len(workers)))

	summaries, err := s.evaluate(ctx, cat, workers, assignments, docs, now)
	if err != nil {
		return nil, err
	}
	return &model.GlobalComplianceSummary{ComplianceRollup: compliance.Rollup(summaries)}, nil
}

func (s *complianceService) loadCatalog(ctx context.Context) (compliance.Catalog, error) {
	defs, err := s.catalog.ListDocumentTypes(ctx)
	if err != nil {
		return compliance.Catalog{}, fmt.Errorf("fetch catalog: %w", err)
	}
	return compliance.NewCatalog(defs)
}

// evaluate computes one summary per worker, in workers order. Any failure fails the batch.
func (s *complianceService) evaluate(
	ctx context.Context,
	cat compliance.Catalog,
	workers []string,
	assignments []model.AssignmentRecord,
	docs []model.UploadedDocument,
	now time.Time,
) ([]model.WorkerComplianceSummary, error) {
	assignmentsOf := compliance.GroupBy(assignments, func(a model.AssignmentRecord) string { return a.WorkerID })
	docsOf := compliance.GroupBy(docs, func(d model.UploadedDocument) string { return d.WorkerID })

	out := make([]model.WorkerComplianceSummary, len(workers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, w := range workers {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, err := compliance.EvaluateWorker(w, cat, docsOf[w], assignmentsOf[w], now)
			if err != nil {
				return fmt.Errorf("evaluate worker %s: %w", w, err)
			}
			out[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *complianceService) finish(span trace.Span, scope string, started time.Time, workers func() int, errp *error) {
	defer span.End()
	err := *errp
	n := workers()
	s.metrics.observe(scope, started, n, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("compliance computation failed",
			zap.String("event", scope+"_compliance"), zap.Error(err))
		return
	}
	s.logger.Debug("compliance computed",
		zap.String("event", scope+"_compliance"),
		zap.Int("workers", n),
		zap.Duration("duration", time.Since(started)))
}

func memberUnion(members map[string][]string) []string {
	var ids []string
	for _, ws := range members {
		ids = append(ids, ws...)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
