// Package app opens the backends a compliance process needs and assembles the service.
// Both the HTTP server and the reporting CLI start from here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"workcompliance/internal/config"
	"workcompliance/internal/database"
	"workcompliance/internal/database/migration"
	"workcompliance/internal/repository"
	"workcompliance/internal/repository/objectstore"
	"workcompliance/internal/repository/postgres"
	"workcompliance/internal/repository/rediscache"
	"workcompliance/internal/service"
	"workcompliance/internal/storage"
)

// Deps holds opened backends. Close releases them in reverse order.
type Deps struct {
	DB      *sql.DB
	Catalog repository.CatalogRepository

	closers []func() error
}

// Open connects to PostgreSQL, migrates when asked to, and builds the catalog
// source named by cfg.Catalog, optionally behind the Redis cache.
func Open(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	d := &Deps{DB: db, closers: []func() error{db.Close}}

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			d.Close()
			return nil, err
		}
	}

	var store storage.Storage
	if cfg.Catalog.Source == config.CatalogSourceObject {
		if store, err = storage.NewMinIO(cfg.MinIO); err != nil {
			d.Close()
			return nil, fmt.Errorf("open object storage: %w", err)
		}
	}
	d.Catalog = catalogSource(cfg.Catalog, db, store)

	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.NewClient(cfg.Redis, logger)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.closers = append(d.closers, rdb.Close)
		d.Catalog = rediscache.NewCatalogCache(d.Catalog, rdb, cfg.Catalog.CacheTTL, logger)
	}

	logger.Info("backends ready",
		zap.String("component", "app"),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.Bool("catalog_cache", cfg.Redis.Addr != ""))
	return d, nil
}

func catalogSource(cfg config.CatalogConfig, db *sql.DB, store storage.Storage) repository.CatalogRepository {
	if cfg.Source == config.CatalogSourceObject && store != nil {
		return objectstore.NewCatalogObject(store, cfg.ObjectKey)
	}
	return postgres.NewCatalogPostgres(db)
}

// Service builds the compliance service over the opened backends.
func (d *Deps) Service(cfg config.ComplianceConfig, logger *zap.Logger, metrics *service.Metrics) service.ComplianceService {
	return service.NewComplianceService(
		d.Catalog,
		postgres.NewAssignmentPostgres(d.DB),
		postgres.NewDocumentPostgres(d.DB),
		service.WithParallelism(cfg.Parallelism),
		service.WithLogger(logger),
		service.WithMetrics(metrics),
	)
}

func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}
