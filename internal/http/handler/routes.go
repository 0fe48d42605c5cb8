package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"workcompliance/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ComplianceService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Get("/workers/:id/compliance", WorkerCompliance(svc))
	app.Get("/sites/compliance", FleetCompliance(svc))
	app.Get("/sites/:id/compliance", SiteCompliance(svc))
	app.Get("/compliance", GlobalCompliance(svc))
}
