package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"workcompliance/internal/service"
)

// evaluator honours the optional ?at=RFC3339 instant.
func evaluator(c *fiber.Ctx, svc service.ComplianceService) (service.ComplianceService, bool) {
	raw := c.Query("at")
	if raw == "" {
		return svc, true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return svc.AsOf(at.UTC()), true
}

// WorkerCompliance returns the compliance summary of one worker.
//
// @Summary  Worker compliance
// @Tags     compliance
// @Produce  json
// @Param    id  path  string true  "Worker ID"
// @Param    at  query string false "Evaluation instant (RFC3339)"
// @Success  200 {object} model.WorkerComplianceSummary
// @Failure  400 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /workers/{id}/compliance [get]
func WorkerCompliance(svc service.ComplianceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		ev, ok := evaluator(c, svc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AT", "at must be an RFC3339 timestamp")
		}
		res, err := ev.WorkerCompliance(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SiteCompliance returns the roll-up of the workers actively assigned to one site.
//
// @Summary  Site compliance
// @Tags     compliance
// @Produce  json
// @Param    id  path  string true  "Site ID"
// @Param    at  query string false "Evaluation instant (RFC3339)"
// @Success  200 {object} model.SiteComplianceSummary
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /sites/{id}/compliance [get]
func SiteCompliance(svc service.ComplianceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		ev, ok := evaluator(c, svc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AT", "at must be an RFC3339 timestamp")
		}
		res, err := ev.FleetCompliance(c.UserContext(), []string{id})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res[id])
	}
}

// FleetCompliance returns one roll-up per site listed in site_ids.
//
// @Summary  Compliance of several sites
// @Tags     compliance
// @Produce  json
// @Param    site_ids query string true  "Comma-separated site IDs"
// @Param    at       query string false "Evaluation instant (RFC3339)"
// @Success  200 {object} map[string]model.SiteComplianceSummary
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /sites/compliance [get]
func FleetCompliance(svc service.ComplianceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("site_ids")
		if raw == "" {
			return writeError(c, fiber.StatusBadRequest, "SITE_IDS_REQUIRED", "site_ids is required")
		}
		ids := strings.Split(raw, ",")
		for i, id := range ids {
			ids[i] = strings.TrimSpace(id)
			if ids[i] == "" {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "site_ids contains an empty id")
			}
		}
		ev, ok := evaluator(c, svc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AT", "at must be an RFC3339 timestamp")
		}
		res, err := ev.FleetCompliance(c.UserContext(), ids)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GlobalCompliance rolls up every worker with an active assignment.
//
// @Summary  Global compliance
// @Tags     compliance
// @Produce  json
// @Param    at query string false "Evaluation instant (RFC3339)"
// @Success  200 {object} model.GlobalComplianceSummary
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /compliance [get]
func GlobalCompliance(svc service.ComplianceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ev, ok := evaluator(c, svc)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_AT", "at must be an RFC3339 timestamp")
		}
		res, err := ev.GlobalCompliance(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
