package integrity

import (
	"borg-link/core/apperror"
	"borg-link/core/logger"
	"borg-link/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
	auth    fiber.Handler
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler. Every route sits behind auth when it is set.
func NewHandler(service *Service, auth fiber.Handler, logger *zap.Logger) *Handler {
	return &Handler{service: service, auth: auth, logger: logger}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	var group fiber.Router
	if h.auth != nil {
		group = app.Group("/integrity", h.auth)
	} else {
		group = app.Group("/integrity")
	}
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/items", h.HandleItemsCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the structure, schema and item checks without fixing anything. The item check lists the whole bucket.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = fiber.Map{"status": "ok", "missing": missing}
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if items, err := h.service.CheckItems(ctx); err != nil {
		report["items"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["items"] = items
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks that an image container exists per resolution. Optionally creates the missing ones.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Param fix query boolean false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return apperror.New(apperror.SystemError, err)
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleSchemaCheck checks the catalog schema.
// @Summary Check Database Schema
// @Description Checks that the borgs, attributes and borg_attributes tables match the models.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Starting schema check")

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return apperror.New(apperror.SystemError, err)
	}
	return c.JSON(report)
}

// HandleItemsCheck compares chain, database and storage and optionally schedules repairs.
// @Summary Check Items
// @Description Lists items the chain produced but the database lacks, stored items missing images, and stored items unknown to the chain. With fix, enqueues the imports and republishes for the workers.
// @Tags integrity
// @Produce json
// @Security ApiKeyAuth
// @Param fix query boolean false "Enqueue imports and republishes"
// @Success 200 {object} ItemsReport "Items Report"
// @Success 202 {object} ItemsReport "Repairs Scheduled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/items [get]
func (h *Handler) HandleItemsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if !utils.ToBool(c.Query("fix")) {
		report, err := h.service.CheckItems(c.Context())
		if err != nil {
			l.Error("Item check failed", zap.Error(err))
			return apperror.New(apperror.SystemError, err)
		}
		return c.JSON(report)
	}

	l.Info("Scheduling item repairs")
	report, err := h.service.ScheduleItems(c.Context())
	if err != nil {
		if report == nil {
			return apperror.New(apperror.SystemError, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to schedule item repairs",
			"details": err.Error(),
			"report":  report,
		})
	}
	return c.Status(fiber.StatusAccepted).JSON(report)
}
