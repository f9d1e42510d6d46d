package borg

import (
	"errors"
	"strconv"

	"borg-link/core/apperror"
	"borg-link/core/logger"
	"borg-link/core/utils"
	"borg-link/feature/borg/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
	auth    fiber.Handler
	logger  *zap.Logger
}

// NewHandler creates a handler. auth guards the write and maintenance routes.
func NewHandler(service *Service, auth fiber.Handler, logger *zap.Logger) *Handler {
	return &Handler{service: service, auth: auth, logger: logger}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/borgs", h.HandleList)
	app.Get("/borgs/attributes", h.HandleAttributeCounts)
	app.Get("/borgs/rarity/:id", h.HandleRarity)
	app.Get("/borgs/missing", h.auth, h.HandleMissing)
	app.Get("/borg/:id", h.HandleGet)
	app.Post("/borg/:id", h.auth, h.HandleImport)
	app.Get("/opensea/borg/:id", h.HandleOpenSea)
}

// HandleList returns a filtered page of borgs.
// @Summary List Borgs
// @Description Paginated borgs, newest first, filtered by parent, child, attributes and condition.
// @Tags borgs
// @Produce json
// @Param parentId query int false "Parent id (either parent)"
// @Param childId query int false "Child id"
// @Param attributes query string false "Comma separated attribute names"
// @Param condition query string false "both, alive or dead"
// @Param pageNumber query int false "Zero based page number"
// @Param perPage query int false "Page size"
// @Success 200 {object} models.PagedResult[models.ItemView]
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /borgs [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	cfg := h.service.Config()

	parentID, err := utils.OptionalInt(c.Query("parentId"))
	if err != nil {
		return apperror.New(apperror.BadRequest, err)
	}
	childID, err := utils.OptionalInt(c.Query("childId"))
	if err != nil {
		return apperror.New(apperror.BadRequest, err)
	}
	condition, err := ParseCondition(c.Query("condition"))
	if err != nil {
		return apperror.New(apperror.BadRequest, err)
	}
	pageNumber, err := utils.IntOr(c.Query("pageNumber"), 0)
	if err != nil {
		return apperror.New(apperror.BadRequest, err)
	}
	perPage, err := utils.IntOr(c.Query("perPage"), cfg.DefaultPerPage)
	if err != nil {
		return apperror.New(apperror.BadRequest, err)
	}
	if pageNumber < 0 {
		return apperror.New(apperror.BadRequest, errors.New("pageNumber must not be negative"))
	}
	if perPage <= 0 || perPage > cfg.MaxPerPage {
		return apperror.New(apperror.BadRequest, errors.New("perPage out of range"))
	}

	filter := Filter{
		ParentID:   parentID,
		ChildID:    childID,
		Attributes: utils.SplitList(c.Query("attributes")),
		Condition:  condition,
	}
	result, err := h.service.List(c.Context(), filter, models.Page{Number: pageNumber, Size: perPage})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleAttributeCounts returns how many borgs carry each attribute.
// @Summary Attribute Counts
// @Tags borgs
// @Produce json
// @Param condition query string false "both, alive or dead"
// @Success 200 {array} models.AttributeCount
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /borgs/attributes [get]
func (h *Handler) HandleAttributeCounts(c *fiber.Ctx) error {
	condition, err := ParseCondition(c.Query("condition"))
	if err != nil {
		return apperror.New(apperror.BadRequest, err)
	}
	counts, err := h.service.AttributeCounts(c.Context(), condition)
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// HandleRarity returns the rarity of a borg as a bare number, -1 when unknown.
// @Summary Borg Rarity
// @Tags borgs
// @Produce json
// @Param id path int true "Borg id"
// @Success 200 {number} number
// @Router /borgs/rarity/{id} [get]
func (h *Handler) HandleRarity(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	rarity, err := h.service.Rarity(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(rarity)
}

// HandleGet returns a single borg.
// @Summary Get Borg
// @Tags borgs
// @Produce json
// @Param id path int true "Borg id"
// @Success 200 {object} models.ItemView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /borg/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	if view == nil {
		return apperror.New(apperror.NotFound, errors.New("borg not found"))
	}
	return c.JSON(view)
}

// HandleOpenSea returns OpenSea metadata for a borg.
// @Summary OpenSea Metadata
// @Tags opensea
// @Produce json
// @Param id path int true "Borg id"
// @Success 200 {object} models.OpenSeaView
// @Failure 404 {object} map[string]string "Not Found"
// @Router /opensea/borg/{id} [get]
func (h *Handler) HandleOpenSea(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetOpenSea(c.Context(), id)
	if err != nil {
		return err
	}
	if view == nil {
		return apperror.New(apperror.NotFound, errors.New("borg not found"))
	}
	return c.JSON(view)
}

// HandleImport enqueues an import of a borg.
// @Summary Trigger Import
// @Tags borgs
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Borg id"
// @Success 202 {object} map[string]any
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /borg/{id} [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	job, err := h.service.RequestImport(c.Context(), id)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to enqueue import", zap.Int("item_id", id), zap.Error(err))
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id, "jobId": job.ID})
}

// HandleMissing lists ids produced on chain but not imported.
// @Summary Missing Borgs
// @Tags borgs
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /borgs/missing [get]
func (h *Handler) HandleMissing(c *fiber.Ctx) error {
	ids, err := h.service.MissingIDs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": len(ids), "ids": ids})
}

func pathID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 0 {
		return 0, apperror.New(apperror.BadRequest, errors.New("invalid id"))
	}
	return id, nil
}
