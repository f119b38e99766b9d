package handler

import (
	"net/http"
	"time"

	"classifieds-service/internal/catalog"
	"classifieds-service/internal/middleware"
	"classifieds-service/internal/model"
	"classifieds-service/pkg/logger"
	"classifieds-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler serves the moderation surface. Rights are checked by the
// core's authorization policy, not by routing.
type AdminHandler struct {
	catalog *catalog.Service
}

// NewAdminHandler creates an admin handler backed by the catalog engine.
func NewAdminHandler(svc *catalog.Service) *AdminHandler {
	return &AdminHandler{catalog: svc}
}

// TransitionRequest defines the structure for single-listing status changes
type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE REJECTED EXPIRED SOLD DELETED"`
	Reason string `json:"reason"`
}

// BulkRequest defines the structure for bulk moderation actions
type BulkRequest struct {
	IDs    []uint `json:"ids" validate:"required,min=1"`
	Action string `json:"action" validate:"required,oneof=approve reject feature delete"`
}

// TransitionListing moves one listing through the moderation state machine
func (h *AdminHandler) TransitionListing(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}

	var req TransitionRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log.Info("Moderation transition request",
		zap.Uint("listing_id", id),
		zap.Uint("actor_id", actor.UserID),
		zap.String("target", req.Status))

	listing, err := h.catalog.Transition(id, actor, model.ListingStatus(req.Status), req.Reason)
	if err != nil {
		prometheus.RecordModerationAction("transition", "rejected")
		log.Warn("Moderation transition rejected",
			zap.Uint("listing_id", id),
			zap.Error(err))
		return writeError(c, err)
	}

	prometheus.RecordModerationAction("transition", "applied")
	log.Info("Moderation transition applied",
		zap.Uint("listing_id", listing.ID),
		zap.String("status", string(listing.Status)))
	return c.JSON(http.StatusOK, listing)
}

// BulkModerate applies one action across many listings, best effort per row
func (h *AdminHandler) BulkModerate(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req BulkRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log.Info("Bulk moderation request",
		zap.String("action", req.Action),
		zap.Int("count", len(req.IDs)),
		zap.Uint("actor_id", actor.UserID))

	result, err := h.catalog.BulkTransition(req.IDs, actor, req.Action)
	if err != nil {
		prometheus.RecordModerationAction(req.Action, "rejected")
		return writeError(c, err)
	}

	prometheus.RecordModerationAction(req.Action, "applied")
	log.Info("Bulk moderation completed",
		zap.String("action", req.Action),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", len(result.Skipped)))
	return c.JSON(http.StatusOK, result)
}

// Sweep materializes expired listings and stale featured flags on demand
func (h *AdminHandler) Sweep(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if !actor.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "admin rights required"})
	}

	result, err := h.catalog.Sweep(time.Now())
	if err != nil {
		log.Error("Maintenance sweep failed", zap.Error(err))
		return writeError(c, err)
	}

	log.Info("Maintenance sweep completed",
		zap.Int64("expired", result.Expired),
		zap.Int64("unfeatured", result.Unfeatured))
	return c.JSON(http.StatusOK, result)
}
