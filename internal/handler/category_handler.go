package handler

import (
	"net/http"

	"classifieds-service/internal/catalog"
	"classifieds-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryHandler serves the read-mostly category taxonomy.
type CategoryHandler struct {
	catalog *catalog.Service
}

// NewCategoryHandler creates a category handler backed by the catalog engine.
func NewCategoryHandler(svc *catalog.Service) *CategoryHandler {
	return &CategoryHandler{catalog: svc}
}

// ListCategories retrieves the active taxonomy for navigation
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	categories, err := h.catalog.ListCategories()
	if err != nil {
		log.Error("Failed to retrieve categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve categories",
		})
	}

	log.Info("Categories retrieved", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetSubtree resolves a category slug or id to the category-id set used for
// subtree filtering
func (h *CategoryHandler) GetSubtree(c echo.Context) error {
	log := logger.FromContext(c)
	slug := c.Param("slug")

	ids, err := h.catalog.ResolveSubtree(slug)
	if err != nil {
		log.Warn("Category subtree not resolved",
			zap.String("slug", slug),
			zap.Error(err))
		return writeError(c, err)
	}

	log.Info("Category subtree resolved",
		zap.String("slug", slug),
		zap.Int("count", len(ids)))
	return c.JSON(http.StatusOK, echo.Map{"category_ids": ids})
}
