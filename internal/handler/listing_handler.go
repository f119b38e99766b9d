package handler

import (
	"net/http"
	"strconv"

	"classifieds-service/internal/catalog"
	"classifieds-service/internal/middleware"
	"classifieds-service/internal/model"
	"classifieds-service/pkg/logger"
	"classifieds-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListingHandler serves the public browse surface and the owner submit/edit
// endpoints.
type ListingHandler struct {
	catalog *catalog.Service
}

// NewListingHandler creates a listing handler backed by the catalog engine.
func NewListingHandler(svc *catalog.Service) *ListingHandler {
	return &ListingHandler{catalog: svc}
}

// ListingRequest defines the structure for listing creation requests
type ListingRequest struct {
	CategoryID  uint     `json:"category_id" validate:"required"`
	ListingType string   `json:"listing_type" validate:"required,oneof=GENERAL HOUSING JOB SERVICE"`
	Title       string   `json:"title" validate:"required"`
	TitleEn     string   `json:"title_en"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	PriceType   string   `json:"price_type" validate:"omitempty,oneof=FIXED NEGOTIABLE FREE HOURLY MONTHLY"`
	Location    string   `json:"location"`

	NeighborhoodID *uint  `json:"neighborhood_id"`
	ContactPhone   string `json:"contact_phone"`
	ContactEmail   string `json:"contact_email"`

	Housing *model.HousingFields `json:"housing"`
	Job     *model.JobFields     `json:"job"`
	Service *model.ServiceFields `json:"service"`

	Images []ImageRequest `json:"images" validate:"dive"`
}

// ImageRequest is one already-uploaded image URL in a listing payload
type ImageRequest struct {
	URL       string `json:"url" validate:"required"`
	SortOrder int    `json:"sort_order"`
	IsPrimary bool   `json:"is_primary"`
}

// ListingPatchRequest defines the structure for partial listing updates
type ListingPatchRequest struct {
	CategoryID  *uint    `json:"category_id"`
	Title       *string  `json:"title"`
	TitleEn     *string  `json:"title_en"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	PriceType   *string  `json:"price_type"`
	Location    *string  `json:"location"`

	NeighborhoodID *uint   `json:"neighborhood_id"`
	ContactPhone   *string `json:"contact_phone"`
	ContactEmail   *string `json:"contact_email"`

	Housing *model.HousingFields `json:"housing"`
	Job     *model.JobFields     `json:"job"`
	Service *model.ServiceFields `json:"service"`
}

// Browse handles the four catalog views. The view comes from the route
// (general listings, housing, jobs, services); filters, sort and paging
// come from the query string.
func (h *ListingHandler) Browse(view catalog.View) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		filters := catalog.Filters{
			Category:     c.QueryParam("category"),
			Q:            c.QueryParam("q"),
			Neighborhood: c.QueryParam("neighborhood"),
			MinPrice:     parseFloatParam(c, "min_price"),
			MaxPrice:     parseFloatParam(c, "max_price"),
			Bedrooms:     parseIntParam(c, "bedrooms"),
			PetFriendly:  parseBoolParam(c, "pet_friendly"),
			JobType:      c.QueryParam("job_type"),
		}
		sort := c.QueryParam("sort")
		page := atoiDefault(c.QueryParam("page"), 1)
		pageSize := atoiDefault(c.QueryParam("page_size"), 0)

		log.Info("Browsing listings",
			zap.String("view", string(view)),
			zap.String("category", filters.Category),
			zap.String("q", filters.Q),
			zap.String("sort", sort),
			zap.Int("page", page))

		result, err := h.catalog.QueryListings(view, filters, sort, page, pageSize)
		if err != nil {
			log.Warn("Listing query failed", zap.Error(err))
			return writeError(c, err)
		}

		prometheus.RecordListingOperation("query")
		log.Info("Listings retrieved",
			zap.Int64("total", result.Total),
			zap.Int("count", len(result.Items)))
		return c.JSON(http.StatusOK, result)
	}
}

// GetListing handles the listing detail page and fires the view counter.
func (h *ListingHandler) GetListing(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}

	// Anonymous browsing is allowed; an actor is only present on
	// authenticated requests.
	actor, _ := middleware.ActorFromContext(c)

	listing, err := h.catalog.GetListing(id, actor)
	if err != nil {
		return writeError(c, err)
	}

	// A failed increment must never fail the read; the counter is just
	// stale by one.
	if err := h.catalog.IncrementView(id); err != nil {
		log.Warn("View increment failed",
			zap.Uint("listing_id", id),
			zap.Error(err))
	} else {
		prometheus.RecordListingView(string(listing.ListingType))
	}

	log.Info("Listing retrieved",
		zap.Uint("listing_id", listing.ID),
		zap.String("status", string(listing.Status)))
	return c.JSON(http.StatusOK, listing)
}

// CreateListing handles listing submission
func (h *ListingHandler) CreateListing(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log.Info("Listing creation request",
		zap.Uint("owner_user_id", actor.UserID),
		zap.String("listing_type", req.ListingType),
		zap.Uint("category_id", req.CategoryID))

	input := catalog.ListingInput{
		CategoryID:     req.CategoryID,
		ListingType:    model.ListingType(req.ListingType),
		Title:          req.Title,
		TitleEn:        req.TitleEn,
		Description:    req.Description,
		Price:          req.Price,
		PriceType:      model.PriceType(req.PriceType),
		Location:       req.Location,
		NeighborhoodID: req.NeighborhoodID,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		Housing:        req.Housing,
		Job:            req.Job,
		Service:        req.Service,
	}
	for _, img := range req.Images {
		input.Images = append(input.Images, catalog.ImageInput{
			URL:       img.URL,
			SortOrder: img.SortOrder,
			IsPrimary: img.IsPrimary,
		})
	}

	listing, err := h.catalog.CreateListing(actor, input)
	if err != nil {
		log.Warn("Listing creation rejected", zap.Error(err))
		return writeError(c, err)
	}

	prometheus.RecordListingOperation("create")
	log.Info("Listing created",
		zap.Uint("listing_id", listing.ID),
		zap.String("status", string(listing.Status)),
		zap.String("listing_type", string(listing.ListingType)))
	return c.JSON(http.StatusCreated, listing)
}

// UpdateListing handles owner/admin edits; edits never change status
func (h *ListingHandler) UpdateListing(c echo.Context) error {
	log := logger.FromContext(c)

	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}

	var req ListingPatchRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	patch := catalog.ListingPatch{
		CategoryID:     req.CategoryID,
		Title:          req.Title,
		TitleEn:        req.TitleEn,
		Description:    req.Description,
		Price:          req.Price,
		Location:       req.Location,
		NeighborhoodID: req.NeighborhoodID,
		ContactPhone:   req.ContactPhone,
		ContactEmail:   req.ContactEmail,
		Housing:        req.Housing,
		Job:            req.Job,
		Service:        req.Service,
	}
	if req.PriceType != nil {
		pt := model.PriceType(*req.PriceType)
		patch.PriceType = &pt
	}

	listing, err := h.catalog.UpdateListing(id, actor, patch)
	if err != nil {
		log.Warn("Listing update rejected",
			zap.Uint("listing_id", id),
			zap.Error(err))
		return writeError(c, err)
	}

	prometheus.RecordListingOperation("update")
	log.Info("Listing updated", zap.Uint("listing_id", listing.ID))
	return c.JSON(http.StatusOK, listing)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id), err
}

func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseFloatParam(c echo.Context, name string) *float64 {
	if s := c.QueryParam(name); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return &v
		}
	}
	return nil
}

func parseIntParam(c echo.Context, name string) *int {
	if s := c.QueryParam(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return &v
		}
	}
	return nil
}

func parseBoolParam(c echo.Context, name string) *bool {
	if s := c.QueryParam(name); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			return &v
		}
	}
	return nil
}
