package catalog

import (
	"strings"
	"time"

	"classifieds-service/internal/model"
)

// View selects which listing-type slice of the catalog a browse query runs
// against. The general view carries no type restriction so category-scoped
// browsing can mix types under one subtree.
type View string

const (
	ViewGeneral  View = "general"
	ViewHousing  View = "housing"
	ViewJobs     View = "jobs"
	ViewServices View = "services"
)

// Sort keys accepted by QueryListings. Anything else falls back to newest.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortViews     = "views"
)

// BedroomsMax is the sentinel bedrooms filter value meaning "this many or
// more" rather than an exact match.
const BedroomsMax = 4

// Filters is the strongly-typed filter specification for a browse query.
// Zero values mean "not filtered". Type-specific fields are ignored on
// views they do not apply to, since the UI carries stale query-string state
// across navigation.
type Filters struct {
	Category     string // slug or id, expanded to the category subtree
	Q            string // case-insensitive substring over title/title_en/description
	Neighborhood string // slug; unknown slugs yield an empty result, not an error

	MinPrice *float64
	MaxPrice *float64

	Bedrooms    *int   // housing view only; BedroomsMax means ">= 4"
	PetFriendly *bool  // housing view only
	JobType     string // jobs view only
}

// Page is one page of query results with the pre-pagination total.
type Page struct {
	Items      []model.Listing `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// QueryListings composes and runs a browse query. Only effectively-ACTIVE
// rows match: the stored status must be ACTIVE and the expiry must still be
// in the future, so rows a sweep has not yet materialized as EXPIRED never
// leak into results. Featured rows always sort ahead of the rest; the
// caller-chosen sort applies within each partition. An out-of-range page
// returns empty items with the correct total.
func (s *Service) QueryListings(view View, f Filters, sort string, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.policy.PageSize
	}

	now := time.Now()
	q := s.db.Model(&model.Listing{}).
		Where("status = ?", model.StatusActive).
		Where("expires_at > ?", now)

	switch view {
	case ViewHousing:
		q = q.Where("listing_type = ?", model.ListingTypeHousing)
	case ViewJobs:
		q = q.Where("listing_type = ?", model.ListingTypeJob)
	case ViewServices:
		q = q.Where("listing_type = ?", model.ListingTypeService)
	default:
		// general: no type restriction
	}

	if f.Category != "" {
		ids, err := s.ResolveSubtree(f.Category)
		if err != nil {
			return nil, err
		}
		q = q.Where("category_id IN ?", ids)
	}

	if term := strings.TrimSpace(f.Q); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where(
			s.db.Where("LOWER(title) LIKE ?", pattern).
				Or("LOWER(title_en) LIKE ?", pattern).
				Or("LOWER(description) LIKE ?", pattern),
		)
	}

	if f.Neighborhood != "" {
		var n model.Neighborhood
		if err := s.db.Where("slug = ?", f.Neighborhood).First(&n).Error; err != nil {
			// Stale bookmarked URLs carry dead neighborhood slugs; an empty
			// page keeps browsing alive where an error would break it.
			return &Page{Items: []model.Listing{}, Page: page, PageSize: pageSize}, nil
		}
		q = q.Where("neighborhood_id = ?", n.ID)
	}

	// A null price means "contact for price"; such rows can never satisfy a
	// price bound.
	if f.MinPrice != nil || f.MaxPrice != nil {
		q = q.Where("price IS NOT NULL")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	if view == ViewHousing {
		if f.Bedrooms != nil {
			if *f.Bedrooms >= BedroomsMax {
				q = q.Where("bedrooms >= ?", BedroomsMax)
			} else {
				q = q.Where("bedrooms = ?", *f.Bedrooms)
			}
		}
		if f.PetFriendly != nil {
			q = q.Where("pet_friendly = ?", *f.PetFriendly)
		}
	}
	if view == ViewJobs && f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	q = q.Order("is_featured DESC")
	switch sort {
	case SortPriceLow:
		q = q.Order("price ASC NULLS LAST")
	case SortPriceHigh:
		q = q.Order("price DESC NULLS LAST")
	case SortViews:
		q = q.Order("views DESC")
	default:
		// newest, plus the fallback for unknown sort keys
		q = q.Order("created_at DESC")
	}
	q = q.Order("id DESC") // stable tiebreak across pages

	items := []model.Listing{} // marshals as [] even when the page is past the end
	err := q.
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("Images", imageOrder).
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
