package catalog

import (
	"errors"
	"math"
	"strings"
	"time"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/model"

	"gorm.io/gorm"
)

// MinTitleLength is the server-side floor for listing titles; the submit
// wizards enforce it client-side but this is the trust boundary.
const MinTitleLength = 10

// ImageInput is an already-uploaded image URL to attach to a listing.
type ImageInput struct {
	URL       string
	SortOrder int
	IsPrimary bool
}

// ListingInput is the full payload for creating a listing. At most the
// attribute set matching ListingType may be populated.
type ListingInput struct {
	CategoryID  uint
	ListingType model.ListingType
	Title       string
	TitleEn     string
	Description string
	Price       *float64
	PriceType   model.PriceType
	Location    string

	NeighborhoodID *uint
	ContactPhone   string
	ContactEmail   string

	Housing *model.HousingFields
	Job     *model.JobFields
	Service *model.ServiceFields

	Images []ImageInput
}

// ListingPatch is a partial update; nil fields are left unchanged.
// Typed sets follow the same exactly-matching-set rule as creation.
type ListingPatch struct {
	CategoryID  *uint
	Title       *string
	TitleEn     *string
	Description *string
	Price       *float64
	PriceType   *model.PriceType
	Location    *string

	NeighborhoodID *uint
	ContactPhone   *string
	ContactEmail   *string

	Housing *model.HousingFields
	Job     *model.JobFields
	Service *model.ServiceFields
}

// CreateListing validates the payload, persists the listing and its images
// in one transaction, and returns the stored row. New listings start
// PENDING and expire after the policy TTL; admins skip review when the
// auto-approve policy is on.
func (s *Service) CreateListing(actor model.Actor, in ListingInput) (*model.Listing, error) {
	if !model.ValidListingType(in.ListingType) {
		return nil, apperr.Validation("unknown listing type %q", in.ListingType)
	}
	if err := s.validateCommon(in.Title, in.ContactPhone, in.ContactEmail, in.Price); err != nil {
		return nil, err
	}
	if in.PriceType != "" && !model.ValidPriceType(in.PriceType) {
		return nil, apperr.Validation("unknown price type %q", in.PriceType)
	}
	if err := validateTypedSets(in.ListingType, in.Housing, in.Job, in.Service); err != nil {
		return nil, err
	}
	if err := s.requireActiveCategory(in.CategoryID); err != nil {
		return nil, err
	}
	primaries := 0
	for _, img := range in.Images {
		if strings.TrimSpace(img.URL) == "" {
			return nil, apperr.Validation("image URL must not be empty")
		}
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return nil, apperr.Validation("at most one image may be primary")
	}

	now := time.Now()
	listing := model.Listing{
		OwnerUserID:    actor.UserID,
		CategoryID:     in.CategoryID,
		ListingType:    in.ListingType,
		Title:          strings.TrimSpace(in.Title),
		TitleEn:        strings.TrimSpace(in.TitleEn),
		Description:    in.Description,
		Price:          in.Price,
		PriceType:      in.PriceType,
		Location:       in.Location,
		NeighborhoodID: in.NeighborhoodID,
		ContactPhone:   strings.TrimSpace(in.ContactPhone),
		ContactEmail:   strings.TrimSpace(in.ContactEmail),
		Status:         model.StatusPending,
		ExpiresAt:      now.Add(s.policy.ListingTTL),
	}
	applyTypedFields(&listing, in.Housing, in.Job, in.Service)

	if actor.IsAdmin() && s.policy.AutoApproveAdmin {
		listing.Status = model.StatusActive
		listing.ApprovedAt = &now
	}

	// Listing and images are created together or not at all.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		if len(in.Images) == 0 {
			return nil
		}
		images := make([]model.ListingImage, 0, len(in.Images))
		for i, img := range in.Images {
			images = append(images, model.ListingImage{
				ListingID: listing.ID,
				URL:       img.URL,
				SortOrder: img.SortOrder,
				// First image is primary unless the payload flags one.
				IsPrimary: img.IsPrimary || (primaries == 0 && i == 0),
			})
		}
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
		listing.Images = images
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &listing, nil
}

// UpdateListing applies a partial edit. Only the owner or an admin may edit;
// edits never change the moderation status.
func (s *Service) UpdateListing(id uint, actor model.Actor, patch ListingPatch) (*model.Listing, error) {
	var listing model.Listing
	if err := s.db.Preload("Images", imageOrder).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing %d not found", id)
		}
		return nil, err
	}

	if !actor.IsAdmin() && actor.UserID != listing.OwnerUserID {
		return nil, apperr.Forbidden("only the owner or an admin may edit this listing")
	}
	if err := validateTypedSets(listing.ListingType, patch.Housing, patch.Job, patch.Service); err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if err := s.requireActiveCategory(*patch.CategoryID); err != nil {
			return nil, err
		}
		listing.CategoryID = *patch.CategoryID
	}
	if patch.Title != nil {
		listing.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.TitleEn != nil {
		listing.TitleEn = strings.TrimSpace(*patch.TitleEn)
	}
	if patch.Description != nil {
		listing.Description = *patch.Description
	}
	if patch.Price != nil {
		listing.Price = patch.Price
	}
	if patch.PriceType != nil {
		if !model.ValidPriceType(*patch.PriceType) {
			return nil, apperr.Validation("unknown price type %q", *patch.PriceType)
		}
		listing.PriceType = *patch.PriceType
	}
	if patch.Location != nil {
		listing.Location = *patch.Location
	}
	if patch.NeighborhoodID != nil {
		listing.NeighborhoodID = patch.NeighborhoodID
	}
	if patch.ContactPhone != nil {
		listing.ContactPhone = strings.TrimSpace(*patch.ContactPhone)
	}
	if patch.ContactEmail != nil {
		listing.ContactEmail = strings.TrimSpace(*patch.ContactEmail)
	}
	applyTypedFields(&listing, patch.Housing, patch.Job, patch.Service)

	// Re-check business rules on the merged row.
	if err := s.validateCommon(listing.Title, listing.ContactPhone, listing.ContactEmail, listing.Price); err != nil {
		return nil, err
	}

	if err := s.db.Save(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListing returns a listing for the detail page. DELETED rows read as
// missing for everyone but admins.
func (s *Service) GetListing(id uint, actor model.Actor) (*model.Listing, error) {
	var listing model.Listing
	if err := s.db.Preload("Images", imageOrder).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("listing %d not found", id)
		}
		return nil, err
	}
	if listing.Status == model.StatusDeleted && !actor.IsAdmin() {
		return nil, apperr.NotFound("listing %d not found", id)
	}
	// Expiry is lazy: the stored row may still say ACTIVE.
	listing.Status = model.EffectiveStatus(&listing, time.Now())
	return &listing, nil
}

func imageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order")
}

func (s *Service) validateCommon(title, phone, email string, price *float64) error {
	if len(strings.TrimSpace(title)) < MinTitleLength {
		return apperr.Validation("title must be at least %d characters", MinTitleLength)
	}
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return apperr.Validation("at least one of contact phone or contact email is required")
	}
	if price != nil && *price < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func (s *Service) requireActiveCategory(id uint) error {
	var count int64
	if err := s.db.Model(&model.Category{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.Validation("category %d does not exist or is inactive", id)
	}
	return nil
}

// validateTypedSets enforces the discriminated union: only the attribute set
// matching the listing type may be supplied, and its numeric fields must be
// in range.
func validateTypedSets(t model.ListingType, h *model.HousingFields, j *model.JobFields, sv *model.ServiceFields) error {
	if h != nil && t != model.ListingTypeHousing {
		return apperr.TypeMismatch("housing attributes are not valid for a %s listing", t)
	}
	if j != nil && t != model.ListingTypeJob {
		return apperr.TypeMismatch("job attributes are not valid for a %s listing", t)
	}
	if sv != nil && t != model.ListingTypeService {
		return apperr.TypeMismatch("service attributes are not valid for a %s listing", t)
	}

	if h != nil {
		if h.Bedrooms != nil && *h.Bedrooms < 0 {
			return apperr.Validation("bedrooms must not be negative")
		}
		if h.Bathrooms != nil {
			if *h.Bathrooms < 0 {
				return apperr.Validation("bathrooms must not be negative")
			}
			if math.Mod(*h.Bathrooms*2, 1) != 0 {
				return apperr.Validation("bathrooms must be in half increments")
			}
		}
		if h.Sqft != nil && *h.Sqft < 0 {
			return apperr.Validation("sqft must not be negative")
		}
	}
	if j != nil && j.JobType != "" && !model.ValidJobType(j.JobType) {
		return apperr.Validation("unknown job type %q", j.JobType)
	}
	return nil
}

// applyTypedFields copies a non-nil attribute set onto the wide row. Sets
// for other types are guaranteed nil by validateTypedSets.
func applyTypedFields(l *model.Listing, h *model.HousingFields, j *model.JobFields, sv *model.ServiceFields) {
	if h != nil {
		l.Bedrooms = h.Bedrooms
		l.Bathrooms = h.Bathrooms
		l.Sqft = h.Sqft
		l.PetFriendly = h.PetFriendly
		l.MoveInDate = h.MoveInDate
		if h.Utilities != "" {
			u := h.Utilities
			l.Utilities = &u
		}
	}
	if j != nil {
		if j.JobType != "" {
			v := j.JobType
			l.JobType = &v
		}
		if j.Salary != "" {
			v := j.Salary
			l.Salary = &v
		}
		if j.Benefits != "" {
			v := j.Benefits
			l.Benefits = &v
		}
	}
	if sv != nil {
		if sv.ServiceArea != "" {
			v := sv.ServiceArea
			l.ServiceArea = &v
		}
		if sv.Availability != "" {
			v := sv.Availability
			l.Availability = &v
		}
		if sv.Experience != "" {
			v := sv.Experience
			l.Experience = &v
		}
	}
}
