package model

import "time"

// ListingType discriminates which optional attribute set a listing carries.
type ListingType string

const (
	ListingTypeGeneral ListingType = "GENERAL"
	ListingTypeHousing ListingType = "HOUSING"
	ListingTypeJob     ListingType = "JOB"
	ListingTypeService ListingType = "SERVICE"
)

// ListingStatus is the stored moderation status of a listing.
type ListingStatus string

const (
	StatusPending  ListingStatus = "PENDING"
	StatusActive   ListingStatus = "ACTIVE"
	StatusRejected ListingStatus = "REJECTED"
	StatusExpired  ListingStatus = "EXPIRED"
	StatusSold     ListingStatus = "SOLD"
	StatusDeleted  ListingStatus = "DELETED"
)

// PriceType qualifies how the price field should be read.
type PriceType string

const (
	PriceFixed      PriceType = "FIXED"
	PriceNegotiable PriceType = "NEGOTIABLE"
	PriceFree       PriceType = "FREE"
	PriceHourly     PriceType = "HOURLY"
	PriceMonthly    PriceType = "MONTHLY"
)

// Listing is the polymorphic classifieds entity. It is stored as one wide
// table with nullable type-specific columns plus the ListingType
// discriminant; the typed accessors below give callers the union view.
type Listing struct {
	ID          uint        `json:"id" gorm:"primarykey"`
	OwnerUserID uint        `json:"owner_user_id" gorm:"index;not null"`
	CategoryID  uint        `json:"category_id" gorm:"index;not null"`
	ListingType ListingType `json:"listing_type" gorm:"type:varchar(16);index;not null"`

	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	TitleEn     string    `json:"title_en,omitempty" gorm:"type:varchar(255)"`
	Description string    `json:"description" gorm:"type:text"`
	Price       *float64  `json:"price,omitempty"`
	PriceType   PriceType `json:"price_type" gorm:"type:varchar(16)"`
	Location    string    `json:"location" gorm:"type:varchar(255)"`

	NeighborhoodID *uint  `json:"neighborhood_id,omitempty" gorm:"index"`
	ContactPhone   string `json:"contact_phone" gorm:"type:varchar(32)"`
	ContactEmail   string `json:"contact_email" gorm:"type:varchar(255)"`

	IsFeatured    bool       `json:"is_featured" gorm:"index;default:false"`
	FeaturedUntil *time.Time `json:"featured_until,omitempty"`
	Views         int64      `json:"views" gorm:"not null;default:0"`

	Status          ListingStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	RejectionReason *string       `json:"rejection_reason,omitempty"`

	// HOUSING columns
	Bedrooms    *int       `json:"bedrooms,omitempty"`
	Bathrooms   *float64   `json:"bathrooms,omitempty"`
	Sqft        *int       `json:"sqft,omitempty"`
	PetFriendly *bool      `json:"pet_friendly,omitempty"`
	Utilities   *string    `json:"utilities,omitempty" gorm:"type:varchar(255)"`
	MoveInDate  *time.Time `json:"move_in_date,omitempty"`

	// JOB columns
	JobType  *string `json:"job_type,omitempty" gorm:"type:varchar(32);index"`
	Salary   *string `json:"salary,omitempty" gorm:"type:varchar(255)"`
	Benefits *string `json:"benefits,omitempty" gorm:"type:text"`

	// SERVICE columns
	ServiceArea  *string `json:"service_area,omitempty" gorm:"type:varchar(255)"`
	Availability *string `json:"availability,omitempty" gorm:"type:varchar(255)"`
	Experience   *string `json:"experience,omitempty" gorm:"type:text"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at" gorm:"index;not null"`

	Images []ListingImage `json:"images,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// ListingImage is an already-uploaded image URL attached to a listing.
// At most one image per listing is flagged primary.
type ListingImage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ListingID uint      `json:"listing_id" gorm:"index;not null"`
	URL       string    `json:"url" gorm:"type:varchar(512);not null"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// HousingFields is the HOUSING attribute set.
type HousingFields struct {
	Bedrooms    *int       `json:"bedrooms,omitempty"`
	Bathrooms   *float64   `json:"bathrooms,omitempty"`
	Sqft        *int       `json:"sqft,omitempty"`
	PetFriendly *bool      `json:"pet_friendly,omitempty"`
	Utilities   string     `json:"utilities,omitempty"`
	MoveInDate  *time.Time `json:"move_in_date,omitempty"`
}

// JobFields is the JOB attribute set.
type JobFields struct {
	JobType  string `json:"job_type,omitempty"`
	Salary   string `json:"salary,omitempty"`
	Benefits string `json:"benefits,omitempty"`
}

// ServiceFields is the SERVICE attribute set.
type ServiceFields struct {
	ServiceArea  string `json:"service_area,omitempty"`
	Availability string `json:"availability,omitempty"`
	Experience   string `json:"experience,omitempty"`
}

// Housing returns the housing attribute set, or nil when the listing is not
// a HOUSING listing.
func (l *Listing) Housing() *HousingFields {
	if l.ListingType != ListingTypeHousing {
		return nil
	}
	h := &HousingFields{
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		Sqft:        l.Sqft,
		PetFriendly: l.PetFriendly,
		MoveInDate:  l.MoveInDate,
	}
	if l.Utilities != nil {
		h.Utilities = *l.Utilities
	}
	return h
}

// Job returns the job attribute set, or nil when the listing is not a JOB
// listing.
func (l *Listing) Job() *JobFields {
	if l.ListingType != ListingTypeJob {
		return nil
	}
	j := &JobFields{}
	if l.JobType != nil {
		j.JobType = *l.JobType
	}
	if l.Salary != nil {
		j.Salary = *l.Salary
	}
	if l.Benefits != nil {
		j.Benefits = *l.Benefits
	}
	return j
}

// Service returns the service attribute set, or nil when the listing is not
// a SERVICE listing.
func (l *Listing) Service() *ServiceFields {
	if l.ListingType != ListingTypeService {
		return nil
	}
	s := &ServiceFields{}
	if l.ServiceArea != nil {
		s.ServiceArea = *l.ServiceArea
	}
	if l.Availability != nil {
		s.Availability = *l.Availability
	}
	if l.Experience != nil {
		s.Experience = *l.Experience
	}
	return s
}

// EffectiveStatus derives the status a reader should see at the given time.
// An ACTIVE listing past its expiry reads as EXPIRED even before a sweep has
// written the stored status.
func EffectiveStatus(l *Listing, now time.Time) ListingStatus {
	if l.Status == StatusActive && now.After(l.ExpiresAt) {
		return StatusExpired
	}
	return l.Status
}

// ValidListingType reports whether t is one of the known listing types.
func ValidListingType(t ListingType) bool {
	switch t {
	case ListingTypeGeneral, ListingTypeHousing, ListingTypeJob, ListingTypeService:
		return true
	}
	return false
}

// ValidPriceType reports whether p is one of the known price qualifiers.
func ValidPriceType(p PriceType) bool {
	switch p {
	case PriceFixed, PriceNegotiable, PriceFree, PriceHourly, PriceMonthly:
		return true
	}
	return false
}

// ValidJobType reports whether s is an accepted job type value.
func ValidJobType(s string) bool {
	switch s {
	case "full-time", "part-time", "contract", "temporary":
		return true
	}
	return false
}
