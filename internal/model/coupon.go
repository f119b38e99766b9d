package model

import "time"

// DiscountType qualifies how a coupon's discount value should be read.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
	DiscountFreeItem   DiscountType = "FREE_ITEM"
)

// Coupon is a business promotion users can claim within its validity window.
type Coupon struct {
	ID            uint         `json:"id" gorm:"primarykey"`
	BusinessID    uint         `json:"business_id" gorm:"index;not null"`
	Title         string       `json:"title" gorm:"type:varchar(255);not null"`
	Description   string       `json:"description" gorm:"type:text"`
	DiscountType  DiscountType `json:"discount_type" gorm:"type:varchar(16);not null"`
	DiscountValue float64      `json:"discount_value"`
	Code          string       `json:"code,omitempty" gorm:"type:varchar(64)"`
	MaxUses       *int         `json:"max_uses,omitempty"`
	UsedCount     int          `json:"used_count" gorm:"not null;default:0"`
	StartDate     time.Time    `json:"start_date" gorm:"not null"`
	EndDate       time.Time    `json:"end_date" gorm:"not null"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CouponClaim is a user's one-time reservation of a coupon. The composite
// unique index is the correctness mechanism for at-most-one-claim; the
// application-level existence check only exists for a friendlier error.
type CouponClaim struct {
	ID        uint       `json:"id" gorm:"primarykey"`
	CouponID  uint       `json:"coupon_id" gorm:"uniqueIndex:idx_coupon_user;not null"`
	UserID    uint       `json:"user_id" gorm:"uniqueIndex:idx_coupon_user;not null"`
	ClaimedAt time.Time  `json:"claimed_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}
