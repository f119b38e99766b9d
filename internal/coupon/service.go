// Package coupon implements the coupon claim subsystem: one Claim per user
// per coupon ever, enforced by the storage layer's unique index rather than
// a check-then-insert.
package coupon

import (
	"errors"
	"time"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/model"

	"gorm.io/gorm"
)

// Service is the coupon claim engine bound to a database handle.
type Service struct {
	db *gorm.DB
}

// New creates a coupon service.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Claim reserves a coupon for a user. Preconditions are checked in order,
// first failure wins: the coupon must exist and be active, the current time
// must fall within its validity window, its usage cap must not be reached,
// and the user must not have claimed it before. The existence pre-check is
// only for a friendly error; the unique index on (coupon_id, user_id)
// closes the race between concurrent claims. Claiming does not consume a
// use; used_count moves at redemption.
func (s *Service) Claim(couponID, userID uint) (*model.CouponClaim, error) {
	var cpn model.Coupon
	if err := s.db.First(&cpn, couponID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon %d not found", couponID)
		}
		return nil, err
	}
	if !cpn.IsActive {
		return nil, apperr.NotFound("coupon %d not found", couponID)
	}

	now := time.Now()
	if now.Before(cpn.StartDate) || now.After(cpn.EndDate) {
		return nil, apperr.Expired("coupon is outside its validity window")
	}
	if cpn.MaxUses != nil && cpn.UsedCount >= *cpn.MaxUses {
		return nil, apperr.SoldOut("coupon has reached its usage limit")
	}

	var existing int64
	if err := s.db.Model(&model.CouponClaim{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.AlreadyClaimed("coupon already claimed")
	}

	claim := model.CouponClaim{
		CouponID:  couponID,
		UserID:    userID,
		ClaimedAt: now,
	}
	if err := s.db.Create(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.AlreadyClaimed("coupon already claimed")
		}
		return nil, err
	}
	return &claim, nil
}

// Redeem marks the caller's claim used and consumes one use of the coupon.
// The used_at IS NULL guard in the claim update makes double redemption a
// no-op error even under concurrent requests.
func (s *Service) Redeem(couponID, userID uint) (*model.CouponClaim, error) {
	var claim model.CouponClaim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("coupon_id = ? AND user_id = ?", couponID, userID).
			First(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("no claim for coupon %d", couponID)
			}
			return err
		}
		if claim.UsedAt != nil {
			return apperr.Validation("coupon claim already redeemed")
		}

		var cpn model.Coupon
		if err := tx.First(&cpn, couponID).Error; err != nil {
			return err
		}
		if cpn.MaxUses != nil && cpn.UsedCount >= *cpn.MaxUses {
			return apperr.SoldOut("coupon has reached its usage limit")
		}

		now := time.Now()
		res := tx.Model(&model.CouponClaim{}).
			Where("id = ? AND used_at IS NULL", claim.ID).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Validation("coupon claim already redeemed")
		}
		claim.UsedAt = &now

		return tx.Model(&model.Coupon{}).
			Where("id = ?", couponID).
			UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	return &claim, nil
}
