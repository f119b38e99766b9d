package catalog

import (
	"time"

	"classifieds-service/internal/model"
)

// SweepResult reports what a maintenance sweep changed.
type SweepResult struct {
	Expired    int64 `json:"expired"`
	Unfeatured int64 `json:"unfeatured"`
}

// Sweep materializes the lazy read-time rules into stored columns: ACTIVE
// rows past their expiry become EXPIRED, and featured flags whose
// featured_until has passed are cleared. Read paths stay correct without
// it; the sweep exists so stored state eventually matches what readers see.
func (s *Service) Sweep(now time.Time) (*SweepResult, error) {
	var result SweepResult

	res := s.db.Model(&model.Listing{}).
		Where("status = ? AND expires_at <= ?", model.StatusActive, now).
		Update("status", model.StatusExpired)
	if res.Error != nil {
		return nil, res.Error
	}
	result.Expired = res.RowsAffected

	res = s.db.Model(&model.Listing{}).
		Where("is_featured = ? AND featured_until IS NOT NULL AND featured_until <= ?", true, now).
		Updates(map[string]interface{}{"is_featured": false, "featured_until": nil})
	if res.Error != nil {
		return nil, res.Error
	}
	result.Unfeatured = res.RowsAffected

	return &result, nil
}
