package catalog

import (
	"classifieds-service/internal/model"

	"gorm.io/gorm"
)

// IncrementView bumps a listing's view counter with an atomic in-database
// add, so concurrent page views never lose an increment. UpdateColumn skips
// hooks and leaves updated_at alone; a page view is not an edit. Callers
// must not fail the surrounding read on error, the counter is simply stale
// by one.
func (s *Service) IncrementView(id uint) error {
	return s.db.Model(&model.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
