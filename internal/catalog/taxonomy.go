package catalog

import (
	"errors"
	"strconv"

	"classifieds-service/internal/apperr"
	"classifieds-service/internal/model"

	"gorm.io/gorm"
)

// ResolveSubtree expands a category slug or numeric id into the set of
// category ids a listing query must match: the category itself plus, when it
// is a root, its direct active children. Callers with no category filter
// must not call this; omission means "match all active categories".
func (s *Service) ResolveSubtree(slugOrID string) ([]uint, error) {
	var cat model.Category

	q := s.db.Where("is_active = ?", true)
	if id, err := strconv.ParseUint(slugOrID, 10, 64); err == nil {
		q = q.Where("id = ?", uint(id))
	} else {
		q = q.Where("slug = ?", slugOrID)
	}

	if err := q.First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %q not found", slugOrID)
		}
		return nil, err
	}

	ids := []uint{cat.ID}
	if cat.IsRoot() {
		var children []model.Category
		if err := s.db.
			Where("parent_id = ? AND is_active = ?", cat.ID, true).
			Order("sort_order").
			Find(&children).Error; err != nil {
			return nil, err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
		}
	}

	return ids, nil
}

// ListCategories returns the active taxonomy ordered for display, roots
// first by sort order, children grouped after their parent.
func (s *Service) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := s.db.
		Where("is_active = ?", true).
		Order("parent_id NULLS FIRST").
		Order("sort_order").
		Find(&categories).Error
	return categories, err
}
