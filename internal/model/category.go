package model

import "time"

// Category is one node of the two-level classification tree. Root categories
// have a nil ParentID; children point at a root. There are no grandchildren.
type Category struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ParentID  *uint     `json:"parent_id,omitempty" gorm:"index"`
	Slug      string    `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	NameEn    string    `json:"name_en" gorm:"type:varchar(100)"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRoot reports whether the category sits at the top of the tree.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
