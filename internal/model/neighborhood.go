package model

import "time"

// Neighborhood is a flat reference table; listings point at it by FK.
type Neighborhood struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Slug      string    `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Island    string    `json:"island" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
