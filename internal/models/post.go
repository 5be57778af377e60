package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxPostImages caps the images attached to one post.
const MaxPostImages = 3

// Post is a single book offered by its owner.
type Post struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	UserID      uint                        `gorm:"not null;index" json:"user_id"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Subject     string                      `gorm:"size:255" json:"subject"`
	BoughtYear  string                      `gorm:"size:10" json:"bought_year"`
	Description string                      `gorm:"type:text" json:"description"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Email       string                      `gorm:"size:255" json:"email"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}
