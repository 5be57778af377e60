package models

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Account holds sign-in credentials. The profile lives in User, keyed by the same email.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password     string    `gorm:"not null;default:''" json:"-"`
	AuthProvider string    `gorm:"size:50;default:'email'" json:"auth_provider"`
	GoogleSub    *string   `gorm:"size:255;uniqueIndex" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
