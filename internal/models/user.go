package models

import "time"

// User is the public profile row. Its numeric ID is the identity used by
// posts, applications and messages.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Phone     string    `gorm:"size:50" json:"phone"`
	City      string    `gorm:"size:100" json:"city"`
	Area      string    `gorm:"size:100" json:"area"`
	Pincode   string    `gorm:"size:20" json:"pincode"`
	Address   string    `gorm:"type:text" json:"address"`
	Avatar    string    `gorm:"size:1024" json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
