package models

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// AppliedBook is one user's request to receive another user's post.
//
// There is deliberately no foreign key to posts: approving one application
// deletes the post and the other applications keep pointing at it.
type AppliedBook struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PostID          uint      `gorm:"not null;uniqueIndex:idx_applied_books_post_user,priority:1;index" json:"post_id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_applied_books_post_user,priority:2;index" json:"user_id"`
	OwnerID         uint      `gorm:"not null;index" json:"owner_id"`
	AppliedAt       time.Time `gorm:"not null;index" json:"applied_at"`
	Status          string    `gorm:"size:20;not null;default:'pending';index" json:"status"`
	OwnerContact    string    `gorm:"type:text" json:"owner_contact,omitempty"`
	RejectReason    string    `gorm:"type:text" json:"reject_reason,omitempty"`
	UserAppliedName string    `gorm:"column:userapplied_name;size:255" json:"userapplied_name"`
	OwnerName       string    `gorm:"size:255" json:"owner_name"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (AppliedBook) TableName() string {
	return "applied_books"
}
