package models

import "time"

// Message is an immutable chat line in an application thread.
type Message struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppliedBookID uint      `gorm:"not null;index" json:"applied_book_id"`
	SenderID      uint      `gorm:"not null" json:"sender_id"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	SentAt        time.Time `gorm:"not null;index" json:"sent_at"`
}

func (Message) TableName() string {
	return "applied_book_messages"
}
