package dto

import "time"

type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type MessageItem struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email"`
	Message     string    `json:"message"`
	SentAt      time.Time `json:"sent_at"`
	Mine        bool      `json:"mine"`
}

type DayGroup struct {
	Label    string        `json:"label"`
	Messages []MessageItem `json:"messages"`
}

type ThreadResponse struct {
	ApplicationID uint          `json:"application_id"`
	Messages      []MessageItem `json:"messages"`
	Days          []DayGroup    `json:"days"`
}
