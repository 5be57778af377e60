package dto

import "time"

type AcceptRequest struct {
	OwnerContact string `json:"owner_contact" validate:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type ApplicationResponse struct {
	ID              uint          `json:"id"`
	PostID          uint          `json:"post_id"`
	UserID          uint          `json:"user_id"`
	OwnerID         uint          `json:"owner_id"`
	AppliedAt       time.Time     `json:"applied_at"`
	Status          string        `json:"status"`
	OwnerContact    string        `json:"owner_contact,omitempty"`
	RejectReason    string        `json:"reject_reason,omitempty"`
	UserAppliedName string        `json:"userapplied_name"`
	OwnerName       string        `json:"owner_name"`
	RequesterEmail  string        `json:"requester_email,omitempty"`
	PostTitle       string        `json:"post_title,omitempty"`
	Post            *PostResponse `json:"post,omitempty"`
}

type AcceptResponse struct {
	Application ApplicationResponse `json:"application"`
	PrunedIDs   []uint              `json:"pruned_ids"`
}
