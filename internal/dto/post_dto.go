package dto

import "time"

type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Subject     string   `json:"subject" validate:"required,max=255"`
	BoughtYear  string   `json:"bought_year" validate:"omitempty,numeric,max=10"`
	Description string   `json:"description"`
	Images      []string `json:"images" validate:"dive,url"`
}

// PostOwner is the subset of the owner's profile shown with a post.
type PostOwner struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Area    string `json:"area"`
	Pincode string `json:"pincode"`
	Avatar  string `json:"avatar,omitempty"`
}

type PostResponse struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	BoughtYear  string     `json:"bought_year"`
	Description string     `json:"description"`
	Images      []string   `json:"images"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	Owner       *PostOwner `json:"owner,omitempty"`
	Applied     bool       `json:"applied"`
}

type CatalogResponse struct {
	Posts        []PostResponse `json:"posts"`
	Search       string         `json:"search"`
	FilterBy     string         `json:"filter_by,omitempty"`
	FilterActive bool           `json:"filter_active"`
}
