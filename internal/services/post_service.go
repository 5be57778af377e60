package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrNotPostOwner       = errors.New("only the owner can do this")
	ErrTooManyImages      = fmt.Errorf("a post can have at most %d images", models.MaxPostImages)
	ErrPostFieldsRequired = errors.New("title and subject are required")
)

// ImageRemover drops hosted photos once their post is gone.
type ImageRemover interface {
	RemoveImages(ctx context.Context, urls []string) int
}

type PostService struct {
	db       *gorm.DB
	profiles *ProfileService
	images   ImageRemover
}

// NewPostService builds the catalog service. images may be nil, in which
// case photos of deleted posts are left in the bucket.
func NewPostService(db *gorm.DB, profiles *ProfileService, images ImageRemover) *PostService {
	return &PostService{db: db, profiles: profiles, images: images}
}

func (s *PostService) Create(email string, req *dto.CreatePostRequest) (*models.Post, error) {
	owner, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	subject := strings.TrimSpace(req.Subject)
	if title == "" || subject == "" {
		return nil, ErrPostFieldsRequired
	}
	if len(req.Images) > models.MaxPostImages {
		return nil, ErrTooManyImages
	}

	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}

	post := models.Post{
		UserID:      owner.ID,
		Title:       title,
		Subject:     subject,
		BoughtYear:  strings.TrimSpace(req.BoughtYear),
		Description: strings.TrimSpace(req.Description),
		Images:      images,
		Email:       owner.Email,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "user_id", strconv.FormatUint(uint64(owner.ID), 10), "action", "post_create", "post_id", post.ID)
	return &post, nil
}

// Get returns a post with its owner and whether the viewer already applied.
func (s *PostService) Get(id uint, email string) (*dto.PostResponse, error) {
	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	var owner *models.User
	var u models.User
	if err := s.db.First(&u, post.UserID).Error; err == nil {
		owner = &u
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}

	resp := toPostResponse(&post, owner)

	viewer, err := s.profiles.GetByEmail(email)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	if viewer != nil {
		var count int64
		if err := s.db.Model(&models.AppliedBook{}).
			Where("post_id = ? AND user_id = ?", post.ID, viewer.ID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check application: %w", err)
		}
		resp.Applied = count > 0
	}
	return &resp, nil
}

// Delete removes a post. Only its owner may do so.
func (s *PostService) Delete(id uint, email string) error {
	viewer, err := s.profiles.GetByEmail(email)
	if err != nil {
		return err
	}

	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to load post: %w", err)
	}
	if post.UserID != viewer.ID {
		return ErrNotPostOwner
	}

	if err := s.db.Delete(&post).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	removed := removePostImages(s.images, &post)
	slog.Info("post deleted",
		"user_id", strconv.FormatUint(uint64(viewer.ID), 10),
		"action", "post_delete",
		"post_id", post.ID,
		"images_removed", removed,
	)
	return nil
}

func removePostImages(images ImageRemover, post *models.Post) int {
	if images == nil || len(post.Images) == 0 {
		return 0
	}
	return images.RemoveImages(context.Background(), post.Images)
}

// Browse loads every post with its owner and filters the set in memory.
func (s *PostService) Browse(email string, q CatalogQuery) (*dto.CatalogResponse, error) {
	filterBy, err := ParseFilter(q.FilterBy)
	if err != nil {
		return nil, err
	}
	q.FilterBy = filterBy

	viewer := CatalogViewer{Applied: map[uint]bool{}}
	profile, err := s.profiles.GetByEmail(email)
	switch {
	case err == nil:
		viewer.UserID = profile.ID
		viewer.Profile = profile
	case !errors.Is(err, ErrProfileNotFound):
		return nil, err
	}

	var posts []models.Post
	if err := s.db.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	owners, err := s.ownersOf(posts)
	if err != nil {
		return nil, err
	}

	if viewer.UserID != 0 {
		var applied []uint
		if err := s.db.Model(&models.AppliedBook{}).
			Where("user_id = ?", viewer.UserID).
			Pluck("post_id", &applied).Error; err != nil {
			return nil, fmt.Errorf("failed to list applications: %w", err)
		}
		for _, id := range applied {
			viewer.Applied[id] = true
		}
	}

	var approvedIDs []uint
	if err := s.db.Model(&models.AppliedBook{}).
		Where("status = ?", models.StatusApproved).
		Distinct().
		Pluck("post_id", &approvedIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list approved posts: %w", err)
	}
	approved := make(map[uint]bool, len(approvedIDs))
	for _, id := range approvedIDs {
		approved[id] = true
	}

	entries := make([]CatalogEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, CatalogEntry{Post: p, Owner: owners[p.UserID]})
	}

	visible, active := FilterCatalog(entries, viewer, approved, q)
	resp := &dto.CatalogResponse{
		Posts:        make([]dto.PostResponse, 0, len(visible)),
		Search:       strings.TrimSpace(q.Search),
		FilterBy:     q.FilterBy,
		FilterActive: active,
	}
	for i := range visible {
		resp.Posts = append(resp.Posts, toPostResponse(&visible[i].Post, visible[i].Owner))
	}
	return resp, nil
}

func (s *PostService) ownersOf(posts []models.Post) (map[uint]*models.User, error) {
	ids := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}
	owners := make(map[uint]*models.User, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load owners: %w", err)
	}
	for i := range users {
		owners[users[i].ID] = &users[i]
	}
	return owners, nil
}

func toPostResponse(p *models.Post, owner *models.User) dto.PostResponse {
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	resp := dto.PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Subject:     p.Subject,
		BoughtYear:  p.BoughtYear,
		Description: p.Description,
		Images:      images,
		Email:       p.Email,
		CreatedAt:   p.CreatedAt,
	}
	if owner != nil {
		resp.Owner = &dto.PostOwner{
			ID:      owner.ID,
			Name:    owner.Name,
			City:    owner.City,
			Area:    owner.Area,
			Pincode: owner.Pincode,
			Avatar:  owner.Avatar,
		}
	}
	return resp
}
