package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/booknest/booknest-server/internal/database"
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService resolves session emails to profile rows. The numeric
// profile ID is what every other component keys on.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

func (s *ProfileService) ResolveUserID(email string) (uint, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Save creates the profile on first call and updates it afterwards. The
// email always comes from the session.
func (s *ProfileService) Save(email string, req *dto.SaveProfileRequest) (*models.User, error) {
	email = normalizeEmail(email)
	fields := map[string]any{
		"name":    strings.TrimSpace(req.Name),
		"phone":   strings.TrimSpace(req.Phone),
		"city":    strings.TrimSpace(req.City),
		"area":    strings.ToLower(strings.TrimSpace(req.Area)),
		"pincode": strings.TrimSpace(req.Pincode),
		"address": strings.TrimSpace(req.Address),
		"avatar":  strings.TrimSpace(req.Avatar),
	}

	existing, err := s.GetByEmail(email)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		user := models.User{
			Email:   email,
			Name:    fields["name"].(string),
			Phone:   fields["phone"].(string),
			City:    fields["city"].(string),
			Area:    fields["area"].(string),
			Pincode: fields["pincode"].(string),
			Address: fields["address"].(string),
			Avatar:  fields["avatar"].(string),
		}
		if err := s.db.Create(&user).Error; err != nil {
			if !database.IsUniqueViolation(err) {
				return nil, fmt.Errorf("failed to create profile: %w", err)
			}
			// Lost a race with a concurrent first save.
			existing, err = s.GetByEmail(email)
			if err != nil {
				return nil, err
			}
			return s.update(existing, fields)
		}
		slog.Info("profile created", "user_id", strconv.FormatUint(uint64(user.ID), 10), "action", "profile_create")
		return &user, nil
	case err != nil:
		return nil, err
	}
	return s.update(existing, fields)
}

func (s *ProfileService) update(user *models.User, fields map[string]any) (*models.User, error) {
	if err := s.db.Model(user).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByEmail(user.Email)
}

// ListOwnPosts returns the posts the user currently offers, newest first.
func (s *ProfileService) ListOwnPosts(userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}
