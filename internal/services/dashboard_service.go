package services

import (
	"errors"
	"fmt"

	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db       *gorm.DB
	profiles *ProfileService
}

func NewDashboardService(db *gorm.DB, profiles *ProfileService) *DashboardService {
	return &DashboardService{db: db, profiles: profiles}
}

// Counts returns the two badge counts. A viewer without a profile gets zeros.
func (s *DashboardService) Counts(email string) (*dto.CountsResponse, error) {
	viewer, err := s.profiles.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return &dto.CountsResponse{}, nil
		}
		return nil, err
	}

	var resp dto.CountsResponse
	myPosts := s.db.Model(&models.Post{}).Select("id").Where("user_id = ?", viewer.ID)
	if err := s.db.Model(&models.AppliedBook{}).
		Where("post_id IN (?)", myPosts).
		Count(&resp.RequestsForMyPosts).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	if err := s.db.Model(&models.AppliedBook{}).
		Where("user_id = ?", viewer.ID).
		Count(&resp.BooksIAppliedFor).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	return &resp, nil
}
