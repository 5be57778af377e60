package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/booknest/booknest-server/internal/database"
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrOwnerNotFound       = errors.New("post owner not found")
	ErrSelfApply           = errors.New("you cannot apply to your own book")
	ErrAlreadyApplied      = errors.New("you already applied for this book")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotPending          = errors.New("application has already been resolved")
	ErrContactRequired     = errors.New("contact details are required to accept")
	ErrReasonRequired      = errors.New("a reason is required to reject")
)

// ApplicationService runs the apply and accept/reject workflows.
// Every check-then-write sequence runs inside one transaction.
type ApplicationService struct {
	db       *gorm.DB
	profiles *ProfileService
	images   ImageRemover
	now      func() time.Time
}

func NewApplicationService(db *gorm.DB, profiles *ProfileService, images ImageRemover) *ApplicationService {
	return &ApplicationService{db: db, profiles: profiles, images: images, now: time.Now}
}

// Apply records the viewer's request for a post.
func (s *ApplicationService) Apply(email string, postID uint) (*models.AppliedBook, error) {
	applicant, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var app models.AppliedBook
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to load post: %w", err)
		}

		var owner models.User
		if err := tx.First(&owner, post.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOwnerNotFound
			}
			return fmt.Errorf("failed to load owner: %w", err)
		}

		if owner.ID == applicant.ID {
			return ErrSelfApply
		}

		var existing int64
		if err := tx.Model(&models.AppliedBook{}).
			Where("post_id = ? AND user_id = ?", post.ID, applicant.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing application: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyApplied
		}

		app = models.AppliedBook{
			PostID:          post.ID,
			UserID:          applicant.ID,
			OwnerID:         owner.ID,
			AppliedAt:       s.now().UTC(),
			Status:          models.StatusPending,
			UserAppliedName: applicant.Name,
			OwnerName:       owner.Name,
		}
		if err := tx.Create(&app).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyApplied
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("application created",
		"user_id", strconv.FormatUint(uint64(applicant.ID), 10),
		"action", "apply",
		"post_id", postID,
		"application_id", app.ID,
	)
	return &app, nil
}

// ListMine returns the viewer's applications, newest first. Post is nil
// once the post has been given away or deleted.
func (s *ApplicationService) ListMine(email string) ([]dto.ApplicationResponse, error) {
	viewer, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var apps []models.AppliedBook
	if err := s.db.Where("user_id = ?", viewer.ID).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	posts, err := s.postsByID(apps)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp := toApplicationResponse(&apps[i])
		if p, ok := posts[apps[i].PostID]; ok {
			pr := toPostResponse(p, nil)
			resp.Post = &pr
			resp.PostTitle = p.Title
		}
		out = append(out, resp)
	}
	return out, nil
}

// ListIncoming returns applications for posts the viewer currently owns.
func (s *ApplicationService) ListIncoming(email string) ([]dto.ApplicationResponse, error) {
	owner, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := s.db.Where("user_id = ?", owner.ID).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if len(posts) == 0 {
		return []dto.ApplicationResponse{}, nil
	}
	postIDs := make([]uint, 0, len(posts))
	titles := make(map[uint]string, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		titles[p.ID] = p.Title
	}

	var apps []models.AppliedBook
	if err := s.db.Where("post_id IN ?", postIDs).
		Order("applied_at DESC, id DESC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	requesterIDs := make([]uint, 0, len(apps))
	for _, a := range apps {
		requesterIDs = append(requesterIDs, a.UserID)
	}
	emails := make(map[uint]string, len(requesterIDs))
	if len(requesterIDs) > 0 {
		var users []models.User
		if err := s.db.Select("id", "email").Where("id IN ?", requesterIDs).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to load requesters: %w", err)
		}
		for _, u := range users {
			emails[u.ID] = u.Email
		}
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp := toApplicationResponse(&apps[i])
		resp.PostTitle = titles[apps[i].PostID]
		resp.RequesterEmail = emails[apps[i].UserID]
		out = append(out, resp)
	}
	return out, nil
}

// Accept approves a pending application and gives the post away. Other
// applications for the same post are left untouched. The IDs of every
// application that referenced the post are returned so the caller can drop
// them from its view.
func (s *ApplicationService) Accept(email string, applicationID uint, contact string) (*dto.AcceptResponse, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil, ErrContactRequired
	}
	owner, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var app models.AppliedBook
	var post models.Post
	var pruned []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.loadPendingOwned(tx, &app, applicationID, owner.ID); err != nil {
			return err
		}

		res := tx.Model(&models.AppliedBook{}).
			Where("id = ? AND status = ?", app.ID, models.StatusPending).
			Updates(map[string]any{
				"status":        models.StatusApproved,
				"owner_contact": contact,
				"updated_at":    s.now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to approve application: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}

		if err := tx.Where("id = ? AND user_id = ?", app.PostID, owner.ID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to load post: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		if err := tx.Model(&models.AppliedBook{}).
			Where("post_id = ?", app.PostID).
			Order("id").
			Pluck("id", &pruned).Error; err != nil {
			return fmt.Errorf("failed to list related applications: %w", err)
		}

		app.Status = models.StatusApproved
		app.OwnerContact = contact
		return nil
	})
	if err != nil {
		return nil, err
	}

	userID := strconv.FormatUint(uint64(owner.ID), 10)
	slog.Info("application approved", "user_id", userID, "action", "accept", "application_id", app.ID)
	slog.Info("post deleted after approval",
		"user_id", userID,
		"action", "accept",
		"post_id", app.PostID,
		"orphaned", len(pruned)-1,
		"images_removed", removePostImages(s.images, &post),
	)

	if pruned == nil {
		pruned = []uint{}
	}
	return &dto.AcceptResponse{Application: toApplicationResponse(&app), PrunedIDs: pruned}, nil
}

// Reject declines a pending application with a reason. Nothing cascades.
func (s *ApplicationService) Reject(email string, applicationID uint, reason string) (*dto.ApplicationResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	owner, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	var app models.AppliedBook
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.loadPendingOwned(tx, &app, applicationID, owner.ID); err != nil {
			return err
		}

		res := tx.Model(&models.AppliedBook{}).
			Where("id = ? AND status = ?", app.ID, models.StatusPending).
			Updates(map[string]any{
				"status":        models.StatusRejected,
				"reject_reason": reason,
				"updated_at":    s.now().UTC(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reject application: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		app.Status = models.StatusRejected
		app.RejectReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("application rejected",
		"user_id", strconv.FormatUint(uint64(owner.ID), 10),
		"action", "reject",
		"application_id", app.ID,
	)
	resp := toApplicationResponse(&app)
	return &resp, nil
}

func (s *ApplicationService) loadPendingOwned(tx *gorm.DB, app *models.AppliedBook, id, ownerID uint) error {
	if err := tx.First(app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to load application: %w", err)
	}
	if app.OwnerID != ownerID {
		return ErrNotPostOwner
	}
	if app.Status != models.StatusPending {
		return ErrNotPending
	}
	return nil
}

func (s *ApplicationService) postsByID(apps []models.AppliedBook) (map[uint]*models.Post, error) {
	ids := make([]uint, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.PostID)
	}
	out := make(map[uint]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []models.Post
	if err := s.db.Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	for i := range posts {
		out[posts[i].ID] = &posts[i]
	}
	return out, nil
}

func toApplicationResponse(a *models.AppliedBook) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:              a.ID,
		PostID:          a.PostID,
		UserID:          a.UserID,
		OwnerID:         a.OwnerID,
		AppliedAt:       a.AppliedAt,
		Status:          a.Status,
		OwnerContact:    a.OwnerContact,
		RejectReason:    a.RejectReason,
		UserAppliedName: a.UserAppliedName,
		OwnerName:       a.OwnerName,
	}
}
