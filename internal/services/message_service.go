package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotThreadParty = errors.New("only the applicant and the owner can use this thread")
	ErrEmptyMessage   = errors.New("message cannot be empty")
)

// MessageService reads and appends application threads.
type MessageService struct {
	db       *gorm.DB
	profiles *ProfileService
	loc      *time.Location
	now      func() time.Time
}

func NewMessageService(db *gorm.DB, profiles *ProfileService, loc *time.Location) *MessageService {
	if loc == nil {
		loc = time.UTC
	}
	return &MessageService{db: db, profiles: profiles, loc: loc, now: time.Now}
}

// Thread returns the whole conversation with day groups computed for now.
func (s *MessageService) Thread(email string, applicationID uint) (*dto.ThreadResponse, error) {
	viewer, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if _, err := s.partyApplication(s.db, applicationID, viewer.ID); err != nil {
		return nil, err
	}
	return s.thread(applicationID, viewer.ID)
}

// Send appends a message and returns the re-fetched thread.
func (s *MessageService) Send(email string, applicationID uint, text string) (*dto.ThreadResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	viewer, err := s.profiles.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.partyApplication(tx, applicationID, viewer.ID); err != nil {
			return err
		}
		msg := models.Message{
			AppliedBookID: applicationID,
			SenderID:      viewer.ID,
			Message:       text,
			SentAt:        s.now().UTC(),
		}
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("message sent",
		"user_id", strconv.FormatUint(uint64(viewer.ID), 10),
		"action", "message_send",
		"application_id", applicationID,
	)
	return s.thread(applicationID, viewer.ID)
}

func (s *MessageService) partyApplication(db *gorm.DB, applicationID, viewerID uint) (*models.AppliedBook, error) {
	var app models.AppliedBook
	if err := db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app.UserID != viewerID && app.OwnerID != viewerID {
		return nil, ErrNotThreadParty
	}
	return &app, nil
}

func (s *MessageService) thread(applicationID, viewerID uint) (*dto.ThreadResponse, error) {
	var msgs []models.Message
	if err := s.db.Where("applied_book_id = ?", applicationID).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	senders := make(map[uint]models.User)
	if len(msgs) > 0 {
		ids := make([]uint, 0, 2)
		seen := map[uint]bool{}
		for _, m := range msgs {
			if !seen[m.SenderID] {
				seen[m.SenderID] = true
				ids = append(ids, m.SenderID)
			}
		}
		var users []models.User
		if err := s.db.Select("id", "name", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("failed to load senders: %w", err)
		}
		for _, u := range users {
			senders[u.ID] = u
		}
	}

	items := make([]dto.MessageItem, 0, len(msgs))
	for _, m := range msgs {
		sender := senders[m.SenderID]
		items = append(items, dto.MessageItem{
			ID:          m.ID,
			SenderID:    m.SenderID,
			SenderName:  sender.Name,
			SenderEmail: sender.Email,
			Message:     m.Message,
			SentAt:      m.SentAt,
			Mine:        m.SenderID == viewerID,
		})
	}

	return &dto.ThreadResponse{
		ApplicationID: applicationID,
		Messages:      items,
		Days:          GroupByDay(items, s.now().In(s.loc)),
	}, nil
}
