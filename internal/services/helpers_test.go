package services

import (
	"testing"
	"time"

	"github.com/booknest/booknest-server/internal/database/dbtest"
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	profiles *ProfileService
	posts    *PostService
	apps     *ApplicationService
	messages *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	profiles := NewProfileService(db)
	return &fixture{
		db:       db,
		profiles: profiles,
		posts:    NewPostService(db, profiles, nil),
		apps:     NewApplicationService(db, profiles, nil),
		messages: NewMessageService(db, profiles, time.UTC),
	}
}

func (f *fixture) profile(t *testing.T, email, name, city, area, pincode string) *models.User {
	t.Helper()
	u, err := f.profiles.Save(email, &dto.SaveProfileRequest{
		Name: name, City: city, Area: area, Pincode: pincode,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, email, title, subject string) *models.Post {
	t.Helper()
	p, err := f.posts.Create(email, &dto.CreatePostRequest{Title: title, Subject: subject})
	require.NoError(t, err)
	return p
}

const testImageBase = "http://cdn.test/booknest"

// withImages makes post and accept cleanup go through an ImageService
// backed by an in-memory store, and returns that store.
func (f *fixture) withImages(t *testing.T) (*ImageService, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	images := NewImageService(store, testImageBase, 1<<20, 4_000_000, 64)
	f.posts = NewPostService(f.db, f.profiles, images)
	f.apps = NewApplicationService(f.db, f.profiles, images)
	return images, store
}
