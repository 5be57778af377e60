package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/booknest/booknest-server/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.Create("nobody@example.com", &dto.CreatePostRequest{Title: "A", Subject: "B"})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	f.profile(t, "ana@example.com", "Ana", "Pune", "", "")

	_, err = f.posts.Create("ana@example.com", &dto.CreatePostRequest{Title: "  ", Subject: "B"})
	assert.ErrorIs(t, err, ErrPostFieldsRequired)

	_, err = f.posts.Create("ana@example.com", &dto.CreatePostRequest{
		Title: "A", Subject: "B",
		Images: []string{"https://x/1", "https://x/2", "https://x/3", "https://x/4"},
	})
	assert.ErrorIs(t, err, ErrTooManyImages)

	post, err := f.posts.Create("ana@example.com", &dto.CreatePostRequest{
		Title: "Calculus", Subject: "Maths", BoughtYear: "2021",
		Images: []string{"https://x/1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", post.Email)
	assert.Equal(t, []string{"https://x/1"}, []string(post.Images))
}

func TestGetPostReportsApplied(t *testing.T) {
	f := newFixture(t)
	f.profile(t, "ana@example.com", "Ana", "Pune", "", "")
	f.profile(t, "ben@example.com", "Ben", "Pune", "", "")
	post := f.post(t, "ana@example.com", "Calculus", "Maths")

	got, err := f.posts.Get(post.ID, "ben@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Ana", got.Owner.Name)
	assert.False(t, got.Applied)

	_, err = f.apps.Apply("ben@example.com", post.ID)
	require.NoError(t, err)

	got, err = f.posts.Get(post.ID, "ben@example.com")
	require.NoError(t, err)
	assert.True(t, got.Applied)

	_, err = f.posts.Get(9999, "ben@example.com")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	f := newFixture(t)
	f.profile(t, "ana@example.com", "Ana", "", "", "")
	f.profile(t, "ben@example.com", "Ben", "", "", "")
	post := f.post(t, "ana@example.com", "Calculus", "Maths")

	assert.ErrorIs(t, f.posts.Delete(post.ID, "ben@example.com"), ErrNotPostOwner)
	require.NoError(t, f.posts.Delete(post.ID, "ana@example.com"))
	assert.ErrorIs(t, f.posts.Delete(post.ID, "ana@example.com"), ErrPostNotFound)
}

func TestDeletePostRemovesHostedImages(t *testing.T) {
	f := newFixture(t)
	images, store := f.withImages(t)
	f.profile(t, "ana@example.com", "Ana", "", "", "")

	up, err := images.Upload(context.Background(), 1, bytes.NewReader(pngBytes(t, 80, 80)))
	require.NoError(t, err)
	post, err := f.posts.Create("ana@example.com", &dto.CreatePostRequest{
		Title: "Atlas", Subject: "Geography",
		Images: []string{up.URL, "https://elsewhere.example.com/cover.jpg"},
	})
	require.NoError(t, err)
	require.Contains(t, store.objects, up.Key)

	require.NoError(t, f.posts.Delete(post.ID, "ana@example.com"))
	assert.NotContains(t, store.objects, up.Key)
}

func TestBrowse(t *testing.T) {
	f := newFixture(t)
	f.profile(t, "ana@example.com", "Ana", "Pune", "kothrud", "411038")
	f.profile(t, "ben@example.com", "Ben", "PUNE", "baner", "411045")
	f.profile(t, "cat@example.com", "Cat", "Mumbai", "bandra", "400050")

	f.post(t, "ana@example.com", "Own Book", "Maths")
	benBook := f.post(t, "ben@example.com", "Organic Chemistry", "Science")
	catBook := f.post(t, "cat@example.com", "World History", "Arts")
	applied := f.post(t, "cat@example.com", "Applied Physics", "Science")
	givenAway := f.post(t, "ben@example.com", "Biology", "Science")

	_, err := f.apps.Apply("ana@example.com", applied.ID)
	require.NoError(t, err)
	app, err := f.apps.Apply("cat@example.com", givenAway.ID)
	require.NoError(t, err)
	_, err = f.apps.Accept("ben@example.com", app.ID, "call me")
	require.NoError(t, err)

	resp, err := f.posts.Browse("ana@example.com", CatalogQuery{})
	require.NoError(t, err)
	ids := []uint{}
	for _, p := range resp.Posts {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{benBook.ID, catBook.ID}, ids)

	resp, err = f.posts.Browse("ana@example.com", CatalogQuery{FilterBy: "city"})
	require.NoError(t, err)
	assert.True(t, resp.FilterActive)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, benBook.ID, resp.Posts[0].ID)
	assert.Equal(t, "Ben", resp.Posts[0].Owner.Name)

	resp, err = f.posts.Browse("ana@example.com", CatalogQuery{Search: "history"})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, catBook.ID, resp.Posts[0].ID)

	_, err = f.posts.Browse("ana@example.com", CatalogQuery{FilterBy: "street"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	resp, err = f.posts.Browse("stranger@example.com", CatalogQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Posts, 4)
}
