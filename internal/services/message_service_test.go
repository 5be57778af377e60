package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadAccess(t *testing.T) {
	f := newFixture(t)
	f.profile(t, "owner@example.com", "Olga", "", "", "")
	f.profile(t, "a@example.com", "Asha", "", "", "")
	f.profile(t, "x@example.com", "Xavi", "", "", "")
	post := f.post(t, "owner@example.com", "Calculus", "Maths")
	app, err := f.apps.Apply("a@example.com", post.ID)
	require.NoError(t, err)

	_, err = f.messages.Thread("x@example.com", app.ID)
	assert.ErrorIs(t, err, ErrNotThreadParty)
	_, err = f.messages.Send("x@example.com", app.ID, "hi")
	assert.ErrorIs(t, err, ErrNotThreadParty)

	_, err = f.messages.Send("a@example.com", app.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = f.messages.Thread("a@example.com", 9999)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	thread, err := f.messages.Thread("a@example.com", app.ID)
	require.NoError(t, err)
	assert.Empty(t, thread.Messages)
	assert.Empty(t, thread.Days)
}

func TestSendAndReadThread(t *testing.T) {
	f := newFixture(t)
	f.profile(t, "owner@example.com", "Olga", "", "", "")
	f.profile(t, "a@example.com", "Asha", "", "", "")
	post := f.post(t, "owner@example.com", "Calculus", "Maths")
	app, err := f.apps.Apply("a@example.com", post.ID)
	require.NoError(t, err)

	clock := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	f.messages.now = func() time.Time { return clock }

	_, err = f.messages.Send("a@example.com", app.ID, "Is it still available?")
	require.NoError(t, err)

	clock = clock.Add(24 * time.Hour)
	thread, err := f.messages.Send("owner@example.com", app.ID, " Yes! ")
	require.NoError(t, err)

	require.Len(t, thread.Messages, 2)
	assert.Equal(t, "Is it still available?", thread.Messages[0].Message)
	assert.False(t, thread.Messages[0].Mine)
	assert.Equal(t, "Asha", thread.Messages[0].SenderName)
	assert.Equal(t, "Yes!", thread.Messages[1].Message)
	assert.True(t, thread.Messages[1].Mine)

	require.Len(t, thread.Days, 2)
	assert.Equal(t, "Yesterday", thread.Days[0].Label)
	assert.Equal(t, "Today", thread.Days[1].Label)

	// The owner stays a thread party after the post is given away.
	_, err = f.apps.Accept("owner@example.com", app.ID, "call me")
	require.NoError(t, err)
	thread, err = f.messages.Thread("owner@example.com", app.ID)
	require.NoError(t, err)
	assert.Len(t, thread.Messages, 2)
}
