package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/booknest/booknest-server/internal/database/dbtest"
	"github.com/booknest/booknest-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGHandlerPersistsErrors(t *testing.T) {
	db := dbtest.Open(t)
	h := NewPGHandler(db, time.Hour, nil)
	logger := slog.New(NewMultiHandler(slog.NewJSONHandler(&bytes.Buffer{}, nil), h))

	logger.Info("not persisted")
	logger.With("request_id", "req-1").Error("apply failed",
		"user_id", "42",
		"action", "apply",
		"error", "boom",
		"post_id", 7,
	)
	h.Stop()

	var rows []models.SystemLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "apply failed", row.Message)
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "42", *row.UserID)
	assert.Equal(t, "apply", row.Action)
	assert.Equal(t, "boom", row.Error)
	assert.JSONEq(t, `{"post_id":7}`, string(row.Extra))

	h.Stop()
}

func TestPurgeOlderThan(t *testing.T) {
	db := dbtest.Open(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{Timestamp: now, Level: "ERROR", Message: "new"},
	}).Error)

	deleted, err := PurgeOlderThan(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new", remaining[0].Message)
}

func TestMultiHandlerEnabled(t *testing.T) {
	m := NewMultiHandler(NewStdoutHandler("error"))
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, m.Enabled(context.Background(), slog.LevelError))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
