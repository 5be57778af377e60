package database_test

import (
	"errors"
	"testing"

	"github.com/booknest/booknest-server/internal/database"
	"github.com/booknest/booknest-server/internal/database/dbtest"
	"github.com/booknest/booknest-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppliedBookUniquePerPostAndUser(t *testing.T) {
	db := dbtest.Open(t)

	first := models.AppliedBook{PostID: 1, UserID: 2, OwnerID: 3, Status: models.StatusPending}
	require.NoError(t, db.Create(&first).Error)

	dup := models.AppliedBook{PostID: 1, UserID: 2, OwnerID: 3, Status: models.StatusPending}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))

	other := models.AppliedBook{PostID: 1, UserID: 4, OwnerID: 3, Status: models.StatusPending}
	assert.NoError(t, db.Create(&other).Error)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, database.IsUniqueViolation(nil))
	assert.False(t, database.IsUniqueViolation(errors.New("connection refused")))
	assert.True(t, database.IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx"`)))
}

func TestPing(t *testing.T) {
	db := dbtest.Open(t)
	assert.NoError(t, database.Ping(db))
	assert.Error(t, database.Ping(nil))
}
