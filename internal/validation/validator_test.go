package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"min=8"`
	Images   []string `json:"images" validate:"max=3,dive,url"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Validate(&sample{Email: "nope", Password: "short", Images: []string{"a", "b", "c", "d"}})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a valid email address", verr.Fields["email"])
	assert.Equal(t, "must be at least 8 characters", verr.Fields["password"])
	assert.Equal(t, "must contain at most 3 items", verr.Fields["images"])
}

func TestValidatePasses(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&sample{
		Email:    "a@example.com",
		Password: "longenough",
		Images:   []string{"https://img.example.com/1.jpg"},
	}))
}
