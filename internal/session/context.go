package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the explicit session carried by every authenticated request.
type Claims struct {
	AccountID uint
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// FromCtx extracts the session from the JWT stored in Fiber locals.
func FromCtx(c *fiber.Ctx) (*Claims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	accountID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, errors.New("invalid sub claim")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("missing email claim")
	}
	jti, _ := claims["jti"].(string)

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return &Claims{
		AccountID: uint(accountID),
		Email:     email,
		TokenID:   jti,
		ExpiresAt: expiresAt,
	}, nil
}
