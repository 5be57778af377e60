package middleware

import (
	"log/slog"

	"github.com/booknest/booknest-server/internal/config"
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/session"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected validates the bearer token and rejects tokens revoked at sign-out.
func JWTProtected(cfg *config.Config, revoker session.Revoker) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			claims, err := session.FromCtx(c)
			if err != nil {
				return unauthorized(c)
			}
			if revoker != nil && claims.TokenID != "" {
				revoked, err := revoker.IsRevoked(claims.TokenID)
				if err != nil {
					slog.Error("revocation lookup failed", "error", err, "request_id", c.Locals("requestid"))
					return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
						Error: true, Message: "Session check unavailable",
					})
				}
				if revoked {
					return unauthorized(c)
				}
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}
