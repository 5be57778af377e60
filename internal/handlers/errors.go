package handlers

import (
	"errors"
	"log/slog"

	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/session"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
)

var (
	errBadBody      = errors.New("invalid request body")
	errUnauthorized = errors.New("unauthorized")
	errInvalidID    = errors.New("invalid id")
	errMissingFile  = errors.New("file is required")
)

var errorStatus = []struct {
	err    error
	status int
}{
	{errBadBody, fiber.StatusBadRequest},
	{errInvalidID, fiber.StatusBadRequest},
	{errMissingFile, fiber.StatusBadRequest},
	{errUnauthorized, fiber.StatusUnauthorized},

	{services.ErrProfileNotFound, fiber.StatusNotFound},
	{services.ErrPostNotFound, fiber.StatusNotFound},
	{services.ErrOwnerNotFound, fiber.StatusNotFound},
	{services.ErrApplicationNotFound, fiber.StatusNotFound},
	{services.ErrAccountNotFound, fiber.StatusNotFound},

	{services.ErrSelfApply, fiber.StatusBadRequest},
	{services.ErrContactRequired, fiber.StatusBadRequest},
	{services.ErrReasonRequired, fiber.StatusBadRequest},
	{services.ErrEmptyMessage, fiber.StatusBadRequest},
	{services.ErrTooManyImages, fiber.StatusBadRequest},
	{services.ErrPostFieldsRequired, fiber.StatusBadRequest},
	{services.ErrInvalidFilter, fiber.StatusBadRequest},
	{services.ErrInvalidImage, fiber.StatusBadRequest},

	{services.ErrAlreadyApplied, fiber.StatusConflict},
	{services.ErrNotPending, fiber.StatusConflict},
	{services.ErrEmailTaken, fiber.StatusConflict},

	{services.ErrNotPostOwner, fiber.StatusForbidden},
	{services.ErrNotThreadParty, fiber.StatusForbidden},

	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{services.ErrGoogleUnverified, fiber.StatusUnauthorized},

	{services.ErrImageTooLarge, fiber.StatusRequestEntityTooLarge},
	{services.ErrGoogleNotConfigured, fiber.StatusServiceUnavailable},
}

// userMessages overrides err.Error() where the client shows a fixed text.
var userMessages = map[error]string{
	errBadBody:                     "Invalid request body",
	errUnauthorized:                "Unauthorized",
	services.ErrProfileNotFound:    "Your profile not found.",
	services.ErrOwnerNotFound:      "Post owner not found.",
	services.ErrSelfApply:          "You cannot apply to your own book.",
	services.ErrAlreadyApplied:     "You already applied for this book.",
	services.ErrInvalidCredentials: "Invalid email or password. Please try again.",
}

// respondError maps service errors to HTTP responses. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: verr.Fields,
		})
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			msg, ok := userMessages[m.err]
			if !ok {
				msg = m.err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Error: true, Message: msg})
		}
	}

	slog.Error("request failed",
		"error", err,
		"path", c.Path(),
		"method", c.Method(),
		"request_id", c.Locals("requestid"),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

// parseBody decodes and validates the JSON body into req.
func parseBody(c *fiber.Ctx, v *validation.Validator, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errBadBody
	}
	return v.Validate(req)
}

// viewer returns the session attached by the JWT middleware.
func viewer(c *fiber.Ctx) (*session.Claims, error) {
	claims, err := session.FromCtx(c)
	if err != nil {
		return nil, errUnauthorized
	}
	return claims, nil
}

func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
