package handlers

import (
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	validator   *validation.Validator
}

func NewAuthHandler(authService *services.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator}
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.SignUp(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.SignIn(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Google(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.SignInWithGoogle(c.UserContext(), req.IDToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SignOutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, errBadBody)
		}
	}

	if err := h.authService.SignOut(claims, req.RefreshToken); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Signed out successfully"})
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.authService.CurrentSession(claims)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
