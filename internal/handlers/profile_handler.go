package handlers

import (
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	validator      *validation.Validator
}

func NewProfileHandler(profileService *services.ProfileService, validator *validation.Validator) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, validator: validator}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.profileService.GetByEmail(claims.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SaveProfileRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	user, err := h.profileService.Save(claims.Email, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *ProfileHandler) Posts(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	userID, err := h.profileService.ResolveUserID(claims.Email)
	if err != nil {
		return respondError(c, err)
	}
	posts, err := h.profileService.ListOwnPosts(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}
