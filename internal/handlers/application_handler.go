package handlers

import (
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	appService *services.ApplicationService
	validator  *validation.Validator
}

func NewApplicationHandler(appService *services.ApplicationService, validator *validation.Validator) *ApplicationHandler {
	return &ApplicationHandler{appService: appService, validator: validator}
}

func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	apps, err := h.appService.ListMine(claims.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(apps)
}

func (h *ApplicationHandler) Incoming(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	apps, err := h.appService.ListIncoming(claims.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(apps)
}

func (h *ApplicationHandler) Accept(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.AcceptRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.appService.Accept(claims.Email, id, req.OwnerContact)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.RejectRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	resp, err := h.appService.Reject(claims.Email, id, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
