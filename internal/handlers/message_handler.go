package handlers

import (
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService *services.MessageService
	validator      *validation.Validator
}

func NewMessageHandler(messageService *services.MessageService, validator *validation.Validator) *MessageHandler {
	return &MessageHandler{messageService: messageService, validator: validator}
}

func (h *MessageHandler) Thread(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	thread, err := h.messageService.Thread(claims.Email, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(thread)
}

func (h *MessageHandler) Send(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req dto.SendMessageRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	thread, err := h.messageService.Send(claims.Email, id, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}
