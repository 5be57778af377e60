package handlers

import (
	"github.com/booknest/booknest-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	imageService *services.ImageService
}

func NewUploadHandler(imageService *services.ImageService) *UploadHandler {
	return &UploadHandler{imageService: imageService}
}

// Image accepts a multipart "file" field and returns its hosted URL.
func (h *UploadHandler) Image(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, errMissingFile)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, errMissingFile)
	}
	defer f.Close()

	resp, err := h.imageService.Upload(c.UserContext(), claims.AccountID, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
