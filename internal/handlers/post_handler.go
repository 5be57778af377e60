package handlers

import (
	"github.com/booknest/booknest-server/internal/dto"
	"github.com/booknest/booknest-server/internal/services"
	"github.com/booknest/booknest-server/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type PostHandler struct {
	postService *services.PostService
	appService  *services.ApplicationService
	validator   *validation.Validator
}

func NewPostHandler(postService *services.PostService, appService *services.ApplicationService, validator *validation.Validator) *PostHandler {
	return &PostHandler{postService: postService, appService: appService, validator: validator}
}

// Browse serves the catalog. Query: search, filter_by (city|pincode|area).
func (h *PostHandler) Browse(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := h.postService.Browse(claims.Email, services.CatalogQuery{
		Search:   c.Query("search"),
		FilterBy: c.Query("filter_by"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.CreatePostRequest
	if err := parseBody(c, h.validator, &req); err != nil {
		return respondError(c, err)
	}

	post, err := h.postService.Create(claims.Email, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.postService.Get(id, claims.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.postService.Delete(id, claims.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Post deleted"})
}

func (h *PostHandler) Apply(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	app, err := h.appService.Apply(claims.Email, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}
