package handlers

import (
	"github.com/booknest/booknest-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Counts(c *fiber.Ctx) error {
	claims, err := viewer(c)
	if err != nil {
		return respondError(c, err)
	}

	counts, err := h.dashboardService.Counts(claims.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}
