package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/estate-agency/internal/service"
)

// StatisticsHandler serves the reporting page.
type StatisticsHandler struct {
	statistics *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(statistics *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statistics: statistics}
}

// Overview handles GET /statistics.
func (h *StatisticsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.statistics.Overview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// Charts handles GET /statistics/charts.
func (h *StatisticsHandler) Charts(c *fiber.Ctx) error {
	urls, err := h.statistics.Charts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": urls})
}
