package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/marcreyes/localpost/internal/service"
)

type PublishHandler struct {
	s service.PublisherService
}

func NewPublishHandler(service service.PublisherService) *PublishHandler {
	return &PublishHandler{s: service}
}

// Run fires one dispatch cycle outside the cron cadence. The claim
// discipline makes it safe to overlap with a scheduled run.
func (h *PublishHandler) Run(c *fiber.Ctx) error {
	summary, err := h.s.DispatchDue(c.Context(), time.Now().UTC())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
