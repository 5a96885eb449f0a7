package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/marcreyes/localpost/internal/service"
)

type ReportHandler struct {
	s service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{s: service}
}

func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	clientID := clientIDParam(c)
	if clientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing client_id",
		})
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid from timestamp",
		})
	}

	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid to timestamp",
		})
	}

	report, err := h.s.Range(c.Context(), clientID, from, to)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
