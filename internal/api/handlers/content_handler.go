package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/queue"
	"github.com/marcreyes/localpost/internal/service"
	"github.com/marcreyes/localpost/internal/transfer"
)

type ContentHandler struct {
	gs          service.GeneratorService
	qs          service.QAService
	AsynqClient *asynq.Client
}

func NewContentHandler(generator service.GeneratorService, reviewer service.QAService, asynqClient *asynq.Client) *ContentHandler {
	return &ContentHandler{gs: generator, qs: reviewer, AsynqClient: asynqClient}
}

func (h *ContentHandler) GenerateMonth(c *fiber.Ctx) error {
	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	images := make(map[models.Platform]string, len(req.Images))
	for p, url := range req.Images {
		platform, err := models.ParsePlatform(p)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		images[platform] = url
	}

	if req.DryRun {
		result, err := h.gs.GenerateMonth(c.Context(), req.ClientID, req.Month, req.Timezone, images, true)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(result)
	}

	taskID, err := queue.EnqueueGenerateMonth(h.AsynqClient, queue.GenerateMonthPayload{
		ClientID: req.ClientID,
		Month:    req.Month,
		Timezone: req.Timezone,
		Images:   req.Images,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling generation",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Generation scheduled",
		"task_id": taskID,
	})
}

func (h *ContentHandler) ReviewMonth(c *fiber.Ctx) error {
	var req transfer.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	if req.DryRun {
		summary, err := h.qs.ReviewMonth(c.Context(), req.ClientID, req.Month, true, req.RubricPath)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusOK).JSON(summary)
	}

	taskID, err := queue.EnqueueReviewMonth(h.AsynqClient, queue.ReviewMonthPayload{
		ClientID:   req.ClientID,
		Month:      req.Month,
		RubricPath: req.RubricPath,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling review",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Review scheduled",
		"task_id": taskID,
	})
}
