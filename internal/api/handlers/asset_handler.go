package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/marcreyes/localpost/internal/service"
)

type AssetHandler struct {
	s service.MediaService
}

func NewAssetHandler(service service.MediaService) *AssetHandler {
	return &AssetHandler{s: service}
}

func (h *AssetHandler) UploadImage(c *fiber.Ctx) error {
	clientID := clientIDParam(c)
	if clientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing client_id",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	asset, err := h.s.UploadImage(c.Context(), clientID, file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(asset)
}
