package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/marcreyes/localpost/internal/service"
	"github.com/marcreyes/localpost/internal/transfer"
)

type ConnectionHandler struct {
	s service.ConnectionService
}

func NewConnectionHandler(service service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{s: service}
}

func (h *ConnectionHandler) StoreConnection(c *fiber.Ctx) error {
	var req transfer.ConnectionRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}

	id, err := h.s.StoreConnection(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": id,
	})
}

func (h *ConnectionHandler) ListConnections(c *fiber.Ctx) error {
	clientID := clientIDParam(c)
	if clientID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing client_id",
		})
	}

	connections, err := h.s.ListConnections(c.Context(), clientID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list connections",
		})
	}

	return c.Status(fiber.StatusOK).JSON(connections)
}
