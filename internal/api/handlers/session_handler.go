package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/pkg/utils"
)

type SessionHandler struct {
	cfg config.Config
}

func NewSessionHandler(cfg config.Config) *SessionHandler {
	return &SessionHandler{cfg: cfg}
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	apiKey := c.Get("X-API-Key")
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(h.cfg.AdminAPIKey)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid API key",
		})
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, "admin", 24*time.Hour)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})

	return c.SendStatus(fiber.StatusOK)
}

func (h *SessionHandler) DestroySession(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	return c.SendStatus(fiber.StatusOK)
}
