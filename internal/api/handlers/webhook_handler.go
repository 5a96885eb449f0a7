package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/service"
	"github.com/marcreyes/localpost/internal/transfer"
)

type WebhookHandler struct {
	s   service.ClientService
	cfg config.Config
}

func NewWebhookHandler(cfg config.Config, service service.ClientService) *WebhookHandler {
	return &WebhookHandler{s: service, cfg: cfg}
}

func (h *WebhookHandler) PaymentWebhook(c *fiber.Ctx) error {
	body := c.Body()

	signature := c.Get("X-Webhook-Signature")
	if !verifySignature(h.cfg.WebhookSecret, body, signature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid signature",
		})
	}

	// Once the signature checks out, always ack with 200: the processor
	// retries anything else, and a malformed event stays malformed.
	var event transfer.PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"error": "Unable to parse event",
		})
	}

	if err := h.s.HandlePaymentEvent(c.Context(), &event); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func verifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
