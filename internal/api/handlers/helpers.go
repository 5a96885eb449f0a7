package handlers

import (
	"github.com/gofiber/fiber/v2"
)

func clientIDParam(c *fiber.Ctx) int64 {
	return int64(c.QueryInt("client_id", 0))
}
