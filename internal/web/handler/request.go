package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Context derives the request context bounded by the configured query timeout.
func (d *Deps) Context(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), d.Cfg.DB.QueryTimeout)
}

// Bind parses the JSON body into v.
func Bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return nil
}

// UserID parses the :id path parameter of user routes.
func UserID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrBadID
	}

	return id, nil
}
