package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/db/controller/user"
	"github.com/GoBazaar/GoBazaar/internal/role"
	"github.com/GoBazaar/GoBazaar/internal/taxonomy"
)

// ErrBadID is returned when a path id can not be parsed.
var ErrBadID = errors.New("invalid id")

var (
	notFound = []error{
		role.ErrRoleNotFound, user.ErrUserNotFound,
		taxonomy.ErrCategoryNotFound, taxonomy.ErrBrandNotFound, taxonomy.ErrModelNotFound,
	}
	conflict = []error{
		role.ErrDuplicateName, user.ErrEmailExists,
		taxonomy.ErrCategoryExists, taxonomy.ErrBrandExists, taxonomy.ErrModelExists,
	}
	badRequest = []error{
		ErrBadID, role.ErrEmptyName, role.ErrNameTooLong, role.ErrNoAccess, access.ErrUnknownAccess,
		taxonomy.ErrInvalidInput, taxonomy.ErrInvalidCursor, user.ErrInvalidOldPassword,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}

	return false
}

// Status maps a service error to its HTTP status code.
func Status(err error) int {
	var (
		fe *fiber.Error
		ve validator.ValidationErrors
	)

	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, auth.ErrDenied):
		return fiber.StatusForbidden
	case isAny(err, notFound):
		return fiber.StatusNotFound
	case isAny(err, conflict):
		return fiber.StatusConflict
	case isAny(err, badRequest), errors.As(err, &ve):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Fail converts err into a *fiber.Error. Internal errors are logged and not leaked.
func Fail(c *fiber.Ctx, err error) error {
	code := Status(err)
	if code == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

		return fiber.ErrInternalServerError
	}

	if code == fiber.StatusServiceUnavailable {
		log.Warn().Err(err).Str("path", c.Path()).Msg("store unavailable")

		return fiber.NewError(code, "service temporarily unavailable")
	}

	return fiber.NewError(code, err.Error())
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := fiber.ErrInternalServerError.Message

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{"error": msg})
}
