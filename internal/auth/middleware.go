package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth/token"
)

// LocalCaller is the fiber Locals key holding the authenticated user id.
const LocalCaller = "caller"

// Authenticate reads the bearer token and stores the caller id in Locals.
// With optional set, requests without a token pass through anonymously; an invalid token is
// rejected either way.
func Authenticate(issuer *token.Issuer, optional bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			if optional {
				return c.Next()
			}

			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization token")
		}

		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
		}

		id, err := issuer.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, token.ErrInvalidToken.Error())
		}

		c.Locals(LocalCaller, id)

		return c.Next()
	}
}

// CallerID returns the authenticated user id, if any.
func CallerID(c *fiber.Ctx) (uint64, bool) {
	id, ok := c.Locals(LocalCaller).(uint64)
	return id, ok && id != 0
}

// RequireAccess creates Fiber middleware guarding a route with one static requirement.
// It responds 401 without a caller, 403 on a denial and 503 when permissions could not be read.
func RequireAccess(authService *Service, required access.Requirement) fiber.Handler {
	if required.IsZero() {
		panic(ErrNoRequirement)
	}

	return func(c *fiber.Ctx) error {
		id, ok := CallerID(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		d := authService.Authorize(c.UserContext(), id, required)

		switch {
		case d.Allowed:
			return c.Next()
		case errors.Is(d.Err, ErrUserNotFound):
			return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
		case d.Err != nil:
			return fiber.NewError(fiber.StatusServiceUnavailable, "authorization temporarily unavailable")
		default:
			return fiber.NewError(fiber.StatusForbidden, "forbidden: "+d.Reason())
		}
	}
}

// HasAccess reports whether the current caller holds t. Anonymous callers never do.
func HasAccess(c *fiber.Ctx, authService *Service, t access.Type) bool {
	id, ok := CallerID(c)
	if !ok {
		return false
	}

	return authService.Has(c.UserContext(), id, t)
}
