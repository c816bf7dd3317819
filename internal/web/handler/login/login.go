// Package login issues bearer tokens and serves the caller's own account.
package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/db/controller/user"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
)

const (
	// Path is the path of the login endpoint.
	Path = handler.RootPath + "/login"
	// MePath is the path of the caller's account.
	MePath = handler.RootPath + "/me"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type meResponse struct {
	User     handler.UserView `json:"user"`
	Accesses []string         `json:"accesses"`
}

type passwordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// Init registers the login and account routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Post(Path, s.Post)

	app.Route(MePath, func(router fiber.Router) {
		router.Use(auth.Authenticate(deps.Issuer, false))
		router.Get(handler.RouterRootPath, s.Me)
		router.Put("/password", s.ChangePassword)
	})

	return nil
}

// Post checks the credentials and returns a signed token.
func (s *Service) Post(c *fiber.Ctx) error {
	var in credentials
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if in.Email == "" || in.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	u, err := user.Authenticate(ctx, s.deps.DB, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrInvalidPassword) {
			log.Info().Str("email", in.Email).Msg("login failed")

			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidCredentials.Error())
		}

		return handler.Fail(c, err)
	}

	raw, expires, err := s.deps.Issuer.Issue(u.ID)
	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint64("user_id", u.ID).Msg("login")

	return c.JSON(tokenResponse{Token: raw, ExpiresAt: expires})
}

// Me returns the caller with the access types currently granted by its role.
func (s *Service) Me(c *fiber.Ctx) error {
	id, _ := auth.CallerID(c)

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	u, err := user.GetByID(ctx, s.deps.DB, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
		}

		return handler.Fail(c, err)
	}

	granted, err := s.deps.Auth.Permissions(ctx, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(meResponse{User: handler.NewUserView(u), Accesses: granted.Strings()})
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	id, _ := auth.CallerID(c)

	var in passwordChange
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if len(in.NewPassword) < 8 { //nolint:mnd
		return fiber.NewError(fiber.StatusBadRequest, "new password needs at least 8 characters")
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	if err := user.ChangePassword(ctx, s.deps.DB, id, in.OldPassword, in.NewPassword); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
