// Package user provides the admin routes managing user accounts and their role.
package user

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/db/controller/user"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "/admin/users"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
	maxPageSize     = 200
)

// ErrSelfDelete is returned when the caller tries to delete its own account.
var ErrSelfDelete = errors.New("can not delete your own account")

var (
	readUsers   = access.Require(access.ReadAccess)
	createUsers = access.Require(access.UpdateUser)
	assignRoles = access.Require(access.UpdateUsersRole)
	deleteUsers = access.Require(access.DeleteUser)
)

// Service provides the user routes.
type Service struct {
	handler.Service
	deps      *handler.Deps
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	RoleID   *string `json:"roleId" validate:"omitempty,min=1"`
}

type roleRequest struct {
	// RoleID nil removes the user's role.
	RoleID *string `json:"roleId"`
}

type listResponse struct {
	Items []handler.UserView `json:"items"`
	Total int64              `json:"total"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	s.validator = validator.New()
	guard := func(req access.Requirement) fiber.Handler { return auth.RequireAccess(deps.Auth, req) }

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.Authenticate(deps.Issuer, false))

		router.Get(handler.RouterRootPath, guard(readUsers), s.List)
		router.Post(handler.RouterRootPath, guard(createUsers), s.Create)
		router.Get("/:id", guard(readUsers), s.Get)
		router.Put("/:id/role", guard(assignRoles), s.AssignRole)
		router.Delete("/:id", guard(deleteUsers), s.Delete)
	})

	return nil
}

// List returns a page of users. Query: role (id or "-" for none), q, limit, offset.
func (s *Service) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", DefaultPageSize)
	offset := c.QueryInt("offset", 0)

	if limit < 1 || limit > maxPageSize || offset < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid limit or offset")
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	users, total, err := user.List(ctx, s.deps.DB, user.Filter{
		RoleID: c.Query("role"),
		Search: c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	out := listResponse{Items: make([]handler.UserView, len(users)), Total: total}
	for i := range users {
		out.Items[i] = handler.NewUserView(&users[i])
	}

	return c.JSON(out)
}

// Get returns one user with its role.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.UserID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	u, err := user.GetByID(ctx, s.deps.DB, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(handler.NewUserView(u))
}

// Create adds a local account. Giving a role also needs updateUsersRole.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Fail(c, err)
	}

	if in.RoleID != nil && !auth.HasAccess(c, s.deps.Auth, access.UpdateUsersRole) {
		return fiber.NewError(fiber.StatusForbidden, "forbidden: missing "+string(access.UpdateUsersRole))
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	u, err := user.Create(ctx, s.deps.DB, in.Name, in.Email, in.Password, in.RoleID)
	if err != nil {
		return handler.Fail(c, err)
	}

	caller, _ := auth.CallerID(c)
	log.Info().Uint64("user_id", u.ID).Uint64("by", caller).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(handler.NewUserView(u))
}

// AssignRole sets or clears the user's role. It takes effect on the user's next request.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	id, err := handler.UserID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	var in roleRequest
	if err = handler.Bind(c, &in); err != nil {
		return err
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	u, err := user.AssignRole(ctx, s.deps.DB, id, in.RoleID)
	if err != nil {
		return handler.Fail(c, err)
	}

	caller, _ := auth.CallerID(c)
	ev := log.Info().Uint64("user_id", id).Uint64("by", caller)

	if in.RoleID != nil {
		ev = ev.Str("role_id", *in.RoleID)
	}

	ev.Msg("user role changed")

	return c.JSON(handler.NewUserView(u))
}

// Delete removes a user other than the caller.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.UserID(c)
	if err != nil {
		return handler.Fail(c, err)
	}

	if caller, _ := auth.CallerID(c); caller == id {
		return fiber.NewError(fiber.StatusBadRequest, ErrSelfDelete.Error())
	}

	ctx, cancel := s.deps.Context(c)
	defer cancel()

	if err = user.Delete(ctx, s.deps.DB, id); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Uint64("user_id", id).Msg("user deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
