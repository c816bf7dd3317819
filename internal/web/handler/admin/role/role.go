// Package role provides the admin routes managing roles and their access types.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
)

// Path is the base path for role management.
const Path = handler.RootPath + "/admin/roles"

// Route requirements.
var (
	readRoles   = access.Require(access.ReadAccess)
	createRoles = access.Require(access.CreateRole)
	updateRoles = access.Require(access.UpdateRole)
	deleteRoles = access.Require(access.DeleteRole)
)

// Service serves the role routes.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type createRequest struct {
	Name     string        `json:"name"`
	Accesses []access.Type `json:"accesses"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type accessRequest struct {
	Accesses []access.Type `json:"accesses"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	guard := func(req access.Requirement) fiber.Handler { return auth.RequireAccess(deps.Auth, req) }

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.Authenticate(deps.Issuer, false))

		router.Get(handler.RouterRootPath, guard(readRoles), s.List)
		router.Post(handler.RouterRootPath, guard(createRoles), s.Create)
		router.Get("/:id", guard(readRoles), s.Get)
		router.Patch("/:id", guard(updateRoles), s.Rename)
		router.Post("/:id/accesses", guard(updateRoles), s.AddAccess)
		router.Delete("/:id/accesses", guard(updateRoles), s.RemoveAccess)
		router.Delete("/:id", guard(deleteRoles), s.Delete)
	})

	return nil
}

// List returns all roles ordered by name.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.deps.Roles.List(c.UserContext())
	if err != nil {
		return handler.Fail(c, err)
	}

	out := make([]handler.RoleView, len(roles))
	for i := range roles {
		out[i] = handler.NewRoleView(&roles[i])
	}

	return c.JSON(out)
}

// Get returns one role.
func (s *Service) Get(c *fiber.Ctx) error {
	r, err := s.deps.Roles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(handler.NewRoleView(r))
}

// Create adds a role. An empty access list creates a role granting nothing.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createRequest
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	r, err := s.deps.Roles.Create(c.UserContext(), in.Name, in.Accesses)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(handler.NewRoleView(r))
}

// Rename changes the role name.
func (s *Service) Rename(c *fiber.Ctx) error {
	var in renameRequest
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	r, err := s.deps.Roles.Rename(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(handler.NewRoleView(r))
}

// AddAccess grants access types to the role.
func (s *Service) AddAccess(c *fiber.Ctx) error {
	var in accessRequest
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	r, err := s.deps.Roles.AddAccess(c.UserContext(), c.Params("id"), in.Accesses)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(handler.NewRoleView(r))
}

// RemoveAccess revokes access types from the role.
func (s *Service) RemoveAccess(c *fiber.Ctx) error {
	var in accessRequest
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	r, err := s.deps.Roles.RemoveAccess(c.UserContext(), c.Params("id"), in.Accesses)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(handler.NewRoleView(r))
}

// Delete removes the role. Users holding it are left without a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	if _, err := s.deps.Roles.Delete(c.UserContext(), c.Params("id")); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
