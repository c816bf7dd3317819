// Package catalog serves categories, brands and models.
//
// Reads are public. Callers holding readAccess also see inactive entries; everyone else gets
// 404 for them. Writes are guarded by the matching create, update and delete access types.
package catalog

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
	"github.com/GoBazaar/GoBazaar/internal/taxonomy"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
)

// Route group paths.
const (
	CategoryPath = handler.RootPath + "/categories"
	BrandPath    = handler.RootPath + "/brands"
	ModelPath    = handler.RootPath + "/models"
)

// Service serves the catalog routes.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

type entry[T any] interface {
	*T
	Base() *models.Entry
}

// routes binds one taxonomy table to its paths and guards.
type routes[T any, P entry[T]] struct {
	deps                   *handler.Deps
	create, update, remove access.Requirement

	list    func(ctx context.Context, q taxonomy.ListQuery) (taxonomy.Page[T], error)
	get     func(ctx context.Context, id string) (*T, error)
	add     func(ctx context.Context, c *fiber.Ctx, createdBy uint64) (*T, error)
	change  func(ctx context.Context, id string, in taxonomy.UpdateInput) (*T, error)
	destroy func(ctx context.Context, id string) (*T, error)
	missing error
}

type updateRequest struct {
	Name   *string `json:"name"`
	Active *bool   `json:"active"`
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps
	svc := deps.Catalog

	categories := routes[models.Category, *models.Category]{
		deps:    deps,
		create:  access.Require(access.CreateCategory),
		update:  access.Require(access.UpdateCategory),
		remove:  access.Require(access.DeleteCategory),
		list:    svc.ListCategories,
		get:     svc.GetCategory,
		add:     addEntry(svc.CreateCategory),
		change:  svc.UpdateCategory,
		destroy: svc.DeleteCategory,
		missing: taxonomy.ErrCategoryNotFound,
	}
	categories.register(app, CategoryPath)

	brands := routes[models.Brand, *models.Brand]{
		deps:    deps,
		create:  access.Require(access.CreateBrand),
		update:  access.Require(access.UpdateBrand),
		remove:  access.Require(access.DeleteBrand),
		list:    svc.ListBrands,
		get:     svc.GetBrand,
		add:     addEntry(svc.CreateBrand),
		change:  svc.UpdateBrand,
		destroy: svc.DeleteBrand,
		missing: taxonomy.ErrBrandNotFound,
	}
	brands.register(app, BrandPath)

	modelRoutes := routes[models.Model, *models.Model]{
		deps:    deps,
		create:  access.Require(access.CreateModel),
		update:  access.Require(access.UpdateModel),
		remove:  access.Require(access.DeleteModel),
		list:    svc.ListModels,
		get:     svc.GetModel,
		add:     s.addModel,
		change:  svc.UpdateModel,
		destroy: svc.DeleteModel,
		missing: taxonomy.ErrModelNotFound,
	}
	modelRoutes.register(app, ModelPath)

	return nil
}

func (r routes[T, P]) register(app *fiber.App, path string) {
	guard := func(req access.Requirement) fiber.Handler { return auth.RequireAccess(r.deps.Auth, req) }

	app.Route(path, func(router fiber.Router) {
		public := auth.Authenticate(r.deps.Issuer, true)
		private := auth.Authenticate(r.deps.Issuer, false)

		router.Get(handler.RouterRootPath, public, r.List)
		router.Get("/:id", public, r.Get)
		router.Post(handler.RouterRootPath, private, guard(r.create), r.Create)
		router.Patch("/:id", private, guard(r.update), r.Update)
		router.Delete("/:id", private, guard(r.remove), r.Delete)
	})
}

// List returns one page. Query: state, q, limit, cursor, sortBy, sortOrder, categoryId, brandId.
func (r routes[T, P]) List(c *fiber.Ctx) error {
	ctx, cancel := r.deps.Context(c)
	defer cancel()

	page, err := r.list(ctx, listQuery(c, r.deps))
	if err != nil {
		return handler.Fail(c, err)
	}

	if page.Items == nil {
		page.Items = []T{}
	}

	return c.JSON(page)
}

// Get returns one entry. Inactive entries are only visible to callers holding readAccess.
func (r routes[T, P]) Get(c *fiber.Ctx) error {
	ctx, cancel := r.deps.Context(c)
	defer cancel()

	item, err := r.get(ctx, c.Params("id"))
	if err != nil {
		return handler.Fail(c, err)
	}

	if !P(item).Base().Active && !auth.HasAccess(c, r.deps.Auth, access.ReadAccess) {
		return handler.Fail(c, r.missing)
	}

	return c.JSON(item)
}

// Create adds an active entry owned by the caller.
func (r routes[T, P]) Create(c *fiber.Ctx) error {
	caller, _ := auth.CallerID(c)

	ctx, cancel := r.deps.Context(c)
	defer cancel()

	item, err := r.add(ctx, c, caller)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update renames and/or (de)activates an entry.
func (r routes[T, P]) Update(c *fiber.Ctx) error {
	var in updateRequest
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	ctx, cancel := r.deps.Context(c)
	defer cancel()

	item, err := r.change(ctx, c.Params("id"), taxonomy.UpdateInput{Name: in.Name, Active: in.Active})
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(item)
}

// Delete removes an entry. Deleting a category or brand removes its models.
func (r routes[T, P]) Delete(c *fiber.Ctx) error {
	ctx, cancel := r.deps.Context(c)
	defer cancel()

	if _, err := r.destroy(ctx, c.Params("id")); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func listQuery(c *fiber.Ctx, deps *handler.Deps) taxonomy.ListQuery {
	state := c.Query("state")
	if state == "" {
		state = deps.Cfg.Marketplace.States[0]
	}

	return taxonomy.ListQuery{
		State:           state,
		Search:          c.Query("q"),
		Limit:           c.QueryInt("limit", 0),
		Cursor:          c.Query("cursor"),
		SortBy:          c.Query("sortBy"),
		SortOrder:       c.Query("sortOrder"),
		CategoryID:      c.Query("categoryId"),
		BrandID:         c.Query("brandId"),
		IncludeInactive: auth.HasAccess(c, deps.Auth, access.ReadAccess),
	}
}

type createRequest struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type createModelRequest struct {
	Name       string `json:"name"`
	State      string `json:"state"`
	BrandID    string `json:"brandId"`
	CategoryID string `json:"categoryId"`
}

func addEntry[T any](
	create func(ctx context.Context, in taxonomy.CreateInput, createdBy uint64) (*T, error),
) func(ctx context.Context, c *fiber.Ctx, createdBy uint64) (*T, error) {
	return func(ctx context.Context, c *fiber.Ctx, createdBy uint64) (*T, error) {
		var in createRequest
		if err := handler.Bind(c, &in); err != nil {
			return nil, err
		}

		return create(ctx, taxonomy.CreateInput{Name: in.Name, State: in.State}, createdBy)
	}
}

func (s *Service) addModel(ctx context.Context, c *fiber.Ctx, createdBy uint64) (*models.Model, error) {
	var in createModelRequest
	if err := handler.Bind(c, &in); err != nil {
		return nil, err
	}

	return s.deps.Catalog.CreateModel(ctx, taxonomy.CreateModelInput{
		Name:       in.Name,
		State:      in.State,
		BrandID:    in.BrandID,
		CategoryID: in.CategoryID,
	}, createdBy)
}
