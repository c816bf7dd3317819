// Package search serves name suggestions across the catalog.
package search

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/taxonomy"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
)

// Path is the suggestion endpoint.
const Path = handler.RootPath + "/search/suggestions"

// Service serves the search routes.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	app.Get(Path, auth.Authenticate(deps.Issuer, true), s.Suggestions)

	return nil
}

// Suggestions answers ?q=term&limit=n. Inactive entries are included for readAccess holders.
func (s *Service) Suggestions(c *fiber.Ctx) error {
	ctx, cancel := s.deps.Context(c)
	defer cancel()

	out, err := s.deps.Catalog.Suggest(ctx, taxonomy.SuggestQuery{
		Term:            c.Query("q"),
		Limit:           c.QueryInt("limit", 0),
		IncludeInactive: auth.HasAccess(c, s.deps.Auth, access.ReadAccess),
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(out)
}
