// Package handlertest wires handler.Deps on a test database for route group tests.
package handlertest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/auth"
	"github.com/GoBazaar/GoBazaar/internal/auth/token"
	"github.com/GoBazaar/GoBazaar/internal/config"
	rolestore "github.com/GoBazaar/GoBazaar/internal/db/controller/role"
	"github.com/GoBazaar/GoBazaar/internal/db/controller/user"
	"github.com/GoBazaar/GoBazaar/internal/db/dbtest"
	"github.com/GoBazaar/GoBazaar/internal/role"
	"github.com/GoBazaar/GoBazaar/internal/taxonomy"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
)

// Password is the password of every user created by Env.User.
const Password = "correct horse battery"

// Env is a fiber app with the JSON error handler and the services of handler.Deps.
type Env struct {
	App  *fiber.App
	Deps *handler.Deps
}

// New returns an Env on a fresh database.
func New(t *testing.T) *Env {
	t.Helper()

	db := dbtest.New(t)
	cfg := &config.Config{
		DB:          config.DB{QueryTimeout: 5 * time.Second},
		Auth:        config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour, Issuer: "gobazaar"},
		Marketplace: config.Marketplace{States: []string{"new", "used"}, DefaultLimit: 20, MaxLimit: 100},
	}

	return &Env{
		App: fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler}),
		Deps: &handler.Deps{
			Cfg:     cfg,
			DB:      db,
			Auth:    auth.NewService(db, cfg.DB.QueryTimeout),
			Issuer:  token.New(cfg.Auth),
			Roles:   role.NewService(db, cfg.DB.QueryTimeout),
			Catalog: taxonomy.NewService(db, cfg.Marketplace),
		},
	}
}

// User creates a user whose role holds accesses, or no role when none are given.
// It returns the user id and an Authorization header value.
func (e *Env) User(t *testing.T, email string, accesses ...access.Type) (uint64, string) {
	t.Helper()

	ctx := context.Background()

	var roleID *string
	if len(accesses) > 0 {
		r, err := rolestore.Create(ctx, e.Deps.DB, "role "+email, access.NewSet(accesses...))
		require.NoError(t, err)

		roleID = &r.ID
	}

	u, err := user.Create(ctx, e.Deps.DB, email, email, Password, roleID)
	require.NoError(t, err)

	raw, _, err := e.Deps.Issuer.Issue(u.ID)
	require.NoError(t, err)

	return u.ID, "Bearer " + raw
}

// Do sends body as JSON and decodes the response into out when out is not nil.
func (e *Env) Do(t *testing.T, method, path, bearer string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, bearer)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}
