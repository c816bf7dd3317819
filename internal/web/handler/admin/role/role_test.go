package role

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/web/handler"
	"github.com/GoBazaar/GoBazaar/internal/web/handler/handlertest"
)

type env struct {
	*handlertest.Env
	admin    string
	readOnly string
	plain    string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{Env: handlertest.New(t)}
	require.NoError(t, (&Service{}).Init(e.App, e.Deps))

	_, e.admin = e.User(t, "admin@example.com",
		access.CreateRole, access.UpdateRole, access.DeleteRole)
	_, e.readOnly = e.User(t, "viewer@example.com", access.UpdateProduct)
	_, e.plain = e.User(t, "plain@example.com")

	return e
}

func (e *env) create(t *testing.T, name string, accesses ...access.Type) handler.RoleView {
	t.Helper()

	var out handler.RoleView
	require.Equal(t, fiber.StatusCreated,
		e.Do(t, fiber.MethodPost, Path, e.admin, createRequest{Name: name, Accesses: accesses}, &out))

	return out
}

func TestGuards(t *testing.T) {
	e := newEnv(t)
	r := e.create(t, "editors", access.CreateBrand)

	testCases := []struct {
		name       string
		method     string
		path       string
		bearer     string
		body       any
		wantStatus int
	}{
		{name: "list anonymous", method: fiber.MethodGet, path: Path, wantStatus: fiber.StatusUnauthorized},
		{name: "list without role", method: fiber.MethodGet, path: Path, bearer: e.plain, wantStatus: fiber.StatusForbidden},
		{name: "list with any admin access", method: fiber.MethodGet, path: Path, bearer: e.readOnly, wantStatus: fiber.StatusOK},
		{name: "get with any admin access", method: fiber.MethodGet, path: Path + "/" + r.ID, bearer: e.readOnly, wantStatus: fiber.StatusOK},
		{
			name: "create needs createRole", method: fiber.MethodPost, path: Path, bearer: e.readOnly,
			body: createRequest{Name: "x"}, wantStatus: fiber.StatusForbidden,
		},
		{
			name: "rename needs updateRole", method: fiber.MethodPatch, path: Path + "/" + r.ID, bearer: e.readOnly,
			body: renameRequest{Name: "x"}, wantStatus: fiber.StatusForbidden,
		},
		{
			name: "grant needs updateRole", method: fiber.MethodPost, path: Path + "/" + r.ID + "/accesses", bearer: e.readOnly,
			body: accessRequest{Accesses: []access.Type{access.DeleteBrand}}, wantStatus: fiber.StatusForbidden,
		},
		{name: "delete needs deleteRole", method: fiber.MethodDelete, path: Path + "/" + r.ID, bearer: e.readOnly, wantStatus: fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, e.Do(t, tc.method, tc.path, tc.bearer, tc.body, nil))
		})
	}
}

func TestCreate(t *testing.T) {
	e := newEnv(t)

	r := e.create(t, "  editors ", access.CreateBrand)
	assert.Equal(t, "editors", r.Name)
	assert.Equal(t, []string{"readAccess", "createBrand"}, r.Accesses)

	empty := e.create(t, "nobody")
	assert.Empty(t, empty.Accesses)

	testCases := []struct {
		name       string
		body       createRequest
		wantStatus int
	}{
		{name: "duplicate", body: createRequest{Name: "editors"}, wantStatus: fiber.StatusConflict},
		{name: "blank name", body: createRequest{Name: "  "}, wantStatus: fiber.StatusBadRequest},
		{name: "unknown access", body: createRequest{Name: "x", Accesses: []access.Type{"subscriber"}}, wantStatus: fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]string
			require.Equal(t, tc.wantStatus, e.Do(t, fiber.MethodPost, Path, e.admin, tc.body, &out))
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestAccessChanges(t *testing.T) {
	e := newEnv(t)
	r := e.create(t, "editors", access.CreateBrand)
	accesses := Path + "/" + r.ID + "/accesses"

	steps := []struct {
		name   string
		method string
		given  []access.Type
		want   []string
	}{
		{name: "grant", method: fiber.MethodPost, given: []access.Type{access.DeleteBrand}, want: []string{"readAccess", "createBrand", "deleteBrand"}},
		{name: "grant again", method: fiber.MethodPost, given: []access.Type{access.DeleteBrand}, want: []string{"readAccess", "createBrand", "deleteBrand"}},
		{name: "revoke one", method: fiber.MethodDelete, given: []access.Type{access.CreateBrand}, want: []string{"readAccess", "deleteBrand"}},
		{name: "revoke absent", method: fiber.MethodDelete, given: []access.Type{access.CreateModel}, want: []string{"readAccess", "deleteBrand"}},
		{name: "revoke last drops read access", method: fiber.MethodDelete, given: []access.Type{access.DeleteBrand}, want: []string{}},
		{name: "grant read access alone is dropped", method: fiber.MethodPost, given: []access.Type{access.ReadAccess}, want: []string{}},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			var out handler.RoleView
			require.Equal(t, fiber.StatusOK, e.Do(t, step.method, accesses, e.admin, accessRequest{Accesses: step.given}, &out))
			assert.Equal(t, step.want, out.Accesses)
		})
	}

	assert.Equal(t, fiber.StatusBadRequest, e.Do(t, fiber.MethodPost, accesses, e.admin, accessRequest{}, nil))
	assert.Equal(t, fiber.StatusNotFound,
		e.Do(t, fiber.MethodPost, Path+"/missing/accesses", e.admin, accessRequest{Accesses: []access.Type{access.DeleteBrand}}, nil))
}

func TestRenameAndDelete(t *testing.T) {
	e := newEnv(t)
	r := e.create(t, "editors", access.CreateBrand)
	e.create(t, "sellers")

	var out handler.RoleView
	require.Equal(t, fiber.StatusOK, e.Do(t, fiber.MethodPatch, Path+"/"+r.ID, e.admin, renameRequest{Name: "writers"}, &out))
	assert.Equal(t, "writers", out.Name)

	assert.Equal(t, fiber.StatusConflict, e.Do(t, fiber.MethodPatch, Path+"/"+r.ID, e.admin, renameRequest{Name: "sellers"}, nil))

	require.Equal(t, fiber.StatusNoContent, e.Do(t, fiber.MethodDelete, Path+"/"+r.ID, e.admin, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, e.Do(t, fiber.MethodGet, Path+"/"+r.ID, e.admin, nil, nil))
	assert.Equal(t, fiber.StatusNotFound, e.Do(t, fiber.MethodDelete, Path+"/"+r.ID, e.admin, nil, nil))
}

func TestRevokedAccessAppliesToNextRequest(t *testing.T) {
	e := newEnv(t)

	var roles []handler.RoleView
	require.Equal(t, fiber.StatusOK, e.Do(t, fiber.MethodGet, Path, e.admin, nil, &roles))

	var adminRole handler.RoleView
	for _, r := range roles {
		if r.Name == "role admin@example.com" {
			adminRole = r
		}
	}
	require.NotEmpty(t, adminRole.ID)

	require.Equal(t, fiber.StatusOK, e.Do(t, fiber.MethodDelete, Path+"/"+adminRole.ID+"/accesses", e.admin,
		accessRequest{Accesses: []access.Type{access.CreateRole}}, nil))

	assert.Equal(t, fiber.StatusForbidden, e.Do(t, fiber.MethodPost, Path, e.admin, createRequest{Name: "late"}, nil))
}
