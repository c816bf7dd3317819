package login

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/web/handler/handlertest"
)

func newEnv(t *testing.T) *handlertest.Env {
	t.Helper()

	env := handlertest.New(t)
	require.NoError(t, (&Service{}).Init(env.App, env.Deps))

	return env
}

func TestInitRejectsMissingDeps(t *testing.T) {
	env := handlertest.New(t)

	require.Error(t, (&Service{}).Init(nil, env.Deps))
	require.Error(t, (&Service{}).Init(env.App, nil))
}

func TestLogin(t *testing.T) {
	env := newEnv(t)
	env.User(t, "ed@example.com", access.CreateBrand)

	testCases := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "valid", body: credentials{Email: "ed@example.com", Password: handlertest.Password}, wantStatus: fiber.StatusOK},
		{name: "email is case insensitive", body: credentials{Email: " ED@example.com", Password: handlertest.Password}, wantStatus: fiber.StatusOK},
		{name: "wrong password", body: credentials{Email: "ed@example.com", Password: "nope"}, wantStatus: fiber.StatusUnauthorized},
		{name: "unknown email", body: credentials{Email: "who@example.com", Password: handlertest.Password}, wantStatus: fiber.StatusUnauthorized},
		{name: "missing fields", body: credentials{Email: "ed@example.com"}, wantStatus: fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out tokenResponse

			status := env.Do(t, fiber.MethodPost, Path, "", tc.body, &out)
			require.Equal(t, tc.wantStatus, status)

			if tc.wantStatus == fiber.StatusOK {
				assert.NotEmpty(t, out.Token)
				assert.False(t, out.ExpiresAt.IsZero())
			}
		})
	}
}

func TestLoginTokenOpensMe(t *testing.T) {
	env := newEnv(t)
	env.User(t, "ed@example.com", access.CreateBrand)

	var tok tokenResponse
	require.Equal(t, fiber.StatusOK,
		env.Do(t, fiber.MethodPost, Path, "", credentials{Email: "ed@example.com", Password: handlertest.Password}, &tok))

	var me meResponse
	require.Equal(t, fiber.StatusOK, env.Do(t, fiber.MethodGet, MePath, "Bearer "+tok.Token, nil, &me))

	assert.Equal(t, "ed@example.com", me.User.Email)
	assert.Equal(t, []string{string(access.ReadAccess), string(access.CreateBrand)}, me.Accesses)
	require.NotNil(t, me.User.Role)
	assert.Equal(t, me.Accesses, me.User.Role.Accesses)
}

func TestMe(t *testing.T) {
	env := newEnv(t)
	_, plain := env.User(t, "plain@example.com")

	var me meResponse
	require.Equal(t, fiber.StatusOK, env.Do(t, fiber.MethodGet, MePath, plain, nil, &me))
	assert.Empty(t, me.Accesses)
	assert.Nil(t, me.User.RoleID)

	assert.Equal(t, fiber.StatusUnauthorized, env.Do(t, fiber.MethodGet, MePath, "", nil, nil))

	ghost, _, err := env.Deps.Issuer.Issue(4242)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, env.Do(t, fiber.MethodGet, MePath, "Bearer "+ghost, nil, nil))
}

func TestChangePassword(t *testing.T) {
	env := newEnv(t)
	_, bearer := env.User(t, "ed@example.com")

	testCases := []struct {
		name       string
		body       passwordChange
		wantStatus int
	}{
		{name: "too short", body: passwordChange{OldPassword: handlertest.Password, NewPassword: "short"}, wantStatus: fiber.StatusBadRequest},
		{name: "wrong old password", body: passwordChange{OldPassword: "nope", NewPassword: "long enough"}, wantStatus: fiber.StatusBadRequest},
		{name: "changed", body: passwordChange{OldPassword: handlertest.Password, NewPassword: "long enough"}, wantStatus: fiber.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, env.Do(t, fiber.MethodPut, MePath+"/password", bearer, tc.body, nil))
		})
	}

	assert.Equal(t, fiber.StatusUnauthorized,
		env.Do(t, fiber.MethodPost, Path, "", credentials{Email: "ed@example.com", Password: handlertest.Password}, nil))
	assert.Equal(t, fiber.StatusOK,
		env.Do(t, fiber.MethodPost, Path, "", credentials{Email: "ed@example.com", Password: "long enough"}, nil))
}
