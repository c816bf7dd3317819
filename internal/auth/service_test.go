package auth

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/db/controller/role"
	"github.com/GoBazaar/GoBazaar/internal/db/dbtest"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	editor   *models.Role
	withRole models.User
	noRole   models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.New(t)

	editor, err := role.Create(context.Background(), db, "editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)

	f := &fixture{
		db:       db,
		svc:      NewService(db, time.Second),
		editor:   editor,
		withRole: models.User{Name: "ed", Email: "ed@example.com", RoleID: &editor.ID},
		noRole:   models.User{Name: "nobody", Email: "nobody@example.com"},
	}

	require.NoError(t, db.Create(&f.withRole).Error)
	require.NoError(t, db.Create(&f.noRole).Error)

	return f
}

func TestPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.svc.Permissions(ctx, f.withRole.ID)
	require.NoError(t, err)
	assert.True(t, got.Equal(access.NewSet(access.CreateBrand, access.ReadAccess)), got.Strings())

	got, err = f.svc.Permissions(ctx, f.noRole.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Len())

	_, err = f.svc.Permissions(ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestPermissionsIgnoresUnknownStoredValues(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Create(&models.RoleAccess{RoleID: f.editor.ID, Access: "retired"}).Error)

	got, err := f.svc.Permissions(context.Background(), f.withRole.ID)
	require.NoError(t, err)
	assert.False(t, got.Has("retired"))
	assert.True(t, got.Has(access.CreateBrand))
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	allowBefore := testutil.ToFloat64(decisionsTotal.WithLabelValues(resultAllow))
	denyBefore := testutil.ToFloat64(decisionsTotal.WithLabelValues(resultDeny))
	errorBefore := testutil.ToFloat64(decisionsTotal.WithLabelValues(resultError))

	assert.True(t, f.svc.Authorize(ctx, f.withRole.ID, access.Require(access.CreateBrand)).Allowed)

	d := f.svc.Authorize(ctx, f.withRole.ID, access.Require(access.CreateBrand, access.DeleteBrand))
	assert.False(t, d.Allowed)
	assert.True(t, d.Missing.Equal(access.NewSet(access.DeleteBrand)))

	d = f.svc.Authorize(ctx, f.noRole.ID, access.Require(access.ReadAccess))
	assert.False(t, d.Allowed)

	d = f.svc.Authorize(ctx, 999, access.Require(access.ReadAccess))
	assert.False(t, d.Allowed)
	require.ErrorIs(t, d.Err, ErrUserNotFound)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	d = f.svc.Authorize(canceled, f.withRole.ID, access.Require(access.CreateBrand))
	assert.False(t, d.Allowed)
	require.Error(t, d.Err)

	assert.InDelta(t, allowBefore+1, testutil.ToFloat64(decisionsTotal.WithLabelValues(resultAllow)), 0)
	assert.InDelta(t, denyBefore+2, testutil.ToFloat64(decisionsTotal.WithLabelValues(resultDeny)), 0)
	assert.InDelta(t, errorBefore+2, testutil.ToFloat64(decisionsTotal.WithLabelValues(resultError)), 0)
}

func TestAuthorizeAfterRoleDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.True(t, f.svc.Authorize(ctx, f.withRole.ID, access.Require(access.CreateBrand)).Allowed)

	_, err := role.Delete(ctx, f.db, f.editor.ID)
	require.NoError(t, err)

	got, err := f.svc.Permissions(ctx, f.withRole.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
	assert.False(t, f.svc.Authorize(ctx, f.withRole.ID, access.Require(access.CreateBrand)).Allowed)
}

func TestAuthorizeSeesMutationsOnNextCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := access.Require(access.DeleteUser)
	require.False(t, f.svc.Authorize(ctx, f.withRole.ID, req).Allowed)

	_, err := role.Mutate(ctx, f.db, f.editor.ID, func(s access.Set) access.Set {
		return s.Union(access.NewSet(access.DeleteUser))
	})
	require.NoError(t, err)

	assert.True(t, f.svc.Authorize(ctx, f.withRole.ID, req).Allowed)
	assert.True(t, f.svc.Has(ctx, f.withRole.ID, access.ReadAccess))
	assert.False(t, f.svc.Has(ctx, f.noRole.ID, access.ReadAccess))
}
