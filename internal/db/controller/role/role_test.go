package role

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/access"
	"github.com/GoBazaar/GoBazaar/internal/db/dbtest"
	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

func add(types ...access.Type) MutateFunc {
	return func(current access.Set) access.Set {
		return current.Union(access.NewSet(types...))
	}
}

func remove(types ...access.Type) MutateFunc {
	return func(current access.Set) access.Set {
		return current.Difference(access.NewSet(types...))
	}
}

func assertInvariant(t *testing.T, r *models.Role) {
	t.Helper()

	s := r.AccessSet()
	others := s.Difference(access.NewSet(access.ReadAccess))
	assert.Equal(t, others.Len() > 0, s.Has(access.ReadAccess), "accesses %v", s.Strings())
}

func TestNilDB(t *testing.T) {
	ctx := context.Background()

	_, err := Create(ctx, nil, "x", access.NewSet())
	require.ErrorIs(t, err, ErrDBNil)
	_, err = GetByID(ctx, nil, "x")
	require.ErrorIs(t, err, ErrDBNil)
	_, err = List(ctx, nil)
	require.ErrorIs(t, err, ErrDBNil)
	_, err = Delete(ctx, nil, "x")
	require.ErrorIs(t, err, ErrDBNil)
	_, err = Mutate(ctx, nil, "x", add(access.CreateBrand))
	require.ErrorIs(t, err, ErrDBNil)
	_, err = Rename(ctx, nil, "x", "y")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		accesses access.Set
		want     access.Set
	}{
		{name: "empty", accesses: access.NewSet(), want: access.NewSet()},
		{name: "read access only is dropped", accesses: access.NewSet(access.ReadAccess), want: access.NewSet()},
		{
			name:     "grant adds read access",
			accesses: access.NewSet(access.CreateBrand),
			want:     access.NewSet(access.CreateBrand, access.ReadAccess),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := dbtest.New(t)
			ctx := context.Background()

			created, err := Create(ctx, db, "editor", tc.accesses)
			require.NoError(t, err)
			require.NotEmpty(t, created.ID)
			assert.True(t, created.AccessSet().Equal(tc.want))

			loaded, err := GetByID(ctx, db, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "editor", loaded.Name)
			assert.True(t, loaded.AccessSet().Equal(tc.want), loaded.AccessSet().Strings())
			assertInvariant(t, loaded)
		})
	}
}

func TestCreateDuplicateName(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	first, err := Create(ctx, db, "editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)

	_, err = Create(ctx, db, "editor", access.NewSet(access.DeleteUser))
	require.ErrorIs(t, err, ErrDuplicateName)

	loaded, err := GetByID(ctx, db, first.ID)
	require.NoError(t, err)
	assert.True(t, loaded.AccessSet().Equal(access.NewSet(access.CreateBrand, access.ReadAccess)))

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateNameIsCaseSensitive(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	_, err := Create(ctx, db, "Editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)

	_, err = Create(ctx, db, "editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)

	_, err = Create(ctx, db, "Editor", access.NewSet(access.DeleteBrand))
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestGetByIDNotFound(t *testing.T) {
	db := dbtest.New(t)

	_, err := GetByID(context.Background(), db, "missing")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestList(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	for _, name := range []string{"support", "admin", "moderator"} {
		_, err := Create(ctx, db, name, access.NewSet(access.UpdateUser))
		require.NoError(t, err)
	}

	roles, err := List(ctx, db)
	require.NoError(t, err)
	require.Len(t, roles, 3)

	names := []string{roles[0].Name, roles[1].Name, roles[2].Name}
	assert.Equal(t, []string{"admin", "moderator", "support"}, names)

	for i := range roles {
		assert.Equal(t, 2, roles[i].AccessSet().Len())
	}

	again, err := List(ctx, db)
	require.NoError(t, err)
	assert.Len(t, again, 3)
}

func TestMutate(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	r, err := Create(ctx, db, "editor", access.NewSet())
	require.NoError(t, err)

	steps := []struct {
		name string
		fn   MutateFunc
		want access.Set
	}{
		{
			name: "add two",
			fn:   add(access.CreateBrand, access.DeleteBrand),
			want: access.NewSet(access.CreateBrand, access.DeleteBrand, access.ReadAccess),
		},
		{
			name: "add existing is a no-op",
			fn:   add(access.CreateBrand),
			want: access.NewSet(access.CreateBrand, access.DeleteBrand, access.ReadAccess),
		},
		{
			name: "remove one",
			fn:   remove(access.CreateBrand),
			want: access.NewSet(access.DeleteBrand, access.ReadAccess),
		},
		{
			name: "remove absent is a no-op",
			fn:   remove(access.CreateBrand),
			want: access.NewSet(access.DeleteBrand, access.ReadAccess),
		},
		{
			name: "removing read access alone is repaired",
			fn:   remove(access.ReadAccess),
			want: access.NewSet(access.DeleteBrand, access.ReadAccess),
		},
		{
			name: "removing the last grant drops read access",
			fn:   remove(access.DeleteBrand),
			want: access.NewSet(),
		},
		{
			name: "adding read access alone is dropped",
			fn:   add(access.ReadAccess),
			want: access.NewSet(),
		},
	}

	for _, step := range steps {
		got, err := Mutate(ctx, db, r.ID, step.fn)
		require.NoError(t, err, step.name)
		assert.True(t, got.AccessSet().Equal(step.want), "%s: returned %v", step.name, got.AccessSet().Strings())

		loaded, err := GetByID(ctx, db, r.ID)
		require.NoError(t, err)
		assert.True(t, loaded.AccessSet().Equal(step.want), "%s: stored %v", step.name, loaded.AccessSet().Strings())
		assertInvariant(t, loaded)
	}
}

func TestMutateNotFound(t *testing.T) {
	db := dbtest.New(t)

	_, err := Mutate(context.Background(), db, "missing", add(access.CreateBrand))
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestMutateCanceledContextWritesNothing(t *testing.T) {
	db := dbtest.New(t)

	r, err := Create(context.Background(), db, "editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Mutate(ctx, db, r.ID, add(access.DeleteUser))
	require.Error(t, err)

	loaded, err := GetByID(context.Background(), db, r.ID)
	require.NoError(t, err)
	assert.False(t, loaded.AccessSet().Has(access.DeleteUser))
}

func TestConcurrentMutateKeepsBothGrants(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	r, err := Create(ctx, db, "editor", access.NewSet())
	require.NoError(t, err)

	grants := []access.Type{
		access.CreateBrand, access.DeleteBrand, access.CreateModel, access.UpdateModel,
		access.DeleteModel, access.UpdateUser, access.DeleteUser, access.CreateCategory,
	}

	var wg sync.WaitGroup

	errs := make(chan error, len(grants))

	for _, g := range grants {
		wg.Add(1)

		go func(g access.Type) {
			defer wg.Done()

			_, err := Mutate(ctx, db, r.ID, add(g))
			errs <- err
		}(g)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	loaded, err := GetByID(ctx, db, r.ID)
	require.NoError(t, err)

	want := access.NewSet(grants...).Union(access.NewSet(access.ReadAccess))
	assert.True(t, loaded.AccessSet().Equal(want), loaded.AccessSet().Strings())
}

func TestRename(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	editor, err := Create(ctx, db, "editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)
	_, err = Create(ctx, db, "support", access.NewSet())
	require.NoError(t, err)

	renamed, err := Rename(ctx, db, editor.ID, "catalog editor")
	require.NoError(t, err)
	assert.Equal(t, "catalog editor", renamed.Name)
	assert.True(t, renamed.AccessSet().Has(access.CreateBrand))

	same, err := Rename(ctx, db, editor.ID, "catalog editor")
	require.NoError(t, err)
	assert.Equal(t, "catalog editor", same.Name)

	_, err = Rename(ctx, db, editor.ID, "support")
	require.ErrorIs(t, err, ErrDuplicateName)

	_, err = Rename(ctx, db, "missing", "whatever")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeleteUnassignsUsers(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	editor, err := Create(ctx, db, "editor", access.NewSet(access.CreateBrand))
	require.NoError(t, err)
	other, err := Create(ctx, db, "other", access.NewSet(access.DeleteUser))
	require.NoError(t, err)

	users := []models.User{
		{Name: "a", Email: "a@example.com", RoleID: &editor.ID},
		{Name: "b", Email: "b@example.com", RoleID: &editor.ID},
		{Name: "c", Email: "c@example.com", RoleID: &other.ID},
	}
	require.NoError(t, db.Create(&users).Error)

	deleted, err := Delete(ctx, db, editor.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor", deleted.Name)
	assert.True(t, deleted.AccessSet().Has(access.CreateBrand))

	_, err = GetByID(ctx, db, editor.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)

	var orphaned int64
	require.NoError(t, db.Model(&models.RoleAccess{}).Where("role_id = ?", editor.ID).Count(&orphaned).Error)
	assert.Zero(t, orphaned)

	var reloaded []models.User
	require.NoError(t, db.Order("id").Find(&reloaded).Error)
	require.Len(t, reloaded, 3)
	assert.Nil(t, reloaded[0].RoleID)
	assert.Nil(t, reloaded[1].RoleID)
	require.NotNil(t, reloaded[2].RoleID)
	assert.Equal(t, other.ID, *reloaded[2].RoleID)

	_, err = Delete(ctx, db, editor.ID)
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrRoleNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrDuplicateName)
	assert.ErrorIs(t, translate(gorm.ErrInvalidData), gorm.ErrInvalidData)
}
