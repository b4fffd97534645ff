package user_test

import (
	"context"
	"testing"

	"go-hrms/internal/shared/testdb"
	"go-hrms/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestRepository_SetActiveByEmployee(t *testing.T) {
	db := testdb.Open(t, &user.User{})
	repo := user.NewRepository(db)
	ctx := context.Background()

	linked := &user.User{CompanyID: 1, EmployeeID: uintPtr(10), Email: "a@x.com", Username: "emp1-00000001", FullName: "A", PasswordHash: "h", Role: user.RoleEmployee, IsActive: true}
	otherTenant := &user.User{CompanyID: 2, EmployeeID: uintPtr(11), Email: "b@x.com", Username: "emp2-00000001", FullName: "B", PasswordHash: "h", Role: user.RoleEmployee, IsActive: true}
	require.NoError(t, repo.Create(ctx, linked))
	require.NoError(t, repo.Create(ctx, otherTenant))

	t.Run("deactivates the linked account", func(t *testing.T) {
		require.NoError(t, repo.SetActiveByEmployee(ctx, 1, 10, false))

		got, err := repo.FindByID(ctx, linked.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("other tenant untouched", func(t *testing.T) {
		require.NoError(t, repo.SetActiveByEmployee(ctx, 1, 11, false))

		got, err := repo.FindByID(ctx, otherTenant.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})

	t.Run("missing account is not an error", func(t *testing.T) {
		assert.NoError(t, repo.SetActiveByEmployee(ctx, 1, 999, true))
	})
}

func TestRepository_Lookups(t *testing.T) {
	db := testdb.Open(t, &user.User{})
	repo := user.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &user.User{CompanyID: 1, Email: "admin@x.com", Username: "admin1", FullName: "Admin", PasswordHash: "h", Role: user.RoleAdmin, IsActive: true}))

	got, err := repo.FindByUsername(ctx, "admin1")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	exists, err := repo.ExistsByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.Error(t, err)
}
