package counter_test

import (
	"context"
	"sync"
	"testing"

	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepository_GetNextValue(t *testing.T) {
	ctx := context.Background()

	t.Run("starts at one and increments per tenant", func(t *testing.T) {
		db := testdb.Open(t, &counter.CompanyCounter{})
		repo := counter.NewRepository(db)

		v1, err := repo.GetNextValue(ctx, 1, counter.TypeEmployeeCode)
		require.NoError(t, err)
		v2, err := repo.GetNextValue(ctx, 1, counter.TypeEmployeeCode)
		require.NoError(t, err)
		other, err := repo.GetNextValue(ctx, 2, counter.TypeEmployeeCode)
		require.NoError(t, err)

		assert.Equal(t, int64(1), v1)
		assert.Equal(t, int64(2), v2)
		assert.Equal(t, int64(1), other)
	})

	t.Run("rolled back increments are discarded", func(t *testing.T) {
		db := testdb.Open(t, &counter.CompanyCounter{})
		repo := counter.NewRepository(db)

		_ = db.Transaction(func(tx *gorm.DB) error {
			_, err := repo.WithTx(tx).GetNextValue(ctx, 1, counter.TypeEmployeeCode)
			require.NoError(t, err)
			return assert.AnError
		})

		v, err := repo.GetNextValue(ctx, 1, counter.TypeEmployeeCode)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
	})

	t.Run("concurrent callers get distinct values", func(t *testing.T) {
		db := testdb.Open(t, &counter.CompanyCounter{})
		repo := counter.NewRepository(db)

		const n = 20
		var wg sync.WaitGroup
		values := make(chan int64, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := repo.GetNextValue(ctx, 9, counter.TypeEmployeeCode)
				assert.NoError(t, err)
				values <- v
			}()
		}
		wg.Wait()
		close(values)

		seen := map[int64]bool{}
		for v := range values {
			assert.False(t, seen[v], "duplicate value %d", v)
			seen[v] = true
		}
		assert.Len(t, seen, n)
	})
}
