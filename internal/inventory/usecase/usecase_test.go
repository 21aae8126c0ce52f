package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/inventory"
	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/inventory/repository"
	"github.com/smartmeal/pantry-service/internal/platform/metrics"
	"github.com/smartmeal/pantry-service/internal/scan"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

// noopLocker always grants the lock; lock contention is covered by the cache
// layer, not these tests.
type noopLocker struct{}

func (noopLocker) AcquireLock(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
func (noopLocker) ReleaseLock(context.Context, string, string) error { return nil }

func newUseCase(t *testing.T) (inventory.UseCase, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	m := metrics.NewWith(prometheus.NewRegistry())
	return NewInventoryUseCase(repo, noopLocker{}, m, zap.NewNop()), repo
}

func TestReconcileScan_AdditiveWithExpirationReplace(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(t)

	item, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)

	item, err = uc.ReconcileScan(ctx, &scan.Record{ItemName: "Eggs", Quantity: 6, Day: 20, Month: 11, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 12, item.Quantity)
	assert.Equal(t, 20, item.Day)
	assert.Equal(t, 11, item.Month)

	stored, err := repo.GetByName(ctx, "Eggs")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 12, stored.Quantity)
	assert.Equal(t, 11, stored.Month, "latest scan's expiration must win")
}

func TestConsume_ExactQuantityDeletes(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(t)

	_, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024})
	require.NoError(t, err)

	outcome, err := uc.Consume(ctx, &dto.ConsumeInput{Name: "Eggs", Quantity: 6})
	require.NoError(t, err)
	assert.True(t, outcome.Deleted)

	stored, err := repo.GetByName(ctx, "Eggs")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestConsume_PartialQuantityRemains(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	_, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024})
	require.NoError(t, err)

	outcome, err := uc.Consume(ctx, &dto.ConsumeInput{Name: "Eggs", Quantity: 4})
	require.NoError(t, err)
	assert.False(t, outcome.Deleted)
	assert.Equal(t, 2, outcome.NewQuantity)
}

func TestConsume_AbsentItemIsNotFound(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Consume(context.Background(), &dto.ConsumeInput{Name: "Tofu", Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestConsume_RejectsNonPositiveQuantity(t *testing.T) {
	uc, _ := newUseCase(t)

	for _, quantity := range []int{0, -3} {
		_, err := uc.Consume(context.Background(), &dto.ConsumeInput{Name: "Eggs", Quantity: quantity})
		require.Error(t, err)
		assert.Equal(t, apperr.CodeFormat, apperr.CodeOf(err))
	}
}

// Any interleaving of reconcile and consume must leave only positive
// quantities behind.
func TestStoreInvariant_PositiveQuantities(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(t)

	steps := []func() error{
		func() error {
			_, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Milk", Quantity: 2, Day: 5, Month: 9, Year: 2024})
			return err
		},
		func() error {
			_, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024})
			return err
		},
		func() error {
			_, err := uc.Consume(ctx, &dto.ConsumeInput{Name: "Milk", Quantity: 1})
			return err
		},
		func() error {
			_, err := uc.Consume(ctx, &dto.ConsumeInput{Name: "Eggs", Quantity: 9})
			return err
		},
		func() error {
			_, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Milk", Quantity: 3, Day: 8, Month: 9, Year: 2024})
			return err
		},
	}

	for _, step := range steps {
		require.NoError(t, step())

		items, err := repo.FindAll(ctx)
		require.NoError(t, err)
		for _, item := range items {
			assert.Greater(t, item.Quantity, 0, "item %s", item.Name)
		}
	}
}

func TestDeleteItem_ReportsRowsAffected(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	_, err := uc.ReconcileScan(ctx, &scan.Record{ItemName: "Milk", Quantity: 2, Day: 5, Month: 9, Year: 2024})
	require.NoError(t, err)

	rows, err := uc.DeleteItem(ctx, "Milk")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = uc.DeleteItem(ctx, "Milk")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows, "a miss reports zero rows, not an error")
}
