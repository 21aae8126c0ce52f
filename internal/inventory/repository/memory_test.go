package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

func scanMovement(name string) *model.ItemMovement {
	return &model.ItemMovement{ID: uuid.New().String(), ItemName: name, MovementType: model.MovementTypeScan}
}

func consumeMovement(name string) *model.ItemMovement {
	return &model.ItemMovement{ID: uuid.New().String(), ItemName: name, MovementType: model.MovementTypeConsume}
}

func TestUpsertIncrement_CreatesThenAdds(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	first, err := repo.UpsertIncrement(ctx, &model.Item{Name: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024}, scanMovement("Eggs"))
	require.NoError(t, err)
	assert.Equal(t, 6, first.Quantity)

	// Second scan: quantities sum, the newest expiration wins.
	second, err := repo.UpsertIncrement(ctx, &model.Item{Name: "Eggs", Quantity: 6, Day: 15, Month: 10, Year: 2024}, scanMovement("Eggs"))
	require.NoError(t, err)
	assert.Equal(t, 12, second.Quantity)
	assert.Equal(t, 15, second.Day)
	assert.Equal(t, 10, second.Month)
	assert.Equal(t, 2024, second.Year)

	stored, err := repo.GetByName(ctx, "Eggs")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 12, stored.Quantity)
	assert.Equal(t, 10, stored.Month)
}

func TestDecrement_RemovesAtZero(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.UpsertIncrement(ctx, &model.Item{Name: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024}, scanMovement("Eggs"))
	require.NoError(t, err)

	outcome, err := repo.Decrement(ctx, "Eggs", 6, consumeMovement("Eggs"))
	require.NoError(t, err)
	assert.True(t, outcome.Deleted)

	stored, err := repo.GetByName(ctx, "Eggs")
	require.NoError(t, err)
	assert.Nil(t, stored, "item must be removed, not kept at quantity 0")
}

func TestDecrement_PartialLeavesRemainder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.UpsertIncrement(ctx, &model.Item{Name: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024}, scanMovement("Eggs"))
	require.NoError(t, err)

	outcome, err := repo.Decrement(ctx, "Eggs", 4, consumeMovement("Eggs"))
	require.NoError(t, err)
	assert.False(t, outcome.Deleted)
	assert.Equal(t, 2, outcome.NewQuantity)
}

func TestDecrement_OverdrawDeletes(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.UpsertIncrement(ctx, &model.Item{Name: "Eggs", Quantity: 2, Day: 1, Month: 9, Year: 2024}, scanMovement("Eggs"))
	require.NoError(t, err)

	outcome, err := repo.Decrement(ctx, "Eggs", 5, consumeMovement("Eggs"))
	require.NoError(t, err)
	assert.True(t, outcome.Deleted)
}

func TestDecrement_AbsentItem(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Decrement(context.Background(), "Tofu", 1, consumeMovement("Tofu"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestDeleteByName_MissIsNotAnError(t *testing.T) {
	repo := NewMemoryRepository()

	rows, err := repo.DeleteByName(context.Background(), "Nonexistent")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestFindAll_OrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	for _, name := range []string{"Yogurt", "Apples", "Milk"} {
		_, err := repo.UpsertIncrement(ctx, &model.Item{Name: name, Quantity: 1, Day: 1, Month: 1, Year: 2025}, scanMovement(name))
		require.NoError(t, err)
	}

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Apples", items[0].Name)
	assert.Equal(t, "Milk", items[1].Name)
	assert.Equal(t, "Yogurt", items[2].Name)
}

func TestMovements_RecordBeforeAndAfter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.UpsertIncrement(ctx, &model.Item{Name: "Eggs", Quantity: 6, Day: 1, Month: 9, Year: 2024}, scanMovement("Eggs"))
	require.NoError(t, err)
	_, err = repo.Decrement(ctx, "Eggs", 4, consumeMovement("Eggs"))
	require.NoError(t, err)

	movements, err := repo.ListMovements(ctx, &dto.MovementFilters{ItemName: "Eggs"})
	require.NoError(t, err)
	require.Len(t, movements, 2)

	// Newest first.
	consumeM := movements[0]
	assert.Equal(t, model.MovementTypeConsume, consumeM.MovementType)
	assert.Equal(t, -4, consumeM.QuantityChange)
	assert.Equal(t, 6, consumeM.QuantityBefore)
	assert.Equal(t, 2, consumeM.QuantityAfter)

	scanM := movements[1]
	assert.Equal(t, model.MovementTypeScan, scanM.MovementType)
	assert.Equal(t, 6, scanM.QuantityChange)
	assert.Equal(t, 0, scanM.QuantityBefore)
	assert.Equal(t, 6, scanM.QuantityAfter)
}
