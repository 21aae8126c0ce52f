package inventory

import (
	"context"

	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/internal/scan"
)

type UseCase interface {
	// ReconcileScan merges a scanned restocking event into the inventory.
	// The sole additive path: existing items gain the scanned quantity and
	// take the scanned expiration; absent items are created.
	ReconcileScan(ctx context.Context, record *scan.Record) (*model.Item, error)

	// Consume applies a manual "I used N of this" event. Absence of the item
	// is a user-facing not_found error, never an implicit create.
	Consume(ctx context.Context, input *dto.ConsumeInput) (*dto.DecrementOutcome, error)

	ListItems(ctx context.Context) ([]model.Item, error)
	DeleteItem(ctx context.Context, name string) (int64, error)
	ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.ItemMovement, error)
}
