package inventory

import (
	"context"
	"time"

	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/model"
)

type Repository interface {
	// GetByName returns nil when the item is absent.
	GetByName(ctx context.Context, name string) (*model.Item, error)

	// FindAll returns the whole inventory ordered by name.
	FindAll(ctx context.Context) ([]model.Item, error)

	// UpsertIncrement creates the item or adds item.Quantity to the stored
	// quantity, replacing the stored expiration with the incoming one. The
	// movement's before/after fields are filled inside the transaction.
	UpsertIncrement(ctx context.Context, item *model.Item, movement *model.ItemMovement) (*model.Item, error)

	// Decrement subtracts quantity from the named item, deleting it when the
	// result is zero or below so a non-positive quantity is never stored.
	// Fails with a not_found error when the item is absent.
	Decrement(ctx context.Context, name string, quantity int, movement *model.ItemMovement) (*dto.DecrementOutcome, error)

	// DeleteByName removes the item unconditionally and reports rows
	// affected; 0 on a miss, not an error.
	DeleteByName(ctx context.Context, name string) (int64, error)

	ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.ItemMovement, error)
}

// Locker serializes mutations per item name so concurrent scans and
// consumptions of the same item cannot race on the read-modify-write.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
