package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartmeal/pantry-service/internal/inventory"
	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/internal/platform/metrics"
	"github.com/smartmeal/pantry-service/internal/scan"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

const (
	lockTTL        = 5 * time.Second
	lockAttempts   = 3
	lockRetryDelay = 100 * time.Millisecond
)

type inventoryUseCase struct {
	repo    inventory.Repository
	locker  inventory.Locker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewInventoryUseCase(repo inventory.Repository, locker inventory.Locker, m *metrics.Metrics, log *zap.Logger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		locker:  locker,
		metrics: m,
		logger:  log,
	}
}

// withItemLock runs fn while holding the per-name lock, so at most one
// mutation is in flight per item name at a time.
func (uc *inventoryUseCase) withItemLock(ctx context.Context, name string, fn func() error) error {
	lockKey := "lock:item:" + name
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire item lock", zap.String("item", name), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(lockRetryDelay)
	}
	if !acquired {
		return apperr.Newf(apperr.CodeInternal, "item %q is busy, try again later", name)
	}
	defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)

	return fn()
}

func (uc *inventoryUseCase) ReconcileScan(ctx context.Context, record *scan.Record) (*model.Item, error) {
	item := &model.Item{
		Name:     record.ItemName,
		Quantity: record.Quantity,
		Day:      record.Day,
		Month:    record.Month,
		Year:     record.Year,
	}

	var updated *model.Item
	err := uc.withItemLock(ctx, record.ItemName, func() error {
		movement := &model.ItemMovement{
			ID:           uuid.New().String(),
			ItemName:     record.ItemName,
			MovementType: model.MovementTypeScan,
			CreatedAt:    time.Now().UTC(),
		}
		var err error
		updated, err = uc.repo.UpsertIncrement(ctx, item, movement)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ScansReconciled.Inc()
	uc.logger.Info("reconciled scan",
		zap.String("item", updated.Name),
		zap.Int("scanned_quantity", record.Quantity),
		zap.Int("quantity_on_hand", updated.Quantity),
		zap.String("expires", fmt.Sprintf("%04d-%02d-%02d", updated.Year, updated.Month, updated.Day)),
	)
	return updated, nil
}

func (uc *inventoryUseCase) Consume(ctx context.Context, input *dto.ConsumeInput) (*dto.DecrementOutcome, error) {
	if input.Name == "" {
		return nil, apperr.New(apperr.CodeFormat, "item name is required")
	}
	if input.Quantity <= 0 {
		return nil, apperr.New(apperr.CodeFormat, "quantity must be a positive integer")
	}

	var outcome *dto.DecrementOutcome
	err := uc.withItemLock(ctx, input.Name, func() error {
		movement := &model.ItemMovement{
			ID:           uuid.New().String(),
			ItemName:     input.Name,
			MovementType: model.MovementTypeConsume,
			CreatedAt:    time.Now().UTC(),
		}
		var err error
		outcome, err = uc.repo.Decrement(ctx, input.Name, input.Quantity, movement)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ItemsConsumed.Inc()
	uc.logger.Info("consumed item",
		zap.String("item", input.Name),
		zap.Int("quantity", input.Quantity),
		zap.Bool("deleted", outcome.Deleted),
		zap.Int("remaining", outcome.NewQuantity),
	)
	return outcome, nil
}

func (uc *inventoryUseCase) ListItems(ctx context.Context) ([]model.Item, error) {
	return uc.repo.FindAll(ctx)
}

func (uc *inventoryUseCase) DeleteItem(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, apperr.New(apperr.CodeFormat, "item name is required")
	}

	var rows int64
	err := uc.withItemLock(ctx, name, func() error {
		var err error
		rows, err = uc.repo.DeleteByName(ctx, name)
		return err
	})
	if err != nil {
		return 0, err
	}

	uc.logger.Info("deleted item", zap.String("item", name), zap.Int64("rows_affected", rows))
	return rows, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.ItemMovement, error) {
	return uc.repo.ListMovements(ctx, f)
}
