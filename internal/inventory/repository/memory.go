package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

// MemoryRepository mirrors the Postgres repository's semantics in-process.
// Used by tests and useful for running the service without a database.
type MemoryRepository struct {
	mu        sync.RWMutex
	items     map[string]model.Item
	movements []model.ItemMovement
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]model.Item)}
}

func (r *MemoryRepository) GetByName(_ context.Context, name string) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *MemoryRepository) UpsertIncrement(_ context.Context, item *model.Item, movement *model.ItemMovement) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := 0
	if existing, ok := r.items[item.Name]; ok {
		before = existing.Quantity
	}

	updated := *item
	updated.Quantity = before + item.Quantity
	r.items[item.Name] = updated

	movement.QuantityChange = item.Quantity
	movement.QuantityBefore = before
	movement.QuantityAfter = updated.Quantity
	r.movements = append(r.movements, *movement)

	return &updated, nil
}

func (r *MemoryRepository) Decrement(_ context.Context, name string, quantity int, movement *model.ItemMovement) (*dto.DecrementOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[name]
	if !ok {
		return nil, apperr.Newf(apperr.CodeNotFound, "item %q not found", name)
	}

	before := existing.Quantity
	outcome := &dto.DecrementOutcome{Name: name}
	newQuantity := before - quantity
	if newQuantity <= 0 {
		delete(r.items, name)
		outcome.Deleted = true
	} else {
		existing.Quantity = newQuantity
		r.items[name] = existing
		outcome.NewQuantity = newQuantity
	}

	movement.QuantityChange = -quantity
	movement.QuantityBefore = before
	movement.QuantityAfter = outcome.NewQuantity
	r.movements = append(r.movements, *movement)

	return outcome, nil
}

func (r *MemoryRepository) DeleteByName(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[name]; !ok {
		return 0, nil
	}
	delete(r.items, name)
	return 1, nil
}

func (r *MemoryRepository) ListMovements(_ context.Context, f *dto.MovementFilters) ([]model.ItemMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movements := []model.ItemMovement{}
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if f.ItemName != "" && m.ItemName != f.ItemName {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		movements = append(movements, m)
		if f.Limit > 0 && len(movements) == f.Limit {
			break
		}
	}
	return movements, nil
}
