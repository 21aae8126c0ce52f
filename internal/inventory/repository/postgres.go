package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/smartmeal/pantry-service/internal/inventory/dto"
	"github.com/smartmeal/pantry-service/internal/model"
	"github.com/smartmeal/pantry-service/pkg/apperr"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByName(ctx context.Context, name string) (*model.Item, error) {
	var item model.Item
	err := r.DB.GetContext(ctx, &item, `SELECT * FROM items WHERE name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // absent; callers decide whether that is an error
		}
		return nil, apperr.Wrap(apperr.CodePersistence, "get item", err)
	}
	return &item, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Item, error) {
	items := []model.Item{}
	err := r.DB.SelectContext(ctx, &items, `SELECT * FROM items ORDER BY name`)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "list items", err)
	}
	return items, nil
}

func (r *PGRepository) UpsertIncrement(ctx context.Context, item *model.Item, movement *model.ItemMovement) (*model.Item, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "begin tx", err)
	}
	defer tx.Rollback()

	// Additive on quantity, last-write on the expiration columns: the newest
	// scan's expiration wins.
	query := `
        INSERT INTO items (name, quantity, day, month, year)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (name) DO UPDATE SET
            quantity = items.quantity + EXCLUDED.quantity,
            day = EXCLUDED.day,
            month = EXCLUDED.month,
            year = EXCLUDED.year
        RETURNING quantity
    `
	var after int
	err = tx.QueryRowxContext(ctx, query, item.Name, item.Quantity, item.Day, item.Month, item.Year).Scan(&after)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "upsert item", err)
	}

	movement.QuantityChange = item.Quantity
	movement.QuantityBefore = after - item.Quantity
	movement.QuantityAfter = after
	if err := insertMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "commit upsert", err)
	}

	updated := *item
	updated.Quantity = after
	return &updated, nil
}

func (r *PGRepository) Decrement(ctx context.Context, name string, quantity int, movement *model.ItemMovement) (*dto.DecrementOutcome, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "begin tx", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.GetContext(ctx, &current, `SELECT quantity FROM items WHERE name = $1 FOR UPDATE`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Newf(apperr.CodeNotFound, "item %q not found", name)
		}
		return nil, apperr.Wrap(apperr.CodePersistence, "lock item row", err)
	}

	outcome := &dto.DecrementOutcome{Name: name}
	newQuantity := current - quantity
	if newQuantity <= 0 {
		// Never leave a zero or negative quantity behind.
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE name = $1`, name); err != nil {
			return nil, apperr.Wrap(apperr.CodePersistence, "delete drained item", err)
		}
		outcome.Deleted = true
	} else {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET quantity = $2 WHERE name = $1`, name, newQuantity); err != nil {
			return nil, apperr.Wrap(apperr.CodePersistence, "update quantity", err)
		}
		outcome.NewQuantity = newQuantity
	}

	movement.QuantityChange = -quantity
	movement.QuantityBefore = current
	movement.QuantityAfter = outcome.NewQuantity
	if err := insertMovement(ctx, tx, movement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "commit decrement", err)
	}
	return outcome, nil
}

func (r *PGRepository) DeleteByName(ctx context.Context, name string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE name = $1`, name)
	if err != nil {
		return 0, apperr.Wrap(apperr.CodePersistence, "delete item", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperr.Wrap(apperr.CodePersistence, "delete item", err)
	}
	return rows, nil
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.ItemMovement, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ItemName != "" {
		conditions = append(conditions, "item_name = :item_name")
		args["item_name"] = f.ItemName
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}

	query := "SELECT * FROM item_movements"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT :limit"
		args["limit"] = f.Limit
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "list movements", err)
	}
	defer nstmt.Close()

	movements := []model.ItemMovement{}
	if err := nstmt.SelectContext(ctx, &movements, args); err != nil {
		return nil, apperr.Wrap(apperr.CodePersistence, "list movements", err)
	}
	return movements, nil
}

func insertMovement(ctx context.Context, tx *sqlx.Tx, m *model.ItemMovement) error {
	query := `
        INSERT INTO item_movements (
            id, item_name, movement_type,
            quantity_change, quantity_before, quantity_after, created_at
        )
        VALUES (
            :id, :item_name, :movement_type,
            :quantity_change, :quantity_before, :quantity_after, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return apperr.Wrap(apperr.CodePersistence, "log movement", err)
	}
	return nil
}
