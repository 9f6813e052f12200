package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
)

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.GetContext(ctx, &seq, `SELECT nextval('receipt_number_seq')`); err != nil {
		return fmt.Errorf("failed to allocate receipt number: %w", err)
	}
	purchase.ReceiptNumber = fmt.Sprintf("OR-%06d", seq)

	purchase.ID = uuid.New()
	purchase.CreatedAt = time.Now()
	purchase.UpdatedAt = time.Now()

	query := `
		INSERT INTO standalone_purchases (
			id, receipt_number, total, amount_tendered, change_given,
			sold_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		purchase.ID,
		purchase.ReceiptNumber,
		purchase.Total,
		purchase.AmountTendered,
		purchase.ChangeGiven,
		purchase.SoldBy,
		purchase.CreatedAt,
		purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	for i := range purchase.Items {
		item := &purchase.Items[i]
		item.ID = uuid.New()
		item.PurchaseID = purchase.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO purchase_items (
				id, purchase_id, product_id, product_name,
				quantity, unit_price, line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, item.ID, item.PurchaseID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to create purchase item: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - $1, updated_at = $2
			WHERE id = $3 AND stock >= $1
		`, item.Quantity, time.Now(), item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("%w for %s", repository.ErrInsufficientStock, item.ProductName)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purchase: %w", err)
	}
	return nil
}

func (r *purchaseRepository) Get(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	query := `
		SELECT id, receipt_number, total, amount_tendered, change_given,
			   sold_by, created_at, updated_at
		FROM standalone_purchases
		WHERE id = $1
	`
	var purchase model.Purchase
	err := r.db.GetContext(ctx, &purchase, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	itemsQuery := `
		SELECT id, purchase_id, product_id, product_name,
			   quantity, unit_price, line_total
		FROM purchase_items
		WHERE purchase_id = $1
	`
	if err := r.db.SelectContext(ctx, &purchase.Items, itemsQuery, purchase.ID); err != nil {
		return nil, fmt.Errorf("failed to load purchase items: %w", err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.Purchase, error) {
	query := `
		SELECT id, receipt_number, total, amount_tendered, change_given,
			   sold_by, created_at, updated_at
		FROM standalone_purchases
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var purchases []*model.Purchase
	err := r.db.SelectContext(ctx, &purchases, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}
