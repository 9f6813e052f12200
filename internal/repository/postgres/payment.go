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

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.GetContext(ctx, &seq, `SELECT nextval('receipt_number_seq')`); err != nil {
		return fmt.Errorf("failed to allocate receipt number: %w", err)
	}
	payment.ReceiptNumber = fmt.Sprintf("OR-%06d", seq)

	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	query := `
		INSERT INTO payments (
			id, appointment_id, receipt_number, amount_due, amount_tendered,
			change_given, method, collected_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.ReceiptNumber,
		payment.AmountDue,
		payment.AmountTendered,
		payment.ChangeGiven,
		payment.Method,
		payment.CollectedBy,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	for i := range payment.Offerings {
		item := &payment.Offerings[i]
		item.ID = uuid.New()
		item.PaymentID = payment.ID
		item.CreatedAt = payment.CreatedAt

		_, err = tx.ExecContext(ctx, `
			INSERT INTO offering_items (id, payment_id, description, amount, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.PaymentID, item.Description, item.Amount, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create offering item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT id, appointment_id, receipt_number, amount_due, amount_tendered,
			   change_given, method, collected_by, created_at, updated_at
		FROM payments
		WHERE id = $1
	`
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	if err := r.loadOfferings(ctx, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	query := `
		SELECT id, appointment_id, receipt_number, amount_due, amount_tendered,
			   change_given, method, collected_by, created_at, updated_at
		FROM payments
		WHERE appointment_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, query, appointmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment for appointment: %w", err)
	}

	if err := r.loadOfferings(ctx, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.Payment, error) {
	query := `
		SELECT id, appointment_id, receipt_number, amount_due, amount_tendered,
			   change_given, method, collected_by, created_at, updated_at
		FROM payments
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var payments []*model.Payment
	err := r.db.SelectContext(ctx, &payments, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) loadOfferings(ctx context.Context, payment *model.Payment) error {
	query := `
		SELECT id, payment_id, description, amount, created_at
		FROM offering_items
		WHERE payment_id = $1
		ORDER BY created_at ASC
	`
	if err := r.db.SelectContext(ctx, &payment.Offerings, query, payment.ID); err != nil {
		return fmt.Errorf("failed to load offering items: %w", err)
	}
	return nil
}
