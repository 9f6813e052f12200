package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/repository"
)

func (r *requirementRepository) Create(ctx context.Context, req *model.Requirement) error {
	query := `
		INSERT INTO requirements (
			id, appointment_id, name, received, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.AppointmentID, req.Name, req.Received, req.Notes,
		req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create requirement: %w", err)
	}
	return nil
}

func (r *requirementRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Requirement, error) {
	query := `
		SELECT id, appointment_id, name, received, notes, created_at, updated_at
		FROM requirements
		WHERE appointment_id = $1
		ORDER BY created_at ASC
	`
	var requirements []*model.Requirement
	err := r.db.SelectContext(ctx, &requirements, query, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return requirements, nil
}

func (r *requirementRepository) Update(ctx context.Context, req *model.Requirement) error {
	query := `
		UPDATE requirements
		SET name = $1, received = $2, notes = $3, updated_at = $4
		WHERE id = $5
	`
	req.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		req.Name, req.Received, req.Notes, req.UpdatedAt, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update requirement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *requirementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM requirements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete requirement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}
