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

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (
			id, name, description, price, duration_minutes, allowed_days,
			allow_concurrent, requires_multiple_days, consecutive_days,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	svc.ID = uuid.New()
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Description,
		svc.Price,
		svc.DurationMinutes,
		svc.AllowedDays,
		svc.AllowConcurrent,
		svc.RequiresMultipleDays,
		svc.ConsecutiveDays,
		svc.Status,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, name, description, price, duration_minutes, allowed_days,
			   allow_concurrent, requires_multiple_days, consecutive_days,
			   status, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*model.Service, error) {
	query := `
		SELECT id, name, description, price, duration_minutes, allowed_days,
			   allow_concurrent, requires_multiple_days, consecutive_days,
			   status, created_at, updated_at
		FROM services
		WHERE name ILIKE $1
	`
	var svc model.Service
	err := r.db.GetContext(ctx, &svc, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service by name: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) List(ctx context.Context, status string) ([]*model.Service, error) {
	query := `
		SELECT id, name, description, price, duration_minutes, allowed_days,
			   allow_concurrent, requires_multiple_days, consecutive_days,
			   status, created_at, updated_at
		FROM services
	`
	args := []interface{}{}
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
	}
	query += " ORDER BY name ASC"

	var services []*model.Service
	err := r.db.SelectContext(ctx, &services, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price = $3, duration_minutes = $4,
			allowed_days = $5, allow_concurrent = $6,
			requires_multiple_days = $7, consecutive_days = $8,
			status = $9, updated_at = $10
		WHERE id = $11
	`
	svc.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		svc.Name,
		svc.Description,
		svc.Price,
		svc.DurationMinutes,
		svc.AllowedDays,
		svc.AllowConcurrent,
		svc.RequiresMultipleDays,
		svc.ConsecutiveDays,
		svc.Status,
		svc.UpdatedAt,
		svc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
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

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
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
