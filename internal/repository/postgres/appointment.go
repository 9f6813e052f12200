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
	"github.com/parishops/parish-api/internal/scheduling"
)

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, service_id, service_type, service_duration,
			appointment_date, appointment_time,
			parishioner_name, contact_email, contact_phone,
			status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ServiceID,
		apt.ServiceType,
		apt.ServiceDuration,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.ParishionerName,
		apt.ContactEmail,
		apt.ContactPhone,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, service_id, service_type, service_duration,
			   appointment_date, appointment_time,
			   parishioner_name, contact_email, contact_phone,
			   status, notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, status = $3,
			notes = $4, cancel_reason = $5, updated_at = $6
		WHERE id = $7
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.Status,
		apt.Notes,
		apt.CancelReason,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
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

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
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

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, service_id, service_type, service_duration,
			   appointment_date, appointment_time,
			   parishioner_name, contact_email, contact_phone,
			   status, notes, cancel_reason, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.ServiceID != uuid.Nil {
			query += fmt.Sprintf(" AND service_id = $%d", argCount)
			args = append(args, filters.ServiceID)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND appointment_date >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND appointment_date <= $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY appointment_date ASC, appointment_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ActiveIntervals(ctx context.Context, date time.Time) ([]scheduling.BookedInterval, error) {
	return r.activeIntervals(ctx, date, uuid.Nil)
}

func (r *appointmentRepository) ActiveIntervalsExcluding(ctx context.Context, date time.Time, excludeID uuid.UUID) ([]scheduling.BookedInterval, error) {
	return r.activeIntervals(ctx, date, excludeID)
}

func (r *appointmentRepository) activeIntervals(ctx context.Context, date time.Time, excludeID uuid.UUID) ([]scheduling.BookedInterval, error) {
	query := `
		SELECT appointment_time, service_duration, service_type
		FROM appointments
		WHERE appointment_date = $1
		AND status IN ('pending', 'confirmed')
	`
	args := []interface{}{date}

	if excludeID != uuid.Nil {
		query += " AND id != $2"
		args = append(args, excludeID)
	}

	query += " ORDER BY appointment_time ASC"

	rows := []struct {
		Start       int    `db:"appointment_time"`
		Duration    int    `db:"service_duration"`
		ServiceType string `db:"service_type"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get booked intervals: %w", err)
	}

	intervals := make([]scheduling.BookedInterval, 0, len(rows))
	for _, row := range rows {
		intervals = append(intervals, scheduling.BookedInterval{
			Date:        date,
			Start:       row.Start,
			Duration:    row.Duration,
			ServiceName: row.ServiceType,
		})
	}
	return intervals, nil
}

func (r *appointmentRepository) Archive(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO archived_appointments (
			id, appointment_id, service_type, service_duration,
			appointment_date, appointment_time, parishioner_name,
			final_status, archived_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		apt.ID,
		apt.ServiceType,
		apt.ServiceDuration,
		apt.AppointmentDate,
		apt.AppointmentTime,
		apt.ParishionerName,
		apt.Status,
		now,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to archive appointment: %w", err)
	}
	return nil
}
