package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/parishops/parish-api/internal/model"
)

func (r *reportRepository) DailyLines(ctx context.Context, date time.Time) ([]model.DailyReportLine, error) {
	query := `
		SELECT p.receipt_number, 'appointment' AS source,
			   a.service_type AS description, p.amount_due AS amount
		FROM payments p
		JOIN appointments a ON a.id = p.appointment_id
		WHERE p.created_at >= $1 AND p.created_at < $2
		UNION ALL
		SELECT sp.receipt_number, 'purchase' AS source,
			   'counter sale' AS description, sp.total AS amount
		FROM standalone_purchases sp
		WHERE sp.created_at >= $1 AND sp.created_at < $2
		ORDER BY receipt_number ASC
	`
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var lines []model.DailyReportLine
	err := r.db.SelectContext(ctx, &lines, query, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily report lines: %w", err)
	}
	return lines, nil
}

func (r *reportRepository) OfferingTotalForDate(ctx context.Context, date time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM offering_items
		WHERE created_at >= $1 AND created_at < $2
	`
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var total float64
	if err := r.db.GetContext(ctx, &total, query, dayStart, dayEnd); err != nil {
		return 0, fmt.Errorf("failed to sum offerings: %w", err)
	}
	return total, nil
}
