package model

import (
	"time"

	"github.com/lib/pq"

	"github.com/parishops/parish-api/internal/scheduling"
)

// Service status constants
const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// Service is a sacramental or pastoral service the parish offers for
// booking: baptisms, weddings, masses, novenas and the like.
type Service struct {
	Base
	Name                 string        `db:"name" json:"name"`
	Description          string        `db:"description" json:"description"`
	Price                float64       `db:"price" json:"price"`
	DurationMinutes      int           `db:"duration_minutes" json:"duration_minutes"`
	AllowedDays          pq.Int64Array `db:"allowed_days" json:"allowed_days"` // 0=Sunday..6=Saturday
	AllowConcurrent      bool          `db:"allow_concurrent" json:"allow_concurrent"`
	RequiresMultipleDays bool          `db:"requires_multiple_days" json:"requires_multiple_days"`
	ConsecutiveDays      int           `db:"consecutive_days" json:"consecutive_days"`
	Status               string        `db:"status" json:"status"`
}

// Rule maps the catalog row into the slice the scheduling core consumes.
func (s *Service) Rule() scheduling.ServiceRule {
	days := make([]time.Weekday, 0, len(s.AllowedDays))
	for _, d := range s.AllowedDays {
		days = append(days, time.Weekday(d))
	}
	return scheduling.ServiceRule{
		Name:                 s.Name,
		Price:                s.Price,
		DurationMinutes:      s.DurationMinutes,
		AllowedWeekdays:      days,
		AllowConcurrent:      s.AllowConcurrent,
		RequiresMultipleDays: s.RequiresMultipleDays,
		ConsecutiveDays:      s.ConsecutiveDays,
	}
}

type CreateServiceRequest struct {
	Name                 string  `json:"name" binding:"required"`
	Description          string  `json:"description"`
	Price                float64 `json:"price" binding:"gte=0"`
	DurationMinutes      int     `json:"duration_minutes" binding:"required,gt=0"`
	AllowedDays          []int64 `json:"allowed_days" binding:"required,min=1,dive,gte=0,lte=6"`
	AllowConcurrent      bool    `json:"allow_concurrent"`
	RequiresMultipleDays bool    `json:"requires_multiple_days"`
	ConsecutiveDays      int     `json:"consecutive_days" binding:"omitempty,gte=2"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price" binding:"omitempty,gte=0"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,gt=0"`
	AllowedDays     []int64  `json:"allowed_days" binding:"omitempty,min=1,dive,gte=0,lte=6"`
	AllowConcurrent *bool    `json:"allow_concurrent"`
	Status          *string  `json:"status" binding:"omitempty,oneof=active inactive"`
}
