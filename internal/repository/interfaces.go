package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/parishops/parish-api/internal/model"
	"github.com/parishops/parish-api/internal/scheduling"
)

// ErrNotFound is returned when a lookup resolves to no record.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientStock is returned when a sale would take a product's
// stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type ServiceRepository interface {
	Create(ctx context.Context, svc *model.Service) error
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	GetByName(ctx context.Context, name string) (*model.Service, error)
	List(ctx context.Context, status string) ([]*model.Service, error)
	Update(ctx context.Context, svc *model.Service) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)

	// ActiveIntervals yields the pending/confirmed bookings for a date;
	// it implements scheduling.IntervalSource.
	ActiveIntervals(ctx context.Context, date time.Time) ([]scheduling.BookedInterval, error)

	// ActiveIntervalsExcluding is ActiveIntervals minus one appointment,
	// used when validating a reschedule against everything else.
	ActiveIntervalsExcluding(ctx context.Context, date time.Time, excludeID uuid.UUID) ([]scheduling.BookedInterval, error)

	Archive(ctx context.Context, apt *model.Appointment) error
}

type RequirementRepository interface {
	Create(ctx context.Context, req *model.Requirement) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Requirement, error)
	Update(ctx context.Context, req *model.Requirement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	// Create persists the payment and its offering line items in one
	// transaction and fills in the sequential receipt number.
	Create(ctx context.Context, payment *model.Payment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Payment, error)
	ListByDate(ctx context.Context, date time.Time) ([]*model.Payment, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, status string) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PurchaseRepository interface {
	// Create persists the purchase with its line items and decrements
	// product stock in one transaction.
	Create(ctx context.Context, purchase *model.Purchase) error
	Get(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	ListByDate(ctx context.Context, date time.Time) ([]*model.Purchase, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenRepository tracks revoked session tokens so logout takes effect
// before the JWT expiry.
type TokenRepository interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type ReportRepository interface {
	DailyLines(ctx context.Context, date time.Time) ([]model.DailyReportLine, error)
	OfferingTotalForDate(ctx context.Context, date time.Time) (float64, error)
}
