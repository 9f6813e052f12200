package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// OccupiesTime reports whether the status still blocks new bookings.
func (s AppointmentStatus) OccupiesTime() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

type Appointment struct {
	Base
	ServiceID       uuid.UUID         `db:"service_id" json:"service_id"`
	ServiceType     string            `db:"service_type" json:"service_type"`
	ServiceDuration int               `db:"service_duration" json:"service_duration"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime int               `db:"appointment_time" json:"appointment_time"` // minutes of day
	ParishionerName string            `db:"parishioner_name" json:"parishioner_name"`
	ContactEmail    string            `db:"contact_email" json:"contact_email"`
	ContactPhone    string            `db:"contact_phone" json:"contact_phone"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
	CancelReason    *string           `db:"cancel_reason" json:"cancel_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	ServiceID       uuid.UUID `json:"service_id" binding:"required"`
	AppointmentDate string    `json:"appointment_date" binding:"required"` // 2006-01-02
	AppointmentTime string    `json:"appointment_time" binding:"required,clocktime"` // HH:MM
	ParishionerName string    `json:"parishioner_name" binding:"required"`
	ContactEmail    string    `json:"contact_email" binding:"omitempty,email"`
	ContactPhone    string    `json:"contact_phone"`
	Notes           string    `json:"notes" binding:"max=1000"`
	AmountTendered  float64   `json:"amount_tendered" binding:"gte=0"`
	Offerings       []OfferingInput `json:"offerings" binding:"dive"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *string            `json:"appointment_date"`
	AppointmentTime *string            `json:"appointment_time" binding:"omitempty,clocktime"`
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	Notes           *string            `json:"notes"`
	CancelReason    *string            `json:"cancel_reason"`
}

type AppointmentFilters struct {
	ServiceID uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}

// ArchivedAppointment is the immutable copy kept after an appointment
// completes or is cancelled.
type ArchivedAppointment struct {
	Base
	AppointmentID   uuid.UUID         `db:"appointment_id" json:"appointment_id"`
	ServiceType     string            `db:"service_type" json:"service_type"`
	ServiceDuration int               `db:"service_duration" json:"service_duration"`
	AppointmentDate time.Time         `db:"appointment_date" json:"appointment_date"`
	AppointmentTime int               `db:"appointment_time" json:"appointment_time"`
	ParishionerName string            `db:"parishioner_name" json:"parishioner_name"`
	FinalStatus     AppointmentStatus `db:"final_status" json:"final_status"`
	ArchivedAt      time.Time         `db:"archived_at" json:"archived_at"`
}

// Requirement is a document or prerequisite attached to an appointment,
// e.g. a baptismal certificate for a confirmation booking.
type Requirement struct {
	Base
	AppointmentID uuid.UUID `db:"appointment_id" json:"appointment_id"`
	Name          string    `db:"name" json:"name"`
	Received      bool      `db:"received" json:"received"`
	Notes         string    `db:"notes" json:"notes,omitempty"`
}

type CreateRequirementRequest struct {
	AppointmentID uuid.UUID `json:"-"` // taken from the URL path
	Name          string    `json:"name" binding:"required"`
	Notes         string    `json:"notes"`
}
