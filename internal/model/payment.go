package model

import (
	"time"

	"github.com/google/uuid"
)

// Payment method constants
const (
	PaymentMethodCash = "cash"
)

// Payment records money collected for an appointment, including any
// offering line items pledged alongside the service fee.
type Payment struct {
	Base
	AppointmentID  uuid.UUID      `db:"appointment_id" json:"appointment_id"`
	ReceiptNumber  string         `db:"receipt_number" json:"receipt_number"`
	AmountDue      float64        `db:"amount_due" json:"amount_due"`
	AmountTendered float64        `db:"amount_tendered" json:"amount_tendered"`
	ChangeGiven    float64        `db:"change_given" json:"change_given"`
	Method         string         `db:"method" json:"method"`
	CollectedBy    uuid.UUID      `db:"collected_by" json:"collected_by"`
	Offerings      []OfferingItem `db:"-" json:"offerings,omitempty"`
}

// OfferingItem is one monetary offering attached to a payment.
type OfferingItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PaymentID   uuid.UUID `db:"payment_id" json:"payment_id"`
	Description string    `db:"description" json:"description"`
	Amount      float64   `db:"amount" json:"amount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OfferingInput is an offering line item as submitted by a caller.
type OfferingInput struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

// Total sums offering line items.
func OfferingTotal(items []OfferingInput) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

type RecordPaymentRequest struct {
	AppointmentID  uuid.UUID       `json:"appointment_id" binding:"required"`
	AmountTendered float64         `json:"amount_tendered" binding:"required,gt=0"`
	Method         string          `json:"method" binding:"omitempty,oneof=cash"`
	Offerings      []OfferingInput `json:"offerings" binding:"dive"`
	EmailReceipt   bool            `json:"email_receipt"`
}
