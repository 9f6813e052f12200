package model

import (
	"time"
)

// DailyReportLine is one receipt on the daily accounting report.
type DailyReportLine struct {
	ReceiptNumber string  `db:"receipt_number" json:"receipt_number"`
	Source        string  `db:"source" json:"source"` // appointment or purchase
	Description   string  `db:"description" json:"description"`
	Amount        float64 `db:"amount" json:"amount"`
}

// DailyReport aggregates the money collected on one calendar day.
type DailyReport struct {
	Date              time.Time         `json:"date"`
	PaymentTotal      float64           `json:"payment_total"`
	PaymentCount      int               `json:"payment_count"`
	OfferingTotal     float64           `json:"offering_total"`
	PurchaseTotal     float64           `json:"purchase_total"`
	PurchaseCount     int               `json:"purchase_count"`
	GrossTotal        float64           `json:"gross_total"`
	Lines             []DailyReportLine `json:"lines"`
	GeneratedAt       time.Time         `json:"generated_at"`
	GeneratedByUserID string            `json:"generated_by,omitempty"`
}
