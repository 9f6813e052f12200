package model

import (
	"github.com/google/uuid"
)

// Product status constants
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product is an item sold over the counter: candles, rosaries,
// devotional booklets and similar.
type Product struct {
	Base
	Name   string  `db:"name" json:"name"`
	Price  float64 `db:"price" json:"price"`
	Stock  int     `db:"stock" json:"stock"`
	Status string  `db:"status" json:"status"`
}

type CreateProductRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
	Stock int     `json:"stock" binding:"gte=0"`
}

type UpdateProductRequest struct {
	Name   *string  `json:"name"`
	Price  *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock  *int     `json:"stock" binding:"omitempty,gte=0"`
	Status *string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Purchase is a standalone over-the-counter sale, independent of any
// appointment.
type Purchase struct {
	Base
	ReceiptNumber  string         `db:"receipt_number" json:"receipt_number"`
	Total          float64        `db:"total" json:"total"`
	AmountTendered float64        `db:"amount_tendered" json:"amount_tendered"`
	ChangeGiven    float64        `db:"change_given" json:"change_given"`
	SoldBy         uuid.UUID      `db:"sold_by" json:"sold_by"`
	Items          []PurchaseItem `db:"-" json:"items,omitempty"`
}

// PurchaseItem is one product line on a purchase receipt.
type PurchaseItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PurchaseID  uuid.UUID `db:"purchase_id" json:"purchase_id"`
	ProductID   uuid.UUID `db:"product_id" json:"product_id"`
	ProductName string    `db:"product_name" json:"product_name"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	LineTotal   float64   `db:"line_total" json:"line_total"`
}

type PurchaseLineInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

type CreatePurchaseRequest struct {
	Items          []PurchaseLineInput `json:"items" binding:"required,min=1,dive"`
	AmountTendered float64             `json:"amount_tendered" binding:"required,gt=0"`
}
