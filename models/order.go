package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending            OrderStatus = "pending"
	StatusAccepted           OrderStatus = "accepted"
	StatusRejected           OrderStatus = "rejected"
	StatusPreparing          OrderStatus = "preparing"
	StatusReadyForCollection OrderStatus = "ready_for_collection"
	StatusCancelled          OrderStatus = "cancelled"
	StatusCollected          OrderStatus = "collected"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusRejected,
	StatusPreparing,
	StatusReadyForCollection,
	StatusCancelled,
	StatusCollected,
}

// ParseOrderStatus normalises a wire value. Older backends spell the ready
// state "ready for collection".
func ParseOrderStatus(s string) (OrderStatus, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	for _, st := range OrderStatuses {
		if string(st) == norm {
			return st, true
		}
	}
	return OrderStatus(s), false
}

func (s OrderStatus) Known() bool {
	_, ok := ParseOrderStatus(string(s))
	return ok
}

// Terminal reports whether no further changes may be offered.
func (s OrderStatus) Terminal() bool {
	st, _ := ParseOrderStatus(string(s))
	return st == StatusCollected
}

// Order is owned by the backend; the client only caches what it displays.
type Order struct {
	ID           int64           `json:"id"`
	Status       OrderStatus     `json:"status"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CustomerName string          `json:"customer_name"`
	QRCodeURL    string          `json:"qr_code_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitempty"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Notes       string          `json:"notes,omitempty"`
}

// LineTotal is Quantity x UnitPrice.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// ItemsTotal sums the item subtotals.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// StatusUpdate is the body of PUT /merchant/orders/:id/status.
type StatusUpdate struct {
	Status OrderStatus `json:"status"`
	Notes  string      `json:"notes"`
}
