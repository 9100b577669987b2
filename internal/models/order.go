package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// order status
const (
	OrderStatusReceived  = "received"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// payment status
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// order type
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// statusTransitions holds allowed transitions of order status.
// completed and cancelled are terminal.
var statusTransitions = map[string][]string{
	OrderStatusReceived:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Order is order entity
type Order struct {
	ID               uint64
	Number           string
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	Type             string
	DeliveryAddress  *string
	Postcode         *string
	Items            []OrderItem
	Subtotal         decimal.Decimal
	DeliveryFee      decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	Status           string
	PaymentStatus    string
	EstimatedMinutes int
	ConfirmationSent bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem is a single order line
type OrderItem struct {
	ID        uint64
	OrderID   uint64
	Name      string
	Quantity  int
	Price     decimal.Decimal
	Modifiers []ItemModifier
}

// ItemModifier is a per-item customization surcharge
type ItemModifier struct {
	Name  string
	Price decimal.Decimal
}

// LineTotal returns item price with modifier surcharges multiplied by quantity
func (it OrderItem) LineTotal() decimal.Decimal {
	unit := it.Price
	for _, m := range it.Modifiers {
		unit = unit.Add(m.Price)
	}
	return unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// StatusLog is append-only order status history entry
type StatusLog struct {
	ID        uint64
	OrderID   uint64
	Status    string
	Notes     *string
	ChangedBy string
	ChangedAt time.Time
}

// CanTransitionTo reports whether an order in status from may move to status to
func CanTransitionTo(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether status allows no further transitions
func IsTerminalStatus(status string) bool {
	return len(statusTransitions[status]) == 0
}
