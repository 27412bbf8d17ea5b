package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusPreparing        OrderStatus = "PREPARING"
	OrderStatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	OrderStatusOutForDelivery   OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReadyForDelivery,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus trims and upper-cases s before matching it against the
// known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid order status %q", s)
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReadyForDelivery,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal. Only
// terminal statuses are guarded; a non-terminal order may take any valid
// status, including its current one.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return !s.IsTerminal() && next.Valid()
}

func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus is the payment state of an order. Any value may replace any
// other.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	candidate := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("invalid payment status %q", s)
}

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (p PaymentStatus) String() string {
	return string(p)
}
