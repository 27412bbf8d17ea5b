package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderStatus
		wantErr bool
	}{
		{in: "CONFIRMED", want: OrderStatusConfirmed},
		{in: "  preparing ", want: OrderStatusPreparing},
		{in: "ready_for_delivery", want: OrderStatusReadyForDelivery},
		{in: "Cancelled", want: OrderStatusCancelled},
		{in: "", wantErr: true},
		{in: "SHIPPED", wantErr: true},
		{in: "READY FOR DELIVERY", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	for _, s := range OrderStatuses {
		want := s == OrderStatusDelivered || s == OrderStatusCancelled
		assert.Equal(t, want, s.IsTerminal(), s.String())
	}
}

func TestOrderStatus_CancelAllowedFromEveryNonTerminalStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.Equal(t, !s.IsTerminal(), s.CanTransitionTo(OrderStatusCancelled), s.String())
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	for _, from := range OrderStatuses {
		for _, to := range OrderStatuses {
			assert.Equal(t, !from.IsTerminal(), from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusConfirmed.CanTransitionTo(OrderStatusConfirmed))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatus("SHIPPED")))
}

func TestParsePaymentStatus(t *testing.T) {
	got, err := ParsePaymentStatus(" refunded")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusRefunded, got)

	_, err = ParsePaymentStatus("CHARGEBACK")
	assert.Error(t, err)
}

func TestOrder_DistinctFoodIDs(t *testing.T) {
	order := &Order{Items: []*OrderItem{
		{FoodID: 3}, {FoodID: 1}, {FoodID: 3}, {FoodID: 2}, {FoodID: 1},
	}}
	assert.Equal(t, []int64{3, 1, 2}, order.DistinctFoodIDs())
}

func TestCustomer_FullAddress(t *testing.T) {
	c := &Customer{Address: "12 Campus Rd", City: " Colombo ", PostalCode: ""}
	assert.Equal(t, "12 Campus Rd, Colombo", c.FullAddress())
}
