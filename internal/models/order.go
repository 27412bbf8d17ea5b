package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                    int64           `json:"id" db:"id"`
	OrderNumber           string          `json:"orderNumber" db:"order_number"`
	CustomerID            int64           `json:"customerId" db:"customer_id"`
	ShopID                int64           `json:"shopId" db:"shop_id"`
	TotalAmount           decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status                OrderStatus     `json:"status" db:"status"`
	PaymentStatus         PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	DeliveryAddress       string          `json:"deliveryAddress" db:"delivery_address"`
	DeliveryInstructions  *string         `json:"deliveryInstructions,omitempty" db:"delivery_instructions"`
	EstimatedDeliveryTime *time.Time      `json:"estimatedDeliveryTime,omitempty" db:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time      `json:"actualDeliveryTime,omitempty" db:"actual_delivery_time"`
	Version               int64           `json:"version" db:"version"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`
	Items                 []*OrderItem    `json:"items,omitempty"`
}

// DistinctFoodIDs returns the food ids of the order's items without
// duplicates, in first-seen order.
func (o *Order) DistinctFoodIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.FoodID]; ok {
			continue
		}
		seen[item.FoodID] = struct{}{}
		ids = append(ids, item.FoodID)
	}
	return ids
}

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}
