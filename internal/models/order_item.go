package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one cart line. FoodName and UnitPrice are snapshots taken when
// the order was built; TotalPrice is stored and never recomputed.
type OrderItem struct {
	ID         int64           `json:"id" db:"id"`
	OrderID    int64           `json:"orderId" db:"order_id"`
	FoodID     int64           `json:"foodId" db:"food_id"`
	FoodName   string          `json:"foodName" db:"food_name"`
	Quantity   int             `json:"quantity" db:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}
