package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shop shares its id with the owning user row.
type Shop struct {
	ID          int64     `json:"id" db:"id"`
	ShopName    string    `json:"shopName" db:"shop_name"`
	Address     string    `json:"address" db:"address"`
	City        string    `json:"city" db:"city"`
	IsApproved  bool      `json:"isApproved" db:"is_approved"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	TotalOrders int64     `json:"totalOrders" db:"total_orders"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Food struct {
	ID          int64           `json:"id" db:"id"`
	ShopID      int64           `json:"shopId" db:"shop_id"`
	Name        string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	IsAvailable bool            `json:"isAvailable" db:"is_available"`
	TotalOrders int64           `json:"totalOrders" db:"total_orders"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
