package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RevenueReport struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
}

type DashboardStats struct {
	TotalRevenue   decimal.Decimal     `json:"totalRevenue"`
	TodayRevenue   decimal.Decimal     `json:"todayRevenue"`
	MonthlyRevenue decimal.Decimal     `json:"monthlyRevenue"`
	TotalOrders    int                 `json:"totalOrders"`
	OrdersByStatus map[OrderStatus]int `json:"ordersByStatus"`
}

// RevenueStatement is the archived summary of one shop's paid orders in a
// calendar month.
type RevenueStatement struct {
	ShopID       int64           `json:"shopId"`
	Month        string          `json:"month"`
	PeriodStart  time.Time       `json:"periodStart"`
	PeriodEnd    time.Time       `json:"periodEnd"`
	PaidOrders   int             `json:"paidOrders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	GeneratedAt  time.Time       `json:"generatedAt"`
}

// ReconcileResult counts the rows whose counters were rewritten.
type ReconcileResult struct {
	Customers int64 `json:"customers"`
	Shops     int64 `json:"shops"`
	Foods     int64 `json:"foods"`
}
