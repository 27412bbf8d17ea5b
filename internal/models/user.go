package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleShop     Role = "SHOP"
	RoleCustomer Role = "CUSTOMER"
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleShop, RoleCustomer:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// UserRef identifies the acting user for audit records.
type UserRef struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Customer shares its id with the owning user row.
type Customer struct {
	ID          int64           `json:"id" db:"id"`
	FullName    string          `json:"fullName" db:"full_name"`
	Address     string          `json:"address" db:"address"`
	City        string          `json:"city" db:"city"`
	PostalCode  string          `json:"postalCode" db:"postal_code"`
	TotalOrders int64           `json:"totalOrders" db:"total_orders"`
	TotalSpent  decimal.Decimal `json:"totalSpent" db:"total_spent"`
}

// FullAddress joins the non-empty address parts.
func (c *Customer) FullAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Address, c.City, c.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
