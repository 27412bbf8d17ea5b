// Package testhelpers starts a migrated Postgres for integration tests and
// seeds catalog fixtures into it.
package testhelpers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	ConnStr string
}

// SetupTestDB starts a Postgres container, applies the migrations and
// returns a pool. The container is removed when the test finishes.
func SetupTestDB(ctx context.Context, t *testing.T) *TestDB {
	t.Helper()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("unieats"),
		postgres.WithUsername("unieats"),
		postgres.WithPassword("unieats"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	if err := runMigrations(connStr); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	return &TestDB{Pool: pool, ConnStr: connStr}
}

func runMigrations(connStr string) error {
	m, err := migrate.New(migrationsPath(), connStr)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func migrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filename))
	return "file://" + filepath.Join(root, "migrations")
}

// SetupTestCustomer creates a user with the CUSTOMER role and its customer row.
func SetupTestCustomer(t *testing.T, db *TestDB, email, address string) int64 {
	t.Helper()

	id := insertUser(t, db, email, "Test Customer", "CUSTOMER")
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO customers (id, address, city, postal_code) VALUES ($1, $2, $3, $4)`,
		id, address, "Pune", "411001")
	if err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return id
}

// SetupTestShop creates an approved, active shop.
func SetupTestShop(t *testing.T, db *TestDB, email, name string) int64 {
	t.Helper()

	id := insertUser(t, db, email, name+" Owner", "SHOP")
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO shops (id, shop_name, address, city, is_approved, is_active) VALUES ($1, $2, $3, $4, TRUE, TRUE)`,
		id, name, "1 Campus Road", "Pune")
	if err != nil {
		t.Fatalf("failed to create test shop: %v", err)
	}
	return id
}

// SetupTestFood adds a food priced at price to the shop's menu.
func SetupTestFood(t *testing.T, db *TestDB, shopID int64, name, price string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO foods (shop_id, name, price) VALUES ($1, $2, $3) RETURNING id`,
		shopID, name, decimal.RequireFromString(price)).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test food: %v", err)
	}
	return id
}

func insertUser(t *testing.T, db *TestDB, email, fullName, role string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO users (email, full_name, role) VALUES ($1, $2, $3) RETURNING id`,
		email, fullName, role).Scan(&id)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

// CountRows returns the number of rows in table matching the optional where
// clause.
func CountRows(t *testing.T, db *TestDB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := db.Pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
