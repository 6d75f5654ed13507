package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"vincula/internal/infrastructure/mysql"
)

// SetupTestDB opens the test database, expected at localhost:3306 under the
// name 'vincula_test'. Tests are skipped when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/vincula_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB empties every table touched by the tests and closes the pool.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"AuditLog", "OrderStatusHistory", "OrderItems", "Orders", "Products", "Clients"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SeedClient inserts a client row and returns its id.
func SeedClient(t *testing.T, db *sql.DB) uint {
	result, err := db.Exec(`
		INSERT INTO Clients (firstName, lastName, email)
		VALUES ('Ada', 'Lovelace', 'ada@example.com')
	`)
	if err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read client id: %v", err)
	}
	return uint(id)
}

// SeedProduct inserts a product row and returns its id.
func SeedProduct(t *testing.T, db *sql.DB, price string, active bool) uint {
	result, err := db.Exec(`
		INSERT INTO Products (name, description, price, isActive)
		VALUES ('Widget', 'A widget', ?, ?)
	`, price, active)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read product id: %v", err)
	}
	return uint(id)
}
