package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vincula/internal/testutil"
)

// Unit Tests

func TestNewMySQLProductRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLProductRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestFindByIDs_EmptyInput(t *testing.T) {
	repo := NewMySQLProductRepository(&sql.DB{})

	products, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, products)
}

// Integration Tests

func TestFindByIDs_ReturnsMatching(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	active := testutil.SeedProduct(t, db, "499.99", true)
	inactive := testutil.SeedProduct(t, db, "9.99", false)

	repo := NewMySQLProductRepository(db)

	products, err := repo.FindByIDs(context.Background(), []uint{active, inactive, 9999})
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := make(map[uint]bool, len(products))
	for _, p := range products {
		byID[p.ID] = p.IsActive
	}

	assert.True(t, byID[active])
	assert.False(t, byID[inactive])

	for _, p := range products {
		if p.ID == active {
			assert.True(t, p.Price.Equal(decimal.RequireFromString("499.99")))
			assert.True(t, p.Orderable())
		}
		if p.ID == inactive {
			assert.False(t, p.Orderable())
		}
	}
}

func TestFindByIDs_ExcludesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	id := testutil.SeedProduct(t, db, "10.00", true)

	_, err := db.Exec(`UPDATE Products SET isDeleted = 1 WHERE id = ?`, id)
	require.NoError(t, err)

	repo := NewMySQLProductRepository(db)

	products, err := repo.FindByIDs(context.Background(), []uint{id})
	require.NoError(t, err)
	assert.Empty(t, products)
}
