package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens a migrated in-memory SQLite database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

// newMockGorm opens GORM over sqlmock with the postgres dialect.
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func newTestPurchase(t *testing.T, total int64) *purchase.Purchase {
	t.Helper()
	p, err := purchase.NewPurchase(uuid.New(), purchase.Terms{
		ClientID:         uuid.New(),
		CompanyID:        uuid.New(),
		ShrimpFarmID:     uuid.New(),
		PurchaseDate:     time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
		InvoiceNumber:    "INV-00042",
		AverageGrams:     decimal.NewFromInt(22),
		Price:            decimal.RequireFromString("2.10"),
		PoundsPurchased:  decimal.NewFromInt(1200),
		TotalAgreedToPay: decimal.NewFromInt(total),
	}, false)
	require.NoError(t, err)
	return p
}
