package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var sizes = []string{"16-20", "21-25", "26-30", "31-35", "36-40", "41-50"}

// Fixtures seeds records through the real repositories. Fake values come
// from a fixed seed so failures are reproducible.
type Fixtures struct {
	t     *testing.T
	db    *gorm.DB
	Faker *gofakeit.Faker
	seq   int
}

// NewFixtures creates fixtures writing to db.
func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, db: db, Faker: gofakeit.New(42)}
}

// PaymentMethod stores a payment method with a unique name.
func (f *Fixtures) PaymentMethod() *ledger.PaymentMethod {
	f.t.Helper()
	f.seq++
	m, err := ledger.NewPaymentMethod(fmt.Sprintf("%s %d", f.Faker.Word(), f.seq))
	require.NoError(f.t, err)
	require.NoError(f.t, persistence.NewGormPaymentMethodRepository(f.db).Create(context.Background(), m))
	return m
}

// PurchaseTerms returns valid terms whose agreed total is total.
func (f *Fixtures) PurchaseTerms(total decimal.Decimal) purchase.Terms {
	return purchase.Terms{
		ClientID:         uuid.New(),
		CompanyID:        uuid.New(),
		ShrimpFarmID:     uuid.New(),
		PurchaseDate:     time.Now().UTC().Truncate(time.Second),
		InvoiceNumber:    fmt.Sprintf("INV-%05d", f.Faker.Number(1, 99999)),
		AverageGrams:     decimal.NewFromInt(int64(f.Faker.Number(10, 40))),
		Price:            decimal.NewFromFloat(f.Faker.Price(1, 5)).Round(2),
		PoundsPurchased:  decimal.NewFromInt(int64(f.Faker.Number(100, 5000))),
		TotalAgreedToPay: total,
	}
}

// Purchase stores a non-draft purchase agreed at total.
func (f *Fixtures) Purchase(total decimal.Decimal) *purchase.Purchase {
	f.t.Helper()
	p, err := purchase.NewPurchase(uuid.New(), f.PurchaseTerms(total), false)
	require.NoError(f.t, err)
	require.NoError(f.t, persistence.NewGormPurchaseRepository(f.db).Create(context.Background(), p))
	return p
}

// SaleItem returns an item payload with the given weight and price.
func (f *Fixtures) SaleItem(pounds, price float64) sale.ItemInput {
	return sale.ItemInput{
		Style:  f.Faker.RandomString([]string{"HEADLESS", "PEELED", "WHOLE"}),
		Class:  f.Faker.RandomString([]string{"A", "B", "C"}),
		Size:   f.Faker.RandomString(sizes),
		Pounds: decimal.NewFromFloat(pounds),
		Price:  decimal.NewFromFloat(price),
	}
}

// LocalItem returns a local item payload carrying status.
func (f *Fixtures) LocalItem(pounds, price float64, status ledger.PaymentStatus) sale.LocalItemInput {
	return sale.LocalItemInput{
		Size:          f.Faker.RandomString(sizes),
		Customer:      f.Faker.Name(),
		Pounds:        decimal.NewFromFloat(pounds),
		Price:         decimal.NewFromFloat(price),
		PaymentStatus: status,
	}
}
