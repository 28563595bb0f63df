package ledger

import (
	"context"
	"errors"
	"testing"

	saleapp "github.com/chamanguitech/backend/internal/application/sale"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence"
	"github.com/chamanguitech/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) PaymentRecorded(ctx context.Context, ledgerName, operation string) {
	m.Called(ledgerName, operation)
}

func (m *MockMetrics) OverpaymentRejected(ctx context.Context, ledgerName string) {
	m.Called(ledgerName)
}

type ledgerEnv struct {
	uow    *persistence.GormUnitOfWork
	fx     *testutil.Fixtures
	method *ledger.PaymentMethod
}

func setupLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	fx := testutil.NewFixtures(t, db)
	return &ledgerEnv{uow: persistence.NewGormUnitOfWork(db), fx: fx, method: fx.PaymentMethod()}
}

func (e *ledgerEnv) input(parentID uuid.UUID, amount string) CreatePaymentInput {
	return CreatePaymentInput{
		ParentID:        parentID,
		PaymentMethodID: e.method.ID,
		Amount:          decimal.RequireFromString(amount),
		Reference:       "TRX-" + e.fx.Faker.DigitN(6),
	}
}

func (e *ledgerEnv) purchaseStatus(t *testing.T, id uuid.UUID) purchase.Status {
	t.Helper()
	p, err := e.uow.Reader().Purchases().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Status
}

func TestPurchaseLedger_CapAndProgress(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	metrics := new(MockMetrics)
	metrics.On("PaymentRecorded", "purchase", "create").Return().Twice()
	metrics.On("OverpaymentRejected", "purchase").Return().Once()
	svc := NewPurchasePaymentService(env.uow, WithMetrics(metrics))
	p := env.fx.Purchase(decimal.NewFromInt(1000))
	assert.Equal(t, purchase.StatusCreated, p.Status)

	_, err := svc.Create(ctx, env.input(p.ID, "400"))
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusInProgress, env.purchaseStatus(t, p.ID))

	_, err = svc.Create(ctx, env.input(p.ID, "600"))
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusCompleted, env.purchaseStatus(t, p.ID))

	_, err = svc.Create(ctx, env.input(p.ID, "1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrOverpaymentRejected))

	summary, err := svc.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, summary.Remaining.IsZero())
	assert.Len(t, summary.Payments, 2)
	assert.Equal(t, string(purchase.StatusCompleted), summary.Status)
	metrics.AssertExpectations(t)
}

func TestPurchaseLedger_CentsAreNormalized(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	svc := NewPurchasePaymentService(env.uow)
	p := env.fx.Purchase(decimal.RequireFromString("0.30"))

	for range 3 {
		_, err := svc.Create(ctx, env.input(p.ID, "0.10"))
		require.NoError(t, err)
	}

	assert.Equal(t, purchase.StatusCompleted, env.purchaseStatus(t, p.ID))
	_, err := svc.Create(ctx, env.input(p.ID, "0.01"))
	assert.True(t, errors.Is(err, shared.ErrOverpaymentRejected))
}

func TestPurchaseLedger_AmountKeptAsSubmitted(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	svc := NewPurchasePaymentService(env.uow)
	p := env.fx.Purchase(decimal.RequireFromString("10.01"))

	created, err := svc.Create(ctx, env.input(p.ID, "10.005"))
	require.NoError(t, err)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("10.005")), "got %s", created.Amount)

	summary, err := svc.Summary(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, summary.Payments, 1)
	assert.True(t, summary.Payments[0].Amount.Equal(decimal.RequireFromString("10.005")))
	assert.True(t, summary.TotalPaid.Equal(decimal.RequireFromString("10.01")))
	assert.Equal(t, string(purchase.StatusCompleted), summary.Status)
}

func TestPurchaseLedger_CreateRejections(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	svc := NewPurchasePaymentService(env.uow)
	p := env.fx.Purchase(decimal.NewFromInt(1000))

	tests := []struct {
		name string
		in   CreatePaymentInput
		code string
	}{
		{name: "unknown parent", in: env.input(uuid.New(), "10"), code: shared.CodeNotFound},
		{name: "zero amount", in: env.input(p.ID, "0"), code: shared.CodeValidationFailed},
		{name: "negative amount", in: env.input(p.ID, "-5"), code: shared.CodeValidationFailed},
		{
			name: "unknown payment method",
			in:   CreatePaymentInput{ParentID: p.ID, PaymentMethodID: uuid.New(), Amount: decimal.NewFromInt(10)},
			code: shared.CodeNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, shared.CodeOf(err))
		})
	}

	summary, err := svc.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Payments)
	assert.Equal(t, purchase.StatusCreated, env.purchaseStatus(t, p.ID))
}

func TestPurchaseLedger_UpdateChecksCapWithoutItsOwnAmount(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	svc := NewPurchasePaymentService(env.uow)
	p := env.fx.Purchase(decimal.NewFromInt(1000))

	first, err := svc.Create(ctx, env.input(p.ID, "300"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, env.input(p.ID, "300"))
	require.NoError(t, err)

	raised := decimal.NewFromInt(700)
	updated, err := svc.Update(ctx, first.ID, UpdatePaymentInput{Amount: &raised})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(raised))
	assert.Equal(t, purchase.StatusCompleted, env.purchaseStatus(t, p.ID))

	tooMuch := decimal.NewFromInt(701)
	_, err = svc.Update(ctx, first.ID, UpdatePaymentInput{Amount: &tooMuch})
	assert.True(t, errors.Is(err, shared.ErrOverpaymentRejected))

	note := "wire confirmed"
	updated, err = svc.Update(ctx, first.ID, UpdatePaymentInput{Observation: &note})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Observation)
	assert.True(t, updated.Amount.Equal(raised))
}

func TestPurchaseLedger_StickyStatusSurvivesPayments(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	svc := NewPurchasePaymentService(env.uow)
	p := env.fx.Purchase(decimal.NewFromInt(1000))
	require.NoError(t, env.uow.Reader().Purchases().UpdateStatus(ctx, p.ID, purchase.StatusConfirmed))

	_, err := svc.Create(ctx, env.input(p.ID, "1000"))
	require.NoError(t, err)

	assert.Equal(t, purchase.StatusConfirmed, env.purchaseStatus(t, p.ID))
}

func TestCompanySaleLedger_RemoveMovesStatusBack(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	item := env.fx.SaleItem(100, 5)
	cs, err := saleapp.NewCompanySaleService(env.uow).Create(ctx, saleapp.CreateCompanySaleRequest{
		PurchaseID:               p.ID,
		CompanySaleHeaderRequest: saleapp.CompanySaleHeaderRequest{Batch: "CS-9"},
		WholeDetail: &saleapp.CompanySaleDetailRequest{Items: []saleapp.SaleItemRequest{
			{Style: item.Style, Class: item.Class, Size: item.Size, Pounds: item.Pounds, Price: item.Price},
		}},
	})
	require.NoError(t, err)
	require.True(t, cs.GrandTotal.Equal(decimal.NewFromInt(500)))

	svc := NewCompanySalePaymentService(env.uow)
	first, err := svc.Create(ctx, env.input(cs.ID, "250"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, env.input(cs.ID, "250"))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, string(sale.CompanySaleStatusCompleted), summary.Status)

	require.NoError(t, svc.Remove(ctx, first.ID))

	summary, err = svc.Summary(ctx, cs.ID)
	require.NoError(t, err)
	assert.Equal(t, string(sale.CompanySaleStatusInProgress), summary.Status)
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(250)))

	err = svc.Remove(ctx, first.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestLocalCompanySaleDetailLedger_RecomputesLocalSale(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	paid := env.fx.LocalItem(10, 3, ledger.PaymentStatusPaid)
	item := env.fx.SaleItem(50, 2)
	ls, err := saleapp.NewLocalSaleService(env.uow).Create(ctx, saleapp.CreateLocalSaleRequest{
		PurchaseID: p.ID,
		Details: []saleapp.LocalSaleDetailRequest{{Style: "WHOLE", Items: []saleapp.LocalItemRequest{
			{Size: paid.Size, Customer: paid.Customer, Pounds: paid.Pounds, Price: paid.Price, PaymentStatus: string(paid.PaymentStatus)},
		}}},
		CompanyDetail: &saleapp.LocalCompanyDetailRequest{
			CompanyID:           uuid.New(),
			RetentionPercentage: decimal.NewFromInt(5),
			Items: []saleapp.SaleItemRequest{
				{Style: item.Style, Class: item.Class, Size: item.Size, Pounds: item.Pounds, Price: item.Price},
			},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, ls.CompanyDetail)
	assert.Equal(t, string(sale.LocalSaleStatusInProgress), ls.Status)
	require.True(t, ls.CompanyDetail.NetGrandTotal.Equal(decimal.NewFromInt(95)))

	svc := NewLocalCompanySaleDetailPaymentService(env.uow)
	_, err = svc.Create(ctx, env.input(ls.CompanyDetail.ID, "95"))
	require.NoError(t, err)

	got, err := env.uow.Reader().LocalSales().FindByID(ctx, ls.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.PaymentStatusPaid, got.CompanyDetail.PaymentStatus)
	assert.Equal(t, sale.LocalSaleStatusCompleted, got.Status)

	_, err = svc.Create(ctx, env.input(ls.CompanyDetail.ID, "0.01"))
	assert.True(t, errors.Is(err, shared.ErrOverpaymentRejected))
}

func TestLedger_RemovedParentIsNotFound(t *testing.T) {
	env := setupLedgerEnv(t)
	ctx := context.Background()
	svc := NewPurchasePaymentService(env.uow)
	p := env.fx.Purchase(decimal.NewFromInt(1000))
	payment, err := svc.Create(ctx, env.input(p.ID, "100"))
	require.NoError(t, err)

	require.NoError(t, env.uow.Reader().Purchases().SoftDelete(ctx, p.ID, p.CreatedAt))

	_, err = svc.Create(ctx, env.input(p.ID, "100"))
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	amount := decimal.NewFromInt(50)
	_, err = svc.Update(ctx, payment.ID, UpdatePaymentInput{Amount: &amount})
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
