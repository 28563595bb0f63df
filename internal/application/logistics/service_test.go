package logistics

import (
	"context"
	"errors"
	"testing"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence"
	"github.com/chamanguitech/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLogisticsService(t *testing.T) (*LogisticsService, *testutil.Fixtures) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return NewLogisticsService(persistence.NewGormUnitOfWork(db)), testutil.NewFixtures(t, db)
}

func content(status ledger.PaymentStatus, methodID *uuid.UUID) LogisticsContentRequest {
	return LogisticsContentRequest{
		Type: string(logistics.TypeShipment),
		Items: []LogisticsItemRequest{
			{Category: "FREIGHT", Unit: "trip", Quantity: decimal.NewFromInt(1), Cost: decimal.RequireFromString("180.00")},
			{Category: "ICE", Unit: "bag", Quantity: decimal.NewFromInt(12), Cost: decimal.RequireFromString("2.75")},
		},
		Payments: []LogisticsPaymentRequest{
			{Title: "carrier", Amount: decimal.RequireFromString("213.00"), PaymentMethodID: methodID, PaymentStatus: string(status)},
		},
	}
}

func TestLogisticsService_StatusFollowsPayments(t *testing.T) {
	svc, f := setupLogisticsService(t)
	ctx := context.Background()
	p := f.Purchase(decimal.NewFromInt(1000))
	method := f.PaymentMethod()

	created, err := svc.Create(ctx, CreateLogisticsRequest{
		PurchaseID:              p.ID,
		LogisticsContentRequest: content(ledger.PaymentStatusNoPayment, &method.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, string(logistics.StatusCreated), created.Status)
	assert.True(t, created.GrandTotal.Equal(decimal.RequireFromString("213")))

	pending, err := svc.Update(ctx, created.ID, UpdateLogisticsRequest{content(ledger.PaymentStatusPending, &method.ID)})
	require.NoError(t, err)
	assert.Equal(t, string(logistics.StatusInProgress), pending.Status)

	paid, err := svc.Update(ctx, created.ID, UpdateLogisticsRequest{content(ledger.PaymentStatusPaid, &method.ID)})
	require.NoError(t, err)
	assert.Equal(t, string(logistics.StatusCompleted), paid.Status)
}

func TestLogisticsService_Update_ReplacesChildren(t *testing.T) {
	svc, f := setupLogisticsService(t)
	ctx := context.Background()
	p := f.Purchase(decimal.NewFromInt(1000))

	created, err := svc.Create(ctx, CreateLogisticsRequest{
		PurchaseID:              p.ID,
		LogisticsContentRequest: content(ledger.PaymentStatusNoPayment, nil),
	})
	require.NoError(t, err)

	next := content(ledger.PaymentStatusNoPayment, nil)
	next.Items = next.Items[:1]
	next.Payments = nil
	_, err = svc.Update(ctx, created.ID, UpdateLogisticsRequest{next})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Empty(t, got.Payments)
	assert.NotEqual(t, created.Items[0].ID, got.Items[0].ID, "items are recreated")
	assert.True(t, got.GrandTotal.Equal(decimal.NewFromInt(180)))
}

func TestLogisticsService_ClosedIsSticky(t *testing.T) {
	svc, f := setupLogisticsService(t)
	ctx := context.Background()
	p := f.Purchase(decimal.NewFromInt(1000))

	created, err := svc.Create(ctx, CreateLogisticsRequest{
		PurchaseID:              p.ID,
		LogisticsContentRequest: content(ledger.PaymentStatusPending, nil),
	})
	require.NoError(t, err)

	closed, err := svc.ChangeStatus(ctx, created.ID, UpdateStatusRequest{Status: "CLOSED"})
	require.NoError(t, err)
	assert.Equal(t, string(logistics.StatusClosed), closed.Status)

	stillClosed, err := svc.Update(ctx, created.ID, UpdateLogisticsRequest{content(ledger.PaymentStatusPaid, nil)})
	require.NoError(t, err)
	assert.Equal(t, string(logistics.StatusClosed), stillClosed.Status)

	reopened, err := svc.ChangeStatus(ctx, created.ID, UpdateStatusRequest{Status: "CREATED"})
	require.NoError(t, err)
	assert.Equal(t, string(logistics.StatusCompleted), reopened.Status)
}

func TestLogisticsService_Create_Rejections(t *testing.T) {
	svc, f := setupLogisticsService(t)
	ctx := context.Background()
	p := f.Purchase(decimal.NewFromInt(1000))
	missing := uuid.New()

	_, err := svc.Create(ctx, CreateLogisticsRequest{PurchaseID: uuid.New(), LogisticsContentRequest: content(ledger.PaymentStatusPaid, nil)})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = svc.Create(ctx, CreateLogisticsRequest{PurchaseID: p.ID, LogisticsContentRequest: content(ledger.PaymentStatusPaid, &missing)})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	empty := content(ledger.PaymentStatusPaid, nil)
	empty.Items = nil
	_, err = svc.Create(ctx, CreateLogisticsRequest{PurchaseID: p.ID, LogisticsContentRequest: empty})
	assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))

	list, err := svc.ListByPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLogisticsService_ListAndRemove(t *testing.T) {
	svc, f := setupLogisticsService(t)
	ctx := context.Background()
	p := f.Purchase(decimal.NewFromInt(1000))

	first, err := svc.Create(ctx, CreateLogisticsRequest{PurchaseID: p.ID, LogisticsContentRequest: content(ledger.PaymentStatusPaid, nil)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateLogisticsRequest{PurchaseID: p.ID, LogisticsContentRequest: content(ledger.PaymentStatusPaid, nil)})
	require.NoError(t, err)

	list, err := svc.ListByPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	result, err := svc.Remove(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, result.ID)

	list, err = svc.ListByPurchase(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, first.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
