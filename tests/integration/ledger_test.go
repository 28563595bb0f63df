//go:build integration

package integration

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	logisticsapp "github.com/chamanguitech/backend/internal/application/logistics"
	purchaseapp "github.com/chamanguitech/backend/internal/application/purchase"
	saleapp "github.com/chamanguitech/backend/internal/application/sale"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/cache"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/chamanguitech/backend/internal/interfaces/http/handler"
	"github.com/chamanguitech/backend/internal/interfaces/http/middleware"
	"github.com/chamanguitech/backend/internal/interfaces/http/router"
	"github.com/chamanguitech/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestPurchaseLedger_ConcurrentPaymentsNeverExceedTotal(t *testing.T) {
	tdb := NewTestDB(t)
	fx := testutil.NewFixtures(t, tdb.DB)
	uow := persistence.NewGormUnitOfWork(tdb.DB)
	svc := ledgerapp.NewPurchasePaymentService(uow)
	ctx := context.Background()

	method := fx.PaymentMethod()
	p := fx.Purchase(decimal.NewFromInt(1000))

	const writers = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
		other    []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, ledgerapp.CreatePaymentInput{
				ParentID:        p.ID,
				PaymentMethodID: method.ID,
				Amount:          decimal.NewFromInt(150),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, shared.ErrOverpaymentRejected):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 6, accepted)
	assert.Equal(t, 4, rejected)

	summary, err := svc.Summary(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(900)), "total paid %s", summary.TotalPaid)
	assert.Equal(t, string(purchase.StatusInProgress), summary.Status)
}

func TestPurchaseRemove_CascadeKeepsPayments(t *testing.T) {
	tdb := NewTestDB(t)
	fx := testutil.NewFixtures(t, tdb.DB)
	uow := persistence.NewGormUnitOfWork(tdb.DB)
	ctx := context.Background()

	purchases := purchaseapp.NewPurchaseService(uow)
	payments := ledgerapp.NewPurchasePaymentService(uow)

	method := fx.PaymentMethod()
	p := fx.Purchase(decimal.NewFromInt(500))
	_, err := payments.Create(ctx, ledgerapp.CreatePaymentInput{
		ParentID:        p.ID,
		PaymentMethodID: method.ID,
		Amount:          decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	result, err := purchases.Remove(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)

	_, err = purchases.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	var kept int64
	require.NoError(t, tdb.DB.Model(&models.PurchasePaymentModel{}).Where("purchase_id = ?", p.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)

	_, err = purchases.Remove(ctx, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestAPI_PurchasePaymentFlow(t *testing.T) {
	tdb := NewTestDB(t)
	fx := testutil.NewFixtures(t, tdb.DB)
	uow := persistence.NewGormUnitOfWork(tdb.DB)
	store := cache.NewInMemoryIdempotencyStore(0)
	t.Cleanup(func() { _ = store.Close() })

	purchaseService := purchaseapp.NewPurchaseService(uow)
	purchasePayments := ledgerapp.NewPurchasePaymentService(uow)
	logisticsService := logisticsapp.NewLogisticsService(uow)
	companySalePayments := ledgerapp.NewCompanySalePaymentService(uow)
	detailPayments := ledgerapp.NewLocalCompanySaleDetailPaymentService(uow)

	engine, err := router.NewEngine(router.Options{
		Idempotency:    store,
		IdempotencyTTL: middleware.DefaultIdempotencyTTL,
	}, router.Handlers{
		Health:                         handler.NewHealthHandler("chamangui", "test", tdb.SqlDB),
		PaymentMethods:                 handler.NewPaymentMethodHandler(ledgerapp.NewPaymentMethodService(uow)),
		Purchases:                      handler.NewPurchaseHandler(purchaseService, purchasePayments, logisticsService),
		PurchasePayments:               handler.NewPaymentHandler(purchasePayments),
		CompanySales:                   handler.NewCompanySaleHandler(saleapp.NewCompanySaleService(uow)),
		CompanySalePayments:            handler.NewPaymentHandler(companySalePayments),
		LocalSales:                     handler.NewLocalSaleHandler(saleapp.NewLocalSaleService(uow)),
		LocalCompanySaleDetailPayments: handler.NewPaymentHandler(detailPayments),
		Logistics:                      handler.NewLogisticsHandler(logisticsService),
	})
	require.NoError(t, err)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/ready", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	method := fx.PaymentMethod()
	terms := fx.PurchaseTerms(decimal.NewFromInt(800))
	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchases", map[string]any{
		"buyer_id":            uuid.New(),
		"client_id":           terms.ClientID,
		"company_id":          terms.CompanyID,
		"shrimp_farm_id":      terms.ShrimpFarmID,
		"invoice_number":      terms.InvoiceNumber,
		"average_grams":       terms.AverageGrams,
		"price":               terms.Price,
		"pounds_purchased":    terms.PoundsPurchased,
		"total_agreed_to_pay": terms.TotalAgreedToPay,
	}, nil)
	testutil.AssertStatus(t, w, http.StatusCreated)
	created := testutil.DecodeData[purchaseapp.PurchaseResponse](t, w)

	pay := func(key, amount string) int {
		w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchase-payments", map[string]any{
			"purchase_id":       created.ID,
			"payment_method_id": method.ID,
			"amount":            amount,
		}, map[string]string{middleware.IdempotencyHeader: key})
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, pay("first", "300"))
	assert.Equal(t, http.StatusConflict, pay("first", "300"), "replayed key")
	assert.Equal(t, http.StatusConflict, pay("too-much", "600"), "overpayment")
	assert.Equal(t, http.StatusCreated, pay("too-much", "500"), "released key after rejection")

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/api/v1/purchases/"+created.ID.String()+"/payments", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	summary := testutil.DecodeData[ledgerapp.SummaryResponse](t, w)
	assert.True(t, summary.Remaining.IsZero())
	assert.Len(t, summary.Payments, 2)
	assert.Equal(t, string(purchase.StatusCompleted), summary.Status)
}
