package router

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/auth"
	"github.com/chamanguitech/backend/internal/infrastructure/cache"
	"github.com/chamanguitech/backend/internal/interfaces/http/handler"
	"github.com/chamanguitech/backend/internal/interfaces/http/middleware"
	"github.com/chamanguitech/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type rejectAll struct{}

func (rejectAll) Verify(string) (*auth.Claims, error) { return nil, errors.New("signature is invalid") }

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

// countingLedger records how many payments it was asked to create.
type countingLedger struct {
	kind    ledger.Kind
	created atomic.Int32
	err     error
}

func (l *countingLedger) Kind() ledger.Kind { return l.kind }

func (l *countingLedger) Create(_ context.Context, in ledgerapp.CreatePaymentInput) (*ledger.Payment, error) {
	l.created.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return ledger.NewPayment(in.ParentID, in.PaymentMethodID, in.Amount, time.Now())
}

func (l *countingLedger) Update(context.Context, uuid.UUID, ledgerapp.UpdatePaymentInput) (*ledger.Payment, error) {
	return nil, shared.ErrNotFound
}

func (l *countingLedger) Remove(context.Context, uuid.UUID) error { return nil }

func (l *countingLedger) Summary(_ context.Context, parentID uuid.UUID) (*ledgerapp.Summary, error) {
	return &ledgerapp.Summary{ParentID: parentID, Status: "PENDING"}, nil
}

func testHandlers(payments handler.LedgerService) Handlers {
	return Handlers{
		Health:                         handler.NewHealthHandler("chamangui", "test", pinger{}),
		PaymentMethods:                 handler.NewPaymentMethodHandler(nil),
		Purchases:                      handler.NewPurchaseHandler(nil, payments, nil),
		PurchasePayments:               handler.NewPaymentHandler(payments),
		CompanySales:                   handler.NewCompanySaleHandler(nil),
		CompanySalePayments:            handler.NewPaymentHandler(&countingLedger{kind: ledger.KindCompanySale}),
		LocalSales:                     handler.NewLocalSaleHandler(nil),
		LocalCompanySaleDetailPayments: handler.NewPaymentHandler(&countingLedger{kind: ledger.KindLocalCompanySaleDetail}),
		Logistics:                      handler.NewLogisticsHandler(nil),
	}
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewResourceGroup("/things").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		POST("", func(c *gin.Context) { c.String(http.StatusCreated, "create") })

	api := NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()
	assert.Equal(t, "/api/v2", api.BasePath())

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/v2/things", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/v2/things", nil, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestResourceGroup_Middleware(t *testing.T) {
	engine := gin.New()
	group := NewResourceGroup("/guarded").
		Use(func(c *gin.Context) { c.Header("X-Guarded", "yes") }).
		PATCH("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
		DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, "/guarded", group.Prefix())
	NewRouter(engine).Register(group).Setup()

	w := testutil.PerformRequest(t, engine, http.MethodPatch, "/api/v1/guarded/abc", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Guarded"))

	w = testutil.PerformRequest(t, engine, http.MethodDelete, "/api/v1/guarded/abc", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNewEngine_Routes(t *testing.T) {
	engine, err := NewEngine(Options{CORS: middleware.DefaultCORSConfig()}, testHandlers(&countingLedger{kind: ledger.KindPurchase}))
	require.NoError(t, err)

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/health",
		"GET /api/v1/ready",
		"GET /api/v1/payment-methods",
		"POST /api/v1/payment-methods",
		"POST /api/v1/purchases",
		"GET /api/v1/purchases",
		"GET /api/v1/purchases/:id",
		"PUT /api/v1/purchases/:id",
		"PATCH /api/v1/purchases/:id/status",
		"DELETE /api/v1/purchases/:id",
		"GET /api/v1/purchases/:id/payments",
		"GET /api/v1/purchases/:id/logistics",
		"POST /api/v1/purchase-payments",
		"PUT /api/v1/purchase-payments/:id",
		"DELETE /api/v1/purchase-payments/:id",
		"POST /api/v1/company-sales",
		"GET /api/v1/company-sales/:id",
		"PATCH /api/v1/company-sales/:id/status",
		"GET /api/v1/company-sales/:id/payments",
		"POST /api/v1/company-sale-payments",
		"POST /api/v1/local-sales",
		"PATCH /api/v1/local-sales/:id/status",
		"GET /api/v1/local-company-sale-details/:id/payments",
		"POST /api/v1/local-company-sale-detail-payments",
		"POST /api/v1/logistics",
		"PATCH /api/v1/logistics/:id/status",
		"DELETE /api/v1/logistics/:id",
	} {
		assert.True(t, registered[want], "route %s not registered", want)
	}
}

func TestNewEngine_HealthAndUnknownRoute(t *testing.T) {
	engine, err := NewEngine(Options{}, testHandlers(&countingLedger{kind: ledger.KindPurchase}))
	require.NoError(t, err)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/health", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/api/v1/nothing-here", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestNewEngine_PaymentIdempotency(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	payments := &countingLedger{kind: ledger.KindPurchase}
	engine, err := NewEngine(Options{
		Idempotency:    store,
		IdempotencyTTL: time.Hour,
	}, testHandlers(payments))
	require.NoError(t, err)

	body := map[string]any{
		"purchase_id":       uuid.New(),
		"payment_method_id": uuid.New(),
		"amount":            decimal.NewFromInt(150),
	}
	headers := map[string]string{middleware.IdempotencyHeader: "pay-1"}

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchase-payments", body, headers)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchase-payments", body, headers)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "DUPLICATE_REQUEST")
	assert.Equal(t, int32(1), payments.created.Load())

	// A different key is a different request.
	headers[middleware.IdempotencyHeader] = "pay-2"
	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchase-payments", body, headers)
	testutil.AssertStatus(t, w, http.StatusCreated)
	assert.Equal(t, int32(2), payments.created.Load())
}

func TestNewEngine_FailedPaymentReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Close()

	payments := &countingLedger{kind: ledger.KindPurchase, err: shared.ErrOverpaymentRejected}
	engine, err := NewEngine(Options{Idempotency: store, IdempotencyTTL: time.Hour}, testHandlers(payments))
	require.NoError(t, err)

	body := map[string]any{
		"purchase_id":       uuid.New(),
		"payment_method_id": uuid.New(),
		"amount":            "999999.00",
	}
	headers := map[string]string{middleware.IdempotencyHeader: "retry-me"}

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchase-payments", body, headers)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "OVERPAYMENT_REJECTED")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/api/v1/purchase-payments", body, headers)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "OVERPAYMENT_REJECTED")
	assert.Equal(t, int32(2), payments.created.Load())
}

func TestNewEngine_RequiresTokenWhenVerifierSet(t *testing.T) {
	engine, err := NewEngine(Options{TokenVerifier: rejectAll{}}, testHandlers(&countingLedger{kind: ledger.KindPurchase}))
	require.NoError(t, err)

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/v1/purchases/"+uuid.NewString()+"/payments", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/health", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
}
