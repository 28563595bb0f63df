package router

import (
	"net/http"
	"time"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/logger"
	"github.com/chamanguitech/backend/internal/interfaces/http/dto"
	"github.com/chamanguitech/backend/internal/interfaces/http/handler"
	"github.com/chamanguitech/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the endpoint handlers mounted by NewEngine
type Handlers struct {
	Health                         *handler.HealthHandler
	PaymentMethods                 *handler.PaymentMethodHandler
	Purchases                      *handler.PurchaseHandler
	PurchasePayments               *handler.PaymentHandler
	CompanySales                   *handler.CompanySaleHandler
	CompanySalePayments            *handler.PaymentHandler
	LocalSales                     *handler.LocalSaleHandler
	LocalCompanySaleDetailPayments *handler.PaymentHandler
	Logistics                      *handler.LogisticsHandler
}

// Options configure the middleware chain. Nil collaborators switch the
// matching middleware off.
type Options struct {
	Logger           *zap.Logger
	ServiceName      string
	TracingEnabled   bool
	Meter            metric.Meter
	ProfilingEnabled bool
	CORS             middleware.CORSConfig
	MaxBodySize      int64
	RateLimiter      *middleware.RateLimiter
	TokenVerifier    middleware.TokenVerifier
	Idempotency      shared.IdempotencyStore
	IdempotencyTTL   time.Duration
	TrustedProxies   []string
}

var probePaths = []string{"/health", "/ready", "/api/v1/health", "/api/v1/ready"}

// NewEngine builds the gin engine: request id, recovery, request log,
// tracing, metrics, profiling labels, security headers, CORS, body limit,
// rate limit, caller identity, then the /api/v1 routes.
func NewEngine(opts Options, h Handlers) (*gin.Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}

	metrics, err := middleware.HTTPMetrics(opts.Meter)
	if err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(opts.Logger),
		logger.GinMiddleware(opts.Logger),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: opts.ServiceName,
			Enabled:     opts.TracingEnabled,
			SkipPaths:   probePaths,
		}),
		metrics,
		middleware.Profiling(opts.ProfilingEnabled),
		middleware.Secure(),
		middleware.CORS(opts.CORS),
		middleware.BodyLimit(opts.MaxBodySize),
	)
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}
	if opts.TokenVerifier != nil {
		engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Verifier:  opts.TokenVerifier,
			SkipPaths: probePaths,
		}))
	}
	engine.Use(middleware.TraceAttributes())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	r := NewRouter(engine)
	for _, g := range resourceGroups(h, idempotency(opts)) {
		r.Register(g)
	}
	api := r.Setup()
	api.GET("/health", h.Health.Health)
	api.GET("/ready", h.Health.Ready)

	return engine, nil
}

func idempotency(opts Options) gin.HandlerFunc {
	if opts.Idempotency == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.Idempotency(opts.Idempotency, opts.IdempotencyTTL)
}

func resourceGroups(h Handlers, idem gin.HandlerFunc) []*ResourceGroup {
	return []*ResourceGroup{
		NewResourceGroup("/payment-methods").
			GET("", h.PaymentMethods.List).
			POST("", h.PaymentMethods.Create),

		NewResourceGroup("/purchases").
			POST("", h.Purchases.Create).
			GET("", h.Purchases.List).
			GET("/:id", h.Purchases.Get).
			PUT("/:id", h.Purchases.Update).
			PATCH("/:id/status", h.Purchases.UpdateStatus).
			DELETE("/:id", h.Purchases.Delete).
			GET("/:id/payments", h.Purchases.Payments).
			GET("/:id/logistics", h.Purchases.Logistics),

		paymentGroup("/purchase-payments", h.PurchasePayments, idem),

		NewResourceGroup("/company-sales").
			POST("", h.CompanySales.Create).
			GET("/:id", h.CompanySales.Get).
			PUT("/:id", h.CompanySales.Update).
			PATCH("/:id/status", h.CompanySales.UpdateStatus).
			DELETE("/:id", h.CompanySales.Delete).
			GET("/:id/payments", h.CompanySalePayments.Summary),

		paymentGroup("/company-sale-payments", h.CompanySalePayments, idem),

		NewResourceGroup("/local-sales").
			POST("", h.LocalSales.Create).
			GET("/:id", h.LocalSales.Get).
			PUT("/:id", h.LocalSales.Update).
			PATCH("/:id/status", h.LocalSales.UpdateStatus).
			DELETE("/:id", h.LocalSales.Delete),

		NewResourceGroup("/local-company-sale-details").
			GET("/:id/payments", h.LocalCompanySaleDetailPayments.Summary),

		paymentGroup("/local-company-sale-detail-payments", h.LocalCompanySaleDetailPayments, idem),

		NewResourceGroup("/logistics").
			POST("", h.Logistics.Create).
			GET("/:id", h.Logistics.Get).
			PUT("/:id", h.Logistics.Update).
			PATCH("/:id/status", h.Logistics.UpdateStatus).
			DELETE("/:id", h.Logistics.Delete),
	}
}

func paymentGroup(prefix string, h *handler.PaymentHandler, idem gin.HandlerFunc) *ResourceGroup {
	return NewResourceGroup(prefix).
		POST("", idem, h.Create).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}
