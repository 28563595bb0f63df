package handler

import (
	"context"

	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	logisticsapp "github.com/chamanguitech/backend/internal/application/logistics"
	purchaseapp "github.com/chamanguitech/backend/internal/application/purchase"
	saleapp "github.com/chamanguitech/backend/internal/application/sale"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// The interfaces below are the slices of the application services each
// handler needs.

// PaymentMethodService manages payment methods
type PaymentMethodService interface {
	Create(ctx context.Context, req ledgerapp.CreatePaymentMethodRequest) (*ledgerapp.PaymentMethodResponse, error)
	List(ctx context.Context) ([]ledgerapp.PaymentMethodResponse, error)
}

// PurchaseService manages purchases
type PurchaseService interface {
	Create(ctx context.Context, req purchaseapp.CreatePurchaseRequest) (*purchaseapp.PurchaseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*purchaseapp.PurchaseResponse, error)
	List(ctx context.Context, query purchaseapp.ListPurchasesQuery) (*shared.Paginated[purchaseapp.PurchaseResponse], error)
	Update(ctx context.Context, id uuid.UUID, req purchaseapp.UpdatePurchaseRequest) (*purchaseapp.PurchaseResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req purchaseapp.UpdateStatusRequest) (*purchaseapp.PurchaseResponse, error)
	Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error)
}

// LedgerService records the payments of one capped ledger
type LedgerService interface {
	Kind() ledger.Kind
	Create(ctx context.Context, in ledgerapp.CreatePaymentInput) (*ledger.Payment, error)
	Update(ctx context.Context, id uuid.UUID, in ledgerapp.UpdatePaymentInput) (*ledger.Payment, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, parentID uuid.UUID) (*ledgerapp.Summary, error)
}

// CompanySaleService manages company sales
type CompanySaleService interface {
	Create(ctx context.Context, req saleapp.CreateCompanySaleRequest) (*saleapp.CompanySaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*saleapp.CompanySaleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req saleapp.UpdateCompanySaleRequest) (*saleapp.CompanySaleResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req saleapp.UpdateStatusRequest) (*saleapp.CompanySaleResponse, error)
	Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error)
}

// LocalSaleService manages local sales
type LocalSaleService interface {
	Create(ctx context.Context, req saleapp.CreateLocalSaleRequest) (*saleapp.LocalSaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*saleapp.LocalSaleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req saleapp.UpdateLocalSaleRequest) (*saleapp.LocalSaleResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req saleapp.UpdateStatusRequest) (*saleapp.LocalSaleResponse, error)
	Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error)
}

// LogisticsService manages logistics sheets
type LogisticsService interface {
	Create(ctx context.Context, req logisticsapp.CreateLogisticsRequest) (*logisticsapp.LogisticsResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*logisticsapp.LogisticsResponse, error)
	ListByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]logisticsapp.LogisticsResponse, error)
	Update(ctx context.Context, id uuid.UUID, req logisticsapp.UpdateLogisticsRequest) (*logisticsapp.LogisticsResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, req logisticsapp.UpdateStatusRequest) (*logisticsapp.LogisticsResponse, error)
	Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error)
}

var (
	_ PaymentMethodService = (*ledgerapp.PaymentMethodService)(nil)
	_ PurchaseService      = (*purchaseapp.PurchaseService)(nil)
	_ LedgerService        = (*ledgerapp.Service)(nil)
	_ CompanySaleService   = (*saleapp.CompanySaleService)(nil)
	_ LocalSaleService     = (*saleapp.LocalSaleService)(nil)
	_ LogisticsService     = (*logisticsapp.LogisticsService)(nil)
)
