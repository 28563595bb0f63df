package sale

import (
	"context"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/google/uuid"
)

// Repository persists the Sale join rows.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindActiveByPurchase returns the non-deleted sale of a purchase or NOT_FOUND.
	FindActiveByPurchase(ctx context.Context, purchaseID uuid.UUID) (*Sale, error)
	Create(ctx context.Context, s *Sale) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ItemRepository persists company sale items and local company sale items.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByDetail(ctx context.Context, detailID uuid.UUID) ([]Item, error)
	CreateBatch(ctx context.Context, items []Item) error
	DeleteByDetailPermanently(ctx context.Context, detailID uuid.UUID) error
}

// CompanySaleRepository persists company sales and their details. Finders
// load both details with their items.
type CompanySaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CompanySale, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*CompanySale, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) (*CompanySale, error)
	Create(ctx context.Context, s *CompanySale) error
	Update(ctx context.Context, s *CompanySale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status CompanySaleStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateDetail(ctx context.Context, d *CompanySaleDetail) error
	UpdateDetail(ctx context.Context, d *CompanySaleDetail) error
	DeleteDetailPermanently(ctx context.Context, id uuid.UUID) error
}

// LocalSaleRepository persists local sales with their detail groups and the
// optional company detail. Finders load the whole tree.
type LocalSaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LocalSale, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LocalSale, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) (*LocalSale, error)
	Create(ctx context.Context, s *LocalSale) error
	Update(ctx context.Context, s *LocalSale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status LocalSaleStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateDetail(ctx context.Context, d *LocalSaleDetail) error
	UpdateDetail(ctx context.Context, d *LocalSaleDetail) error
	DeleteDetailPermanently(ctx context.Context, id uuid.UUID) error
	CreateItems(ctx context.Context, items []LocalItem) error
	DeleteItemsByDetailPermanently(ctx context.Context, detailID uuid.UUID) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*LocalItem, error)

	FindCompanyDetailByID(ctx context.Context, id uuid.UUID) (*LocalCompanySaleDetail, error)
	FindCompanyDetailForUpdate(ctx context.Context, id uuid.UUID) (*LocalCompanySaleDetail, error)
	CreateCompanyDetail(ctx context.Context, d *LocalCompanySaleDetail) error
	UpdateCompanyDetail(ctx context.Context, d *LocalCompanySaleDetail) error
	UpdateCompanyDetailStatus(ctx context.Context, id uuid.UUID, status ledger.PaymentStatus) error
	DeleteCompanyDetailPermanently(ctx context.Context, id uuid.UUID) error
}
