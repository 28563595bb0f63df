package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLocalSaleRepository implements sale.LocalSaleRepository using GORM.
// Finders load the detail groups with their items and the company detail
// with its items.
type GormLocalSaleRepository struct {
	db *gorm.DB
}

// NewGormLocalSaleRepository creates a new GormLocalSaleRepository
func NewGormLocalSaleRepository(db *gorm.DB) *GormLocalSaleRepository {
	return &GormLocalSaleRepository{db: db}
}

// FindByID finds a local sale by its ID
func (r *GormLocalSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.LocalSale, error) {
	var model models.LocalSaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "local sale", id)
	}
	return r.load(ctx, &model)
}

// FindByIDForUpdate finds a local sale and locks its row
func (r *GormLocalSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sale.LocalSale, error) {
	var model models.LocalSaleModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "local sale", id)
	}
	return r.load(ctx, &model)
}

// FindBySale finds the non-deleted local sale hanging off a sale
func (r *GormLocalSaleRepository) FindBySale(ctx context.Context, saleID uuid.UUID) (*sale.LocalSale, error) {
	var model models.LocalSaleModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		return nil, translate(err, "local sale of sale", saleID)
	}
	return r.load(ctx, &model)
}

func (r *GormLocalSaleRepository) load(ctx context.Context, model *models.LocalSaleModel) (*sale.LocalSale, error) {
	s := model.ToDomain()

	var detailRows []models.LocalSaleDetailModel
	if err := r.db.WithContext(ctx).
		Where("local_sale_id = ?", s.ID).
		Order("style ASC").
		Find(&detailRows).Error; err != nil {
		return nil, fmt.Errorf("list details of local sale %s: %w", s.ID, err)
	}
	s.Details = make([]sale.LocalSaleDetail, len(detailRows))
	for i := range detailRows {
		items, err := r.findItems(ctx, detailRows[i].ID)
		if err != nil {
			return nil, err
		}
		s.Details[i] = detailRows[i].ToDomain(items)
	}

	var company models.LocalCompanySaleDetailModel
	err := r.db.WithContext(ctx).Where("local_sale_id = ?", s.ID).Take(&company).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, fmt.Errorf("find company detail of local sale %s: %w", s.ID, err)
	default:
		items, err := findSaleItems(ctx, r.db, company.ID)
		if err != nil {
			return nil, err
		}
		s.CompanyDetail = company.ToDomain(items)
	}
	return s, nil
}

func (r *GormLocalSaleRepository) findItems(ctx context.Context, detailID uuid.UUID) ([]sale.LocalItem, error) {
	var rows []models.LocalSaleItemModel
	if err := r.db.WithContext(ctx).
		Where("detail_id = ?", detailID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list items of local sale detail %s: %w", detailID, err)
	}
	out := make([]sale.LocalItem, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts the local sale row
func (r *GormLocalSaleRepository) Create(ctx context.Context, s *sale.LocalSale) error {
	if err := r.db.WithContext(ctx).Create(models.LocalSaleModelFromDomain(s)).Error; err != nil {
		return fmt.Errorf("create local sale: %w", err)
	}
	return nil
}

// Update writes every column of the local sale row
func (r *GormLocalSaleRepository) Update(ctx context.Context, s *sale.LocalSale) error {
	model := models.LocalSaleModelFromDomain(s)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", "deleted_at").Updates(model)
	return expectOne(result, "local sale", s.ID)
}

// UpdateStatus writes only the status column
func (r *GormLocalSaleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status sale.LocalSaleStatus) error {
	result := r.db.WithContext(ctx).Model(&models.LocalSaleModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	return expectOne(result, "local sale", id)
}

// SoftDelete stamps deleted_at on a local sale
func (r *GormLocalSaleRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.LocalSaleModel{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	return expectOne(result, "local sale", id)
}

// CreateDetail inserts a detail group row; its items are written separately
func (r *GormLocalSaleRepository) CreateDetail(ctx context.Context, d *sale.LocalSaleDetail) error {
	if err := r.db.WithContext(ctx).Create(models.LocalSaleDetailModelFromDomain(d)).Error; err != nil {
		return fmt.Errorf("create local sale detail: %w", err)
	}
	return nil
}

// UpdateDetail rewrites the totals of a detail group row
func (r *GormLocalSaleRepository) UpdateDetail(ctx context.Context, d *sale.LocalSaleDetail) error {
	result := r.db.WithContext(ctx).Model(&models.LocalSaleDetailModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"grand_total":    d.GrandTotal,
			"received_total": d.ReceivedTotal,
			"updated_at":     time.Now(),
		})
	return expectOne(result, "local sale detail", d.ID)
}

// DeleteDetailPermanently removes a detail group row
func (r *GormLocalSaleRepository) DeleteDetailPermanently(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LocalSaleDetailModel{})
	return expectOne(result, "local sale detail", id)
}

// CreateItems inserts local sale items in one statement
func (r *GormLocalSaleRepository) CreateItems(ctx context.Context, items []sale.LocalItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.LocalSaleItemModel, len(items))
	for i, it := range items {
		rows[i] = models.LocalSaleItemModelFromDomain(it)
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("create local sale items: %w", err)
	}
	return nil
}

// DeleteItemsByDetailPermanently removes every item of a detail group
func (r *GormLocalSaleRepository) DeleteItemsByDetailPermanently(ctx context.Context, detailID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("detail_id = ?", detailID).Delete(&models.LocalSaleItemModel{}).Error; err != nil {
		return fmt.Errorf("delete items of local sale detail %s: %w", detailID, err)
	}
	return nil
}

// FindItemByID finds a local sale item by its ID
func (r *GormLocalSaleRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*sale.LocalItem, error) {
	var model models.LocalSaleItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "local sale item", id)
	}
	it := model.ToDomain()
	return &it, nil
}

// FindCompanyDetailByID finds a company detail whose local sale is not deleted
func (r *GormLocalSaleRepository) FindCompanyDetailByID(ctx context.Context, id uuid.UUID) (*sale.LocalCompanySaleDetail, error) {
	return r.findCompanyDetail(ctx, r.db.WithContext(ctx), id)
}

// FindCompanyDetailForUpdate is FindCompanyDetailByID holding a row lock on the detail
func (r *GormLocalSaleRepository) FindCompanyDetailForUpdate(ctx context.Context, id uuid.UUID) (*sale.LocalCompanySaleDetail, error) {
	return r.findCompanyDetail(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormLocalSaleRepository) findCompanyDetail(ctx context.Context, query *gorm.DB, id uuid.UUID) (*sale.LocalCompanySaleDetail, error) {
	var model models.LocalCompanySaleDetailModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "local company sale detail", id)
	}
	// A detail of a removed local sale is gone as well.
	var live int64
	if err := r.db.WithContext(ctx).Model(&models.LocalSaleModel{}).
		Where("id = ?", model.LocalSaleID).
		Count(&live).Error; err != nil {
		return nil, fmt.Errorf("local sale %s: %w", model.LocalSaleID, err)
	}
	if live == 0 {
		return nil, shared.NotFound("local company sale detail", id)
	}
	items, err := findSaleItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(items), nil
}

// CreateCompanyDetail inserts the company detail row; its items are written separately
func (r *GormLocalSaleRepository) CreateCompanyDetail(ctx context.Context, d *sale.LocalCompanySaleDetail) error {
	if err := r.db.WithContext(ctx).Create(models.LocalCompanySaleDetailModelFromDomain(d)).Error; err != nil {
		return fmt.Errorf("create local company sale detail: %w", err)
	}
	return nil
}

// UpdateCompanyDetail writes every column of the company detail row
func (r *GormLocalSaleRepository) UpdateCompanyDetail(ctx context.Context, d *sale.LocalCompanySaleDetail) error {
	model := models.LocalCompanySaleDetailModelFromDomain(d)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at").Updates(model)
	return expectOne(result, "local company sale detail", d.ID)
}

// UpdateCompanyDetailStatus writes only the payment status column
func (r *GormLocalSaleRepository) UpdateCompanyDetailStatus(ctx context.Context, id uuid.UUID, status ledger.PaymentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.LocalCompanySaleDetailModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": string(status), "updated_at": time.Now()})
	return expectOne(result, "local company sale detail", id)
}

// DeleteCompanyDetailPermanently removes the company detail row
func (r *GormLocalSaleRepository) DeleteCompanyDetailPermanently(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.LocalCompanySaleDetailModel{})
	return expectOne(result, "local company sale detail", id)
}

var _ sale.LocalSaleRepository = (*GormLocalSaleRepository)(nil)
