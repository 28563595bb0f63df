package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements sale.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "sale", id)
	}
	return model.ToDomain(), nil
}

// FindActiveByPurchase finds the non-deleted sale of a purchase
func (r *GormSaleRepository) FindActiveByPurchase(ctx context.Context, purchaseID uuid.UUID) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		return nil, translate(err, "sale of purchase", purchaseID)
	}
	return model.ToDomain(), nil
}

// Create inserts a sale
func (r *GormSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	if err := r.db.WithContext(ctx).Create(models.SaleModelFromDomain(s)).Error; err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at on a sale
func (r *GormSaleRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	return expectOne(result, "sale", id)
}

var _ sale.Repository = (*GormSaleRepository)(nil)

// GormSaleItemRepository implements sale.ItemRepository using GORM. Items
// are hard-deleted with their detail's item set.
type GormSaleItemRepository struct {
	db *gorm.DB
}

// NewGormSaleItemRepository creates a new GormSaleItemRepository
func NewGormSaleItemRepository(db *gorm.DB) *GormSaleItemRepository {
	return &GormSaleItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormSaleItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Item, error) {
	var model models.SaleItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "sale item", id)
	}
	it := model.ToDomain()
	return &it, nil
}

// FindByDetail lists the items of a detail in position order
func (r *GormSaleItemRepository) FindByDetail(ctx context.Context, detailID uuid.UUID) ([]sale.Item, error) {
	return findSaleItems(ctx, r.db, detailID)
}

// CreateBatch inserts items in one statement
func (r *GormSaleItemRepository) CreateBatch(ctx context.Context, items []sale.Item) error {
	return createSaleItems(ctx, r.db, items)
}

// DeleteByDetailPermanently removes every item of a detail
func (r *GormSaleItemRepository) DeleteByDetailPermanently(ctx context.Context, detailID uuid.UUID) error {
	return deleteSaleItems(ctx, r.db, detailID)
}

var _ sale.ItemRepository = (*GormSaleItemRepository)(nil)

func findSaleItems(ctx context.Context, db *gorm.DB, detailID uuid.UUID) ([]sale.Item, error) {
	var rows []models.SaleItemModel
	if err := db.WithContext(ctx).
		Where("detail_id = ?", detailID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list items of detail %s: %w", detailID, err)
	}
	out := make([]sale.Item, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func createSaleItems(ctx context.Context, db *gorm.DB, items []sale.Item) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.SaleItemModel, len(items))
	for i, it := range items {
		rows[i] = models.SaleItemModelFromDomain(it)
	}
	if err := db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("create sale items: %w", err)
	}
	return nil
}

func deleteSaleItems(ctx context.Context, db *gorm.DB, detailID uuid.UUID) error {
	if err := db.WithContext(ctx).Where("detail_id = ?", detailID).Delete(&models.SaleItemModel{}).Error; err != nil {
		return fmt.Errorf("delete items of detail %s: %w", detailID, err)
	}
	return nil
}
