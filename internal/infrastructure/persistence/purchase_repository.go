package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements purchase.Repository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "purchase", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a purchase and locks its row (SELECT ... FOR UPDATE)
func (r *GormPurchaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	var model models.PurchaseModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "purchase", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists purchases with filtering and pagination. Supported filters:
// status, client_id, company_id, buyer_id.
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseModel{})
	for _, key := range []string{"status", "client_id", "company_id", "buyer_id"} {
		if v, ok := filter.Filters[key]; ok && v != nil && v != "" {
			query = query.Where(key+" = ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count purchases: %w", err)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.PurchaseModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list purchases: %w", err)
	}
	out := make([]purchase.Purchase, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Create inserts a new purchase
func (r *GormPurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	if err := r.db.WithContext(ctx).Create(models.PurchaseModelFromDomain(p)).Error; err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// Update writes every column of an existing, non-deleted purchase
func (r *GormPurchaseRepository) Update(ctx context.Context, p *purchase.Purchase) error {
	model := models.PurchaseModelFromDomain(p)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", "deleted_at").Updates(model)
	return expectOne(result, "purchase", p.ID)
}

// UpdateStatus writes only the status column
func (r *GormPurchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status purchase.Status) error {
	result := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	return expectOne(result, "purchase", id)
}

// SoftDelete stamps deleted_at on a purchase that is not already deleted
func (r *GormPurchaseRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.PurchaseModel{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	return expectOne(result, "purchase", id)
}

var _ purchase.Repository = (*GormPurchaseRepository)(nil)
