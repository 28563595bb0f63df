package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanySaleRepository implements sale.CompanySaleRepository using GORM.
// Each write touches a single table; callers order item, detail and sale
// writes themselves.
type GormCompanySaleRepository struct {
	db *gorm.DB
}

// NewGormCompanySaleRepository creates a new GormCompanySaleRepository
func NewGormCompanySaleRepository(db *gorm.DB) *GormCompanySaleRepository {
	return &GormCompanySaleRepository{db: db}
}

// FindByID finds a company sale by its ID with both details loaded
func (r *GormCompanySaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.CompanySale, error) {
	var model models.CompanySaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "company sale", id)
	}
	return r.load(ctx, &model)
}

// FindByIDForUpdate finds a company sale and locks its row
func (r *GormCompanySaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sale.CompanySale, error) {
	var model models.CompanySaleModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "company sale", id)
	}
	return r.load(ctx, &model)
}

// FindBySale finds the non-deleted company sale hanging off a sale
func (r *GormCompanySaleRepository) FindBySale(ctx context.Context, saleID uuid.UUID) (*sale.CompanySale, error) {
	var model models.CompanySaleModel
	if err := r.db.WithContext(ctx).First(&model, "sale_id = ?", saleID).Error; err != nil {
		return nil, translate(err, "company sale of sale", saleID)
	}
	return r.load(ctx, &model)
}

func (r *GormCompanySaleRepository) load(ctx context.Context, model *models.CompanySaleModel) (*sale.CompanySale, error) {
	s := model.ToDomain()
	var err error
	if s.WholeDetailID != nil {
		if s.WholeDetail, err = r.findDetail(ctx, *s.WholeDetailID); err != nil {
			return nil, err
		}
	}
	if s.TailDetailID != nil {
		if s.TailDetail, err = r.findDetail(ctx, *s.TailDetailID); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *GormCompanySaleRepository) findDetail(ctx context.Context, id uuid.UUID) (*sale.CompanySaleDetail, error) {
	var model models.CompanySaleDetailModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "company sale detail", id)
	}
	items, err := findSaleItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(items), nil
}

// Create inserts the company sale row
func (r *GormCompanySaleRepository) Create(ctx context.Context, s *sale.CompanySale) error {
	if err := r.db.WithContext(ctx).Create(models.CompanySaleModelFromDomain(s)).Error; err != nil {
		return fmt.Errorf("create company sale: %w", err)
	}
	return nil
}

// Update writes every column of the company sale row, including the detail references
func (r *GormCompanySaleRepository) Update(ctx context.Context, s *sale.CompanySale) error {
	model := models.CompanySaleModelFromDomain(s)
	result := r.db.WithContext(ctx).Model(model).Select("*").Omit("id", "created_at", "deleted_at").Updates(model)
	return expectOne(result, "company sale", s.ID)
}

// UpdateStatus writes only the status column
func (r *GormCompanySaleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status sale.CompanySaleStatus) error {
	result := r.db.WithContext(ctx).Model(&models.CompanySaleModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	return expectOne(result, "company sale", id)
}

// SoftDelete stamps deleted_at on a company sale
func (r *GormCompanySaleRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.CompanySaleModel{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	return expectOne(result, "company sale", id)
}

// CreateDetail inserts a detail row; its items are written separately
func (r *GormCompanySaleRepository) CreateDetail(ctx context.Context, d *sale.CompanySaleDetail) error {
	if err := r.db.WithContext(ctx).Create(models.CompanySaleDetailModelFromDomain(d)).Error; err != nil {
		return fmt.Errorf("create company sale detail: %w", err)
	}
	return nil
}

// UpdateDetail rewrites the totals of a detail row
func (r *GormCompanySaleRepository) UpdateDetail(ctx context.Context, d *sale.CompanySaleDetail) error {
	result := r.db.WithContext(ctx).Model(&models.CompanySaleDetailModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"kind":         string(d.Kind),
			"total_pounds": d.TotalPounds,
			"grand_total":  d.GrandTotal,
			"updated_at":   time.Now(),
		})
	return expectOne(result, "company sale detail", d.ID)
}

// DeleteDetailPermanently removes a detail row
func (r *GormCompanySaleRepository) DeleteDetailPermanently(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CompanySaleDetailModel{})
	return expectOne(result, "company sale detail", id)
}

var _ sale.CompanySaleRepository = (*GormCompanySaleRepository)(nil)
