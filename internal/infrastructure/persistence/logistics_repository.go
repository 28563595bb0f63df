package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLogisticsRepository implements logistics.Repository using GORM
type GormLogisticsRepository struct {
	db *gorm.DB
}

// NewGormLogisticsRepository creates a new GormLogisticsRepository
func NewGormLogisticsRepository(db *gorm.DB) *GormLogisticsRepository {
	return &GormLogisticsRepository{db: db}
}

// FindByID finds a logistics sheet by its ID
func (r *GormLogisticsRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Logistics, error) {
	var model models.LogisticsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "logistics", id)
	}
	return r.load(ctx, &model)
}

// FindByIDForUpdate finds a logistics sheet and locks its row
func (r *GormLogisticsRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*logistics.Logistics, error) {
	var model models.LogisticsModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "logistics", id)
	}
	return r.load(ctx, &model)
}

// FindByPurchase lists the non-deleted sheets of a purchase
func (r *GormLogisticsRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]logistics.Logistics, error) {
	var rows []models.LogisticsModel
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("logistics_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list logistics of purchase %s: %w", purchaseID, err)
	}
	out := make([]logistics.Logistics, 0, len(rows))
	for i := range rows {
		l, err := r.load(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *GormLogisticsRepository) load(ctx context.Context, model *models.LogisticsModel) (*logistics.Logistics, error) {
	var items []models.LogisticsItemModel
	if err := r.db.WithContext(ctx).
		Where("logistics_id = ?", model.ID).
		Order("position ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items of logistics %s: %w", model.ID, err)
	}
	var payments []models.LogisticsPaymentModel
	if err := r.db.WithContext(ctx).
		Where("logistics_id = ?", model.ID).
		Order("position ASC").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments of logistics %s: %w", model.ID, err)
	}
	return model.ToDomain(items, payments), nil
}

// Create writes items and payments first, then the sheet
func (r *GormLogisticsRepository) Create(ctx context.Context, l *logistics.Logistics) error {
	if err := r.createChildren(ctx, l); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(models.LogisticsModelFromDomain(l)).Error; err != nil {
		return fmt.Errorf("create logistics: %w", err)
	}
	return nil
}

// Replace permanently deletes the stored items and payments, writes the new
// sets, then updates the sheet
func (r *GormLogisticsRepository) Replace(ctx context.Context, l *logistics.Logistics) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("logistics_id = ?", l.ID).Delete(&models.LogisticsItemModel{}).Error; err != nil {
		return fmt.Errorf("delete items of logistics %s: %w", l.ID, err)
	}
	if err := db.Where("logistics_id = ?", l.ID).Delete(&models.LogisticsPaymentModel{}).Error; err != nil {
		return fmt.Errorf("delete payments of logistics %s: %w", l.ID, err)
	}
	if err := r.createChildren(ctx, l); err != nil {
		return err
	}
	model := models.LogisticsModelFromDomain(l)
	result := db.Model(model).Select("*").Omit("id", "created_at", "deleted_at").Updates(model)
	return expectOne(result, "logistics", l.ID)
}

func (r *GormLogisticsRepository) createChildren(ctx context.Context, l *logistics.Logistics) error {
	db := r.db.WithContext(ctx)
	if len(l.Items) > 0 {
		items := make([]models.LogisticsItemModel, len(l.Items))
		for i, it := range l.Items {
			items[i] = models.LogisticsItemModelFromDomain(it)
		}
		if err := db.Create(&items).Error; err != nil {
			return fmt.Errorf("create logistics items: %w", err)
		}
	}
	if len(l.Payments) > 0 {
		payments := make([]models.LogisticsPaymentModel, len(l.Payments))
		for i, p := range l.Payments {
			payments[i] = models.LogisticsPaymentModelFromDomain(p)
		}
		if err := db.Create(&payments).Error; err != nil {
			return fmt.Errorf("create logistics payments: %w", err)
		}
	}
	return nil
}

// UpdateStatus writes only the status column
func (r *GormLogisticsRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status logistics.Status) error {
	result := r.db.WithContext(ctx).Model(&models.LogisticsModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": string(status), "updated_at": time.Now()})
	return expectOne(result, "logistics", id)
}

// SoftDelete stamps deleted_at on a logistics sheet
func (r *GormLogisticsRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.LogisticsModel{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	return expectOne(result, "logistics", id)
}

var _ logistics.Repository = (*GormLogisticsRepository)(nil)
