package models

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

func softDeleteToDomain(d gorm.DeletedAt) shared.SoftDeletable {
	if !d.Valid {
		return shared.SoftDeletable{}
	}
	t := d.Time
	return shared.SoftDeletable{DeletedAt: &t}
}

func softDeleteFromDomain(s shared.SoftDeletable) gorm.DeletedAt {
	if s.DeletedAt == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// All lists every model, in migration order.
func All() []any {
	return []any{
		&PaymentMethodModel{},
		&PurchaseModel{},
		&PurchasePaymentModel{},
		&SaleModel{},
		&CompanySaleModel{},
		&CompanySaleDetailModel{},
		&SaleItemModel{},
		&CompanySalePaymentModel{},
		&LocalSaleModel{},
		&LocalSaleDetailModel{},
		&LocalSaleItemModel{},
		&LocalCompanySaleDetailModel{},
		&LocalCompanySaleDetailPaymentModel{},
		&LogisticsModel{},
		&LogisticsItemModel{},
		&LogisticsPaymentModel{},
	}
}
