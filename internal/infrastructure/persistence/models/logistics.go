package models

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LogisticsModel is the persistence model for logistics sheets
type LogisticsModel struct {
	BaseModel
	PurchaseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          string          `gorm:"type:varchar(20);not null"`
	LogisticsDate time.Time       `gorm:"not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	DeletedAt     gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (LogisticsModel) TableName() string {
	return "logistics"
}

// ToDomain converts the persistence model to a domain Logistics
func (m *LogisticsModel) ToDomain(items []LogisticsItemModel, payments []LogisticsPaymentModel) *logistics.Logistics {
	l := &logistics.Logistics{
		BaseEntity:    m.BaseModel.ToDomain(),
		SoftDeletable: softDeleteToDomain(m.DeletedAt),
		PurchaseID:    m.PurchaseID,
		Type:          logistics.Type(m.Type),
		LogisticsDate: m.LogisticsDate,
		GrandTotal:    m.GrandTotal,
		Status:        logistics.Status(m.Status),
		Items:         make([]logistics.Item, len(items)),
		Payments:      make([]logistics.Payment, len(payments)),
	}
	for i := range items {
		l.Items[i] = items[i].ToDomain()
	}
	for i := range payments {
		l.Payments[i] = payments[i].ToDomain()
	}
	return l
}

// LogisticsModelFromDomain creates a persistence model from a domain Logistics
func LogisticsModelFromDomain(l *logistics.Logistics) *LogisticsModel {
	m := &LogisticsModel{
		PurchaseID:    l.PurchaseID,
		Type:          string(l.Type),
		LogisticsDate: l.LogisticsDate,
		GrandTotal:    l.GrandTotal,
		Status:        string(l.Status),
		DeletedAt:     softDeleteFromDomain(l.SoftDeletable),
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// LogisticsItemModel is the persistence model for logistics cost lines
type LogisticsItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	LogisticsID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Category    string          `gorm:"type:varchar(50);not null"`
	Description string          `gorm:"type:varchar(255)"`
	Unit        string          `gorm:"type:varchar(20)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LogisticsItemModel) TableName() string {
	return "logistics_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *LogisticsItemModel) ToDomain() logistics.Item {
	return logistics.Item{
		ID:          m.ID,
		LogisticsID: m.LogisticsID,
		Position:    m.Position,
		Category:    m.Category,
		Description: m.Description,
		Unit:        m.Unit,
		Quantity:    m.Quantity,
		Cost:        m.Cost,
		Total:       m.Total,
	}
}

// LogisticsItemModelFromDomain creates a persistence model from a domain Item
func LogisticsItemModelFromDomain(it logistics.Item) LogisticsItemModel {
	return LogisticsItemModel{
		ID:          it.ID,
		LogisticsID: it.LogisticsID,
		Position:    it.Position,
		Category:    it.Category,
		Description: it.Description,
		Unit:        it.Unit,
		Quantity:    it.Quantity,
		Cost:        it.Cost,
		Total:       it.Total,
		CreatedAt:   time.Now(),
	}
}

// LogisticsPaymentModel is the persistence model for logistics payment rows
type LogisticsPaymentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	LogisticsID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position        int             `gorm:"not null"`
	Title           string          `gorm:"type:varchar(100)"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentDate     *time.Time
	PaymentMethodID *uuid.UUID `gorm:"type:uuid"`
	PaymentStatus   string     `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LogisticsPaymentModel) TableName() string {
	return "logistics_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *LogisticsPaymentModel) ToDomain() logistics.Payment {
	return logistics.Payment{
		ID:              m.ID,
		LogisticsID:     m.LogisticsID,
		Position:        m.Position,
		Title:           m.Title,
		Amount:          m.Amount,
		PaymentDate:     m.PaymentDate,
		PaymentMethodID: m.PaymentMethodID,
		PaymentStatus:   ledger.PaymentStatus(m.PaymentStatus),
	}
}

// LogisticsPaymentModelFromDomain creates a persistence model from a domain Payment
func LogisticsPaymentModelFromDomain(p logistics.Payment) LogisticsPaymentModel {
	return LogisticsPaymentModel{
		ID:              p.ID,
		LogisticsID:     p.LogisticsID,
		Position:        p.Position,
		Title:           p.Title,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		PaymentMethodID: p.PaymentMethodID,
		PaymentStatus:   string(p.PaymentStatus),
		CreatedAt:       time.Now(),
	}
}
