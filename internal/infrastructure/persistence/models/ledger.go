package models

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodModel is the persistence model for payment methods
type PaymentMethodModel struct {
	BaseModel
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod
func (m *PaymentMethodModel) ToDomain() *ledger.PaymentMethod {
	return &ledger.PaymentMethod{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain PaymentMethod
func (m *PaymentMethodModel) FromDomain(pm *ledger.PaymentMethod) {
	m.FromDomainBaseEntity(pm.BaseEntity)
	m.Name = pm.Name
	m.Active = pm.Active
}

// PaymentColumns are the columns shared by every ledger payment table.
type PaymentColumns struct {
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentDate     time.Time       `gorm:"not null"`
	Reference       string          `gorm:"type:varchar(100)"`
	Observation     string          `gorm:"type:varchar(500)"`
}

func (c PaymentColumns) toDomain(base shared.BaseEntity, parentID uuid.UUID) *ledger.Payment {
	return &ledger.Payment{
		BaseEntity:      base,
		ParentID:        parentID,
		PaymentMethodID: c.PaymentMethodID,
		Amount:          c.Amount,
		PaymentDate:     c.PaymentDate,
		Reference:       c.Reference,
		Observation:     c.Observation,
	}
}

func paymentColumnsFromDomain(p *ledger.Payment) PaymentColumns {
	return PaymentColumns{
		PaymentMethodID: p.PaymentMethodID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		Reference:       p.Reference,
		Observation:     p.Observation,
	}
}

// PurchasePaymentModel is a row of the purchase ledger
type PurchasePaymentModel struct {
	BaseModel
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (PurchasePaymentModel) TableName() string {
	return "purchase_payments"
}

// ToDomain converts the persistence model to a ledger payment
func (m *PurchasePaymentModel) ToDomain() *ledger.Payment {
	return m.PaymentColumns.toDomain(m.BaseModel.ToDomain(), m.PurchaseID)
}

// FromDomain populates the persistence model from a ledger payment
func (m *PurchasePaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.PurchaseID = p.ParentID
	m.PaymentColumns = paymentColumnsFromDomain(p)
}

// CompanySalePaymentModel is a row of the company sale ledger
type CompanySalePaymentModel struct {
	BaseModel
	CompanySaleID uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (CompanySalePaymentModel) TableName() string {
	return "company_sale_payments"
}

// ToDomain converts the persistence model to a ledger payment
func (m *CompanySalePaymentModel) ToDomain() *ledger.Payment {
	return m.PaymentColumns.toDomain(m.BaseModel.ToDomain(), m.CompanySaleID)
}

// FromDomain populates the persistence model from a ledger payment
func (m *CompanySalePaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.CompanySaleID = p.ParentID
	m.PaymentColumns = paymentColumnsFromDomain(p)
}

// LocalCompanySaleDetailPaymentModel is a row of the local company sale detail ledger
type LocalCompanySaleDetailPaymentModel struct {
	BaseModel
	LocalCompanySaleDetailID uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentColumns
}

// TableName returns the table name for GORM
func (LocalCompanySaleDetailPaymentModel) TableName() string {
	return "local_company_sale_detail_payments"
}

// ToDomain converts the persistence model to a ledger payment
func (m *LocalCompanySaleDetailPaymentModel) ToDomain() *ledger.Payment {
	return m.PaymentColumns.toDomain(m.BaseModel.ToDomain(), m.LocalCompanySaleDetailID)
}

// FromDomain populates the persistence model from a ledger payment
func (m *LocalCompanySaleDetailPaymentModel) FromDomain(p *ledger.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.LocalCompanySaleDetailID = p.ParentID
	m.PaymentColumns = paymentColumnsFromDomain(p)
}
