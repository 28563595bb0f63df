package models

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseModel is the persistence model for purchases
type PurchaseModel struct {
	BaseModel
	BuyerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID         uuid.UUID       `gorm:"type:uuid;index"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;index"`
	ShrimpFarmID     uuid.UUID       `gorm:"type:uuid"`
	PurchaseDate     time.Time       `gorm:"not null"`
	InvoiceNumber    string          `gorm:"type:varchar(50)"`
	AverageGrams     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PoundsPurchased  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAgreedToPay decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status           string          `gorm:"type:varchar(20);not null;index"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the persistence model to a domain Purchase
func (m *PurchaseModel) ToDomain() *purchase.Purchase {
	return &purchase.Purchase{
		BaseEntity:       m.BaseModel.ToDomain(),
		SoftDeletable:    softDeleteToDomain(m.DeletedAt),
		BuyerID:          m.BuyerID,
		ClientID:         m.ClientID,
		CompanyID:        m.CompanyID,
		ShrimpFarmID:     m.ShrimpFarmID,
		PurchaseDate:     m.PurchaseDate,
		InvoiceNumber:    m.InvoiceNumber,
		AverageGrams:     m.AverageGrams,
		Price:            m.Price,
		PoundsPurchased:  m.PoundsPurchased,
		Subtotal:         m.Subtotal,
		TotalAgreedToPay: m.TotalAgreedToPay,
		Status:           purchase.Status(m.Status),
	}
}

// FromDomain populates the persistence model from a domain Purchase
func (m *PurchaseModel) FromDomain(p *purchase.Purchase) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.BuyerID = p.BuyerID
	m.ClientID = p.ClientID
	m.CompanyID = p.CompanyID
	m.ShrimpFarmID = p.ShrimpFarmID
	m.PurchaseDate = p.PurchaseDate
	m.InvoiceNumber = p.InvoiceNumber
	m.AverageGrams = p.AverageGrams
	m.Price = p.Price
	m.PoundsPurchased = p.PoundsPurchased
	m.Subtotal = p.Subtotal
	m.TotalAgreedToPay = p.TotalAgreedToPay
	m.Status = string(p.Status)
	m.DeletedAt = softDeleteFromDomain(p.SoftDeletable)
}

// PurchaseModelFromDomain creates a persistence model from a domain Purchase
func PurchaseModelFromDomain(p *purchase.Purchase) *PurchaseModel {
	m := &PurchaseModel{}
	m.FromDomain(p)
	return m
}
