package models

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleModel is the persistence model for the sale join row
type SaleModel struct {
	BaseModel
	PurchaseID uuid.UUID      `gorm:"type:uuid;not null;index"`
	SaleDate   time.Time      `gorm:"not null"`
	Type       string         `gorm:"type:varchar(10);not null"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sale.Sale {
	return &sale.Sale{
		BaseEntity:    m.BaseModel.ToDomain(),
		SoftDeletable: softDeleteToDomain(m.DeletedAt),
		PurchaseID:    m.PurchaseID,
		SaleDate:      m.SaleDate,
		Type:          sale.Type(m.Type),
	}
}

// SaleModelFromDomain creates a persistence model from a domain Sale
func SaleModelFromDomain(s *sale.Sale) *SaleModel {
	m := &SaleModel{
		PurchaseID: s.PurchaseID,
		SaleDate:   s.SaleDate,
		Type:       string(s.Type),
		DeletedAt:  softDeleteFromDomain(s.SoftDeletable),
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// SaleItemModel stores items of company sale details and local company sale details
type SaleItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	DetailID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	Style      string          `gorm:"type:varchar(30)"`
	Class      string          `gorm:"type:varchar(30)"`
	Size       string          `gorm:"type:varchar(30);not null"`
	Pounds     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Percentage decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Item
func (m *SaleItemModel) ToDomain() sale.Item {
	return sale.Item{
		ID:         m.ID,
		DetailID:   m.DetailID,
		Position:   m.Position,
		Style:      m.Style,
		Class:      m.Class,
		Size:       m.Size,
		Pounds:     m.Pounds,
		Price:      m.Price,
		Total:      m.Total,
		Percentage: m.Percentage,
	}
}

// SaleItemModelFromDomain creates a persistence model from a domain Item
func SaleItemModelFromDomain(it sale.Item) SaleItemModel {
	return SaleItemModel{
		ID:         it.ID,
		DetailID:   it.DetailID,
		Position:   it.Position,
		Style:      it.Style,
		Class:      it.Class,
		Size:       it.Size,
		Pounds:     it.Pounds,
		Price:      it.Price,
		Total:      it.Total,
		Percentage: it.Percentage,
		CreatedAt:  time.Now(),
	}
}

// CompanySaleModel is the persistence model for company sales
type CompanySaleModel struct {
	BaseModel
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Batch           string          `gorm:"type:varchar(50);not null"`
	ReceptionDate   *time.Time
	SettleDate      *time.Time
	PredominantSize string          `gorm:"type:varchar(30)"`
	ProcessedPounds decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TrashedPounds   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WholeDetailID   *uuid.UUID      `gorm:"type:uuid"`
	TailDetailID    *uuid.UUID      `gorm:"type:uuid"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status          string          `gorm:"type:varchar(20);not null;index"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (CompanySaleModel) TableName() string {
	return "company_sales"
}

// ToDomain converts the persistence model to a domain CompanySale without details
func (m *CompanySaleModel) ToDomain() *sale.CompanySale {
	return &sale.CompanySale{
		BaseEntity:    m.BaseModel.ToDomain(),
		SoftDeletable: softDeleteToDomain(m.DeletedAt),
		SaleID:        m.SaleID,
		CompanySaleHeader: sale.CompanySaleHeader{
			Batch:           m.Batch,
			ReceptionDate:   timeOrZero(m.ReceptionDate),
			SettleDate:      timeOrZero(m.SettleDate),
			PredominantSize: m.PredominantSize,
			ProcessedPounds: m.ProcessedPounds,
			TrashedPounds:   m.TrashedPounds,
		},
		WholeDetailID: m.WholeDetailID,
		TailDetailID:  m.TailDetailID,
		GrandTotal:    m.GrandTotal,
		Status:        sale.CompanySaleStatus(m.Status),
	}
}

// CompanySaleModelFromDomain creates a persistence model from a domain CompanySale
func CompanySaleModelFromDomain(s *sale.CompanySale) *CompanySaleModel {
	m := &CompanySaleModel{
		SaleID:          s.SaleID,
		Batch:           s.Batch,
		ReceptionDate:   optionalTime(s.ReceptionDate),
		SettleDate:      optionalTime(s.SettleDate),
		PredominantSize: s.PredominantSize,
		ProcessedPounds: s.ProcessedPounds,
		TrashedPounds:   s.TrashedPounds,
		WholeDetailID:   s.WholeDetailID,
		TailDetailID:    s.TailDetailID,
		GrandTotal:      s.GrandTotal,
		Status:          string(s.Status),
		DeletedAt:       softDeleteFromDomain(s.SoftDeletable),
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// CompanySaleDetailModel is the persistence model for whole/tail details
type CompanySaleDetailModel struct {
	BaseModel
	CompanySaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind          string          `gorm:"type:varchar(10);not null"`
	TotalPounds   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CompanySaleDetailModel) TableName() string {
	return "company_sale_details"
}

// ToDomain converts the persistence model to a domain detail with items
func (m *CompanySaleDetailModel) ToDomain(items []sale.Item) *sale.CompanySaleDetail {
	return &sale.CompanySaleDetail{
		ID:            m.ID,
		CompanySaleID: m.CompanySaleID,
		Kind:          sale.DetailKind(m.Kind),
		TotalPounds:   m.TotalPounds,
		GrandTotal:    m.GrandTotal,
		Items:         items,
	}
}

// CompanySaleDetailModelFromDomain creates a persistence model from a domain detail
func CompanySaleDetailModelFromDomain(d *sale.CompanySaleDetail) *CompanySaleDetailModel {
	now := time.Now()
	return &CompanySaleDetailModel{
		BaseModel:     BaseModel{ID: d.ID, CreatedAt: now, UpdatedAt: now},
		CompanySaleID: d.CompanySaleID,
		Kind:          string(d.Kind),
		TotalPounds:   d.TotalPounds,
		GrandTotal:    d.GrandTotal,
	}
}

// LocalSaleModel is the persistence model for local sales
type LocalSaleModel struct {
	BaseModel
	SaleID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	WeightSheetNumber string          `gorm:"type:varchar(50)"`
	GrandTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status            string          `gorm:"type:varchar(20);not null;index"`
	DeletedAt         gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (LocalSaleModel) TableName() string {
	return "local_sales"
}

// ToDomain converts the persistence model to a domain LocalSale without details
func (m *LocalSaleModel) ToDomain() *sale.LocalSale {
	return &sale.LocalSale{
		BaseEntity:        m.BaseModel.ToDomain(),
		SoftDeletable:     softDeleteToDomain(m.DeletedAt),
		SaleID:            m.SaleID,
		WeightSheetNumber: m.WeightSheetNumber,
		GrandTotal:        m.GrandTotal,
		Status:            sale.LocalSaleStatus(m.Status),
	}
}

// LocalSaleModelFromDomain creates a persistence model from a domain LocalSale
func LocalSaleModelFromDomain(s *sale.LocalSale) *LocalSaleModel {
	m := &LocalSaleModel{
		SaleID:            s.SaleID,
		WeightSheetNumber: s.WeightSheetNumber,
		GrandTotal:        s.GrandTotal,
		Status:            string(s.Status),
		DeletedAt:         softDeleteFromDomain(s.SoftDeletable),
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// LocalSaleDetailModel is the persistence model for per-style local sale details
type LocalSaleDetailModel struct {
	BaseModel
	LocalSaleID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Style         string          `gorm:"type:varchar(10);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReceivedTotal decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (LocalSaleDetailModel) TableName() string {
	return "local_sale_details"
}

// ToDomain converts the persistence model to a domain detail with items
func (m *LocalSaleDetailModel) ToDomain(items []sale.LocalItem) sale.LocalSaleDetail {
	return sale.LocalSaleDetail{
		ID:            m.ID,
		LocalSaleID:   m.LocalSaleID,
		Style:         sale.DetailKind(m.Style),
		GrandTotal:    m.GrandTotal,
		ReceivedTotal: m.ReceivedTotal,
		Items:         items,
	}
}

// LocalSaleDetailModelFromDomain creates a persistence model from a domain detail
func LocalSaleDetailModelFromDomain(d *sale.LocalSaleDetail) *LocalSaleDetailModel {
	now := time.Now()
	return &LocalSaleDetailModel{
		BaseModel:     BaseModel{ID: d.ID, CreatedAt: now, UpdatedAt: now},
		LocalSaleID:   d.LocalSaleID,
		Style:         string(d.Style),
		GrandTotal:    d.GrandTotal,
		ReceivedTotal: d.ReceivedTotal,
	}
}

// LocalSaleItemModel is the persistence model for local sale items
type LocalSaleItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	DetailID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position        int             `gorm:"not null"`
	Size            string          `gorm:"type:varchar(30);not null"`
	Customer        string          `gorm:"type:varchar(150)"`
	Pounds          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null"`
	PaymentMethodID *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LocalSaleItemModel) TableName() string {
	return "local_sale_items"
}

// ToDomain converts the persistence model to a domain LocalItem
func (m *LocalSaleItemModel) ToDomain() sale.LocalItem {
	return sale.LocalItem{
		ID:              m.ID,
		DetailID:        m.DetailID,
		Position:        m.Position,
		Size:            m.Size,
		Customer:        m.Customer,
		Pounds:          m.Pounds,
		Price:           m.Price,
		Total:           m.Total,
		PaymentStatus:   ledger.PaymentStatus(m.PaymentStatus),
		PaymentMethodID: m.PaymentMethodID,
	}
}

// LocalSaleItemModelFromDomain creates a persistence model from a domain LocalItem
func LocalSaleItemModelFromDomain(it sale.LocalItem) LocalSaleItemModel {
	return LocalSaleItemModel{
		ID:              it.ID,
		DetailID:        it.DetailID,
		Position:        it.Position,
		Size:            it.Size,
		Customer:        it.Customer,
		Pounds:          it.Pounds,
		Price:           it.Price,
		Total:           it.Total,
		PaymentStatus:   string(it.PaymentStatus),
		PaymentMethodID: it.PaymentMethodID,
		CreatedAt:       time.Now(),
	}
}

// LocalCompanySaleDetailModel is the persistence model for the company part of a local sale
type LocalCompanySaleDetailModel struct {
	BaseModel
	LocalSaleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID           uuid.UUID       `gorm:"type:uuid;not null"`
	Batch               string          `gorm:"type:varchar(50)"`
	ReceiptDate         *time.Time
	GrandTotal          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RetentionPercentage decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	RetentionAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetGrandTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus       string          `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (LocalCompanySaleDetailModel) TableName() string {
	return "local_company_sale_details"
}

// ToDomain converts the persistence model to a domain detail with items
func (m *LocalCompanySaleDetailModel) ToDomain(items []sale.Item) *sale.LocalCompanySaleDetail {
	return &sale.LocalCompanySaleDetail{
		BaseEntity:          m.BaseModel.ToDomain(),
		LocalSaleID:         m.LocalSaleID,
		CompanyID:           m.CompanyID,
		Batch:               m.Batch,
		ReceiptDate:         timeOrZero(m.ReceiptDate),
		GrandTotal:          m.GrandTotal,
		RetentionPercentage: m.RetentionPercentage,
		RetentionAmount:     m.RetentionAmount,
		NetGrandTotal:       m.NetGrandTotal,
		PaymentStatus:       ledger.PaymentStatus(m.PaymentStatus),
		Items:               items,
	}
}

// LocalCompanySaleDetailModelFromDomain creates a persistence model from a domain detail
func LocalCompanySaleDetailModelFromDomain(d *sale.LocalCompanySaleDetail) *LocalCompanySaleDetailModel {
	m := &LocalCompanySaleDetailModel{
		LocalSaleID:         d.LocalSaleID,
		CompanyID:           d.CompanyID,
		Batch:               d.Batch,
		ReceiptDate:         optionalTime(d.ReceiptDate),
		GrandTotal:          d.GrandTotal,
		RetentionPercentage: d.RetentionPercentage,
		RetentionAmount:     d.RetentionAmount,
		NetGrandTotal:       d.NetGrandTotal,
		PaymentStatus:       string(d.PaymentStatus),
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
