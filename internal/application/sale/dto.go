package sale

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Item DTOs ====================

// SaleItemRequest is one priced line of a detail
type SaleItemRequest struct {
	Style  string          `json:"style" binding:"max=30"`
	Class  string          `json:"class" binding:"max=30"`
	Size   string          `json:"size" binding:"required,max=30"`
	Pounds decimal.Decimal `json:"pounds"`
	Price  decimal.Decimal `json:"price"`
}

func toItemInputs(reqs []SaleItemRequest) []sale.ItemInput {
	out := make([]sale.ItemInput, len(reqs))
	for i, r := range reqs {
		out[i] = sale.ItemInput{Style: r.Style, Class: r.Class, Size: r.Size, Pounds: r.Pounds, Price: r.Price}
	}
	return out
}

// SaleItemResponse represents a sale item in API responses
type SaleItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Position   int             `json:"position"`
	Style      string          `json:"style"`
	Class      string          `json:"class"`
	Size       string          `json:"size"`
	Pounds     decimal.Decimal `json:"pounds"`
	Price      decimal.Decimal `json:"price"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

func toItemResponses(items []sale.Item) []SaleItemResponse {
	out := make([]SaleItemResponse, len(items))
	for i, it := range items {
		out[i] = SaleItemResponse{
			ID:         it.ID,
			Position:   it.Position,
			Style:      it.Style,
			Class:      it.Class,
			Size:       it.Size,
			Pounds:     it.Pounds,
			Price:      it.Price,
			Total:      it.Total,
			Percentage: it.Percentage,
		}
	}
	return out
}

// ==================== Company Sale DTOs ====================

// CompanySaleDetailRequest carries the full item set of a whole or tail detail
type CompanySaleDetailRequest struct {
	Items []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CompanySaleHeaderRequest holds the processing metrics of a company sale
type CompanySaleHeaderRequest struct {
	Batch           string          `json:"batch" binding:"required,max=50"`
	ReceptionDate   time.Time       `json:"reception_date"`
	SettleDate      time.Time       `json:"settle_date"`
	PredominantSize string          `json:"predominant_size" binding:"max=30"`
	ProcessedPounds decimal.Decimal `json:"processed_pounds"`
	TrashedPounds   decimal.Decimal `json:"trashed_pounds"`
}

func (h CompanySaleHeaderRequest) toHeader() sale.CompanySaleHeader {
	return sale.CompanySaleHeader{
		Batch:           h.Batch,
		ReceptionDate:   h.ReceptionDate,
		SettleDate:      h.SettleDate,
		PredominantSize: h.PredominantSize,
		ProcessedPounds: h.ProcessedPounds,
		TrashedPounds:   h.TrashedPounds,
	}
}

// CreateCompanySaleRequest represents a request to sell a purchase to a processing company
type CreateCompanySaleRequest struct {
	PurchaseID uuid.UUID  `json:"purchase_id" binding:"required"`
	SaleDate   *time.Time `json:"sale_date"`
	CompanySaleHeaderRequest
	WholeDetail *CompanySaleDetailRequest `json:"whole_detail"`
	TailDetail  *CompanySaleDetailRequest `json:"tail_detail"`
}

// UpdateCompanySaleRequest replaces the header and both details. An omitted
// detail is removed.
type UpdateCompanySaleRequest struct {
	CompanySaleHeaderRequest
	WholeDetail *CompanySaleDetailRequest `json:"whole_detail"`
	TailDetail  *CompanySaleDetailRequest `json:"tail_detail"`
}

// UpdateStatusRequest is a status-only update
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CompanySaleDetailResponse represents a company sale detail in API responses
type CompanySaleDetailResponse struct {
	ID          uuid.UUID          `json:"id"`
	Kind        string             `json:"kind"`
	TotalPounds decimal.Decimal    `json:"total_pounds"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	Items       []SaleItemResponse `json:"items"`
}

func toCompanyDetailResponse(d *sale.CompanySaleDetail) *CompanySaleDetailResponse {
	if d == nil {
		return nil
	}
	return &CompanySaleDetailResponse{
		ID:          d.ID,
		Kind:        string(d.Kind),
		TotalPounds: d.TotalPounds,
		GrandTotal:  d.GrandTotal,
		Items:       toItemResponses(d.Items),
	}
}

// CompanySaleResponse represents a company sale in API responses
type CompanySaleResponse struct {
	ID              uuid.UUID                  `json:"id"`
	SaleID          uuid.UUID                  `json:"sale_id"`
	Batch           string                     `json:"batch"`
	ReceptionDate   time.Time                  `json:"reception_date"`
	SettleDate      time.Time                  `json:"settle_date"`
	PredominantSize string                     `json:"predominant_size"`
	ProcessedPounds decimal.Decimal            `json:"processed_pounds"`
	TrashedPounds   decimal.Decimal            `json:"trashed_pounds"`
	WholeDetail     *CompanySaleDetailResponse `json:"whole_detail"`
	TailDetail      *CompanySaleDetailResponse `json:"tail_detail"`
	GrandTotal      decimal.Decimal            `json:"grand_total"`
	TotalPaid       decimal.Decimal            `json:"total_paid"`
	Remaining       decimal.Decimal            `json:"remaining"`
	Status          string                     `json:"status"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ToCompanySaleResponse converts a company sale and its paid total to a response
func ToCompanySaleResponse(s *sale.CompanySale, totalPaid decimal.Decimal) CompanySaleResponse {
	return CompanySaleResponse{
		ID:              s.ID,
		SaleID:          s.SaleID,
		Batch:           s.Batch,
		ReceptionDate:   s.ReceptionDate,
		SettleDate:      s.SettleDate,
		PredominantSize: s.PredominantSize,
		ProcessedPounds: s.ProcessedPounds,
		TrashedPounds:   s.TrashedPounds,
		WholeDetail:     toCompanyDetailResponse(s.WholeDetail),
		TailDetail:      toCompanyDetailResponse(s.TailDetail),
		GrandTotal:      s.GrandTotal,
		TotalPaid:       ledger.Normalize(totalPaid),
		Remaining:       ledger.Remaining(totalPaid, s.GrandTotal),
		Status:          string(s.Status),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ==================== Local Sale DTOs ====================

// LocalItemRequest is one line of a local sale detail
type LocalItemRequest struct {
	Size            string          `json:"size" binding:"required,max=30"`
	Customer        string          `json:"customer" binding:"max=150"`
	Pounds          decimal.Decimal `json:"pounds"`
	Price           decimal.Decimal `json:"price"`
	PaymentStatus   string          `json:"payment_status" binding:"required,payment_status"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id"`
}

// LocalSaleDetailRequest carries the full item set of one style
type LocalSaleDetailRequest struct {
	Style string             `json:"style" binding:"required,oneof=WHOLE TAIL"`
	Items []LocalItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r LocalSaleDetailRequest) inputs() []sale.LocalItemInput {
	out := make([]sale.LocalItemInput, len(r.Items))
	for i, it := range r.Items {
		out[i] = sale.LocalItemInput{
			Size:            it.Size,
			Customer:        it.Customer,
			Pounds:          it.Pounds,
			Price:           it.Price,
			PaymentStatus:   ledger.PaymentStatus(it.PaymentStatus),
			PaymentMethodID: it.PaymentMethodID,
		}
	}
	return out
}

// LocalCompanyDetailRequest is the part of a local sale settled with a company
type LocalCompanyDetailRequest struct {
	CompanyID           uuid.UUID         `json:"company_id" binding:"required"`
	Batch               string            `json:"batch" binding:"max=50"`
	ReceiptDate         time.Time         `json:"receipt_date"`
	RetentionPercentage decimal.Decimal   `json:"retention_percentage"`
	Items               []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r *LocalCompanyDetailRequest) input() sale.CompanyDetailInput {
	return sale.CompanyDetailInput{
		CompanyID:           r.CompanyID,
		Batch:               r.Batch,
		ReceiptDate:         r.ReceiptDate,
		RetentionPercentage: r.RetentionPercentage,
		Items:               toItemInputs(r.Items),
	}
}

// CreateLocalSaleRequest represents a request to sell a purchase on the local market
type CreateLocalSaleRequest struct {
	PurchaseID        uuid.UUID                  `json:"purchase_id" binding:"required"`
	SaleDate          *time.Time                 `json:"sale_date"`
	WeightSheetNumber string                     `json:"weight_sheet_number" binding:"max=50"`
	Draft             bool                       `json:"draft"`
	Details           []LocalSaleDetailRequest   `json:"details" binding:"dive"`
	CompanyDetail     *LocalCompanyDetailRequest `json:"company_detail"`
}

// UpdateLocalSaleRequest replaces every detail group and the company detail.
// Omitted groups are removed.
type UpdateLocalSaleRequest struct {
	WeightSheetNumber string                     `json:"weight_sheet_number" binding:"max=50"`
	Details           []LocalSaleDetailRequest   `json:"details" binding:"dive"`
	CompanyDetail     *LocalCompanyDetailRequest `json:"company_detail"`
}

// LocalItemResponse represents a local sale item in API responses
type LocalItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	Position        int             `json:"position"`
	Size            string          `json:"size"`
	Customer        string          `json:"customer"`
	Pounds          decimal.Decimal `json:"pounds"`
	Price           decimal.Decimal `json:"price"`
	Total           decimal.Decimal `json:"total"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id"`
}

// LocalSaleDetailResponse represents a detail group in API responses
type LocalSaleDetailResponse struct {
	ID            uuid.UUID           `json:"id"`
	Style         string              `json:"style"`
	GrandTotal    decimal.Decimal     `json:"grand_total"`
	ReceivedTotal decimal.Decimal     `json:"received_total"`
	Items         []LocalItemResponse `json:"items"`
}

// LocalCompanyDetailResponse represents the company detail in API responses
type LocalCompanyDetailResponse struct {
	ID                  uuid.UUID          `json:"id"`
	CompanyID           uuid.UUID          `json:"company_id"`
	Batch               string             `json:"batch"`
	ReceiptDate         time.Time          `json:"receipt_date"`
	GrandTotal          decimal.Decimal    `json:"grand_total"`
	RetentionPercentage decimal.Decimal    `json:"retention_percentage"`
	RetentionAmount     decimal.Decimal    `json:"retention_amount"`
	NetGrandTotal       decimal.Decimal    `json:"net_grand_total"`
	PaymentStatus       string             `json:"payment_status"`
	Items               []SaleItemResponse `json:"items"`
}

// LocalSaleResponse represents a local sale in API responses
type LocalSaleResponse struct {
	ID                uuid.UUID                   `json:"id"`
	SaleID            uuid.UUID                   `json:"sale_id"`
	WeightSheetNumber string                      `json:"weight_sheet_number"`
	Details           []LocalSaleDetailResponse   `json:"details"`
	CompanyDetail     *LocalCompanyDetailResponse `json:"company_detail"`
	GrandTotal        decimal.Decimal             `json:"grand_total"`
	Status            string                      `json:"status"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ToLocalSaleResponse converts a loaded local sale to a response
func ToLocalSaleResponse(s *sale.LocalSale) LocalSaleResponse {
	resp := LocalSaleResponse{
		ID:                s.ID,
		SaleID:            s.SaleID,
		WeightSheetNumber: s.WeightSheetNumber,
		Details:           make([]LocalSaleDetailResponse, len(s.Details)),
		GrandTotal:        s.GrandTotal,
		Status:            string(s.Status),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	for i, d := range s.Details {
		items := make([]LocalItemResponse, len(d.Items))
		for j, it := range d.Items {
			items[j] = LocalItemResponse{
				ID:              it.ID,
				Position:        it.Position,
				Size:            it.Size,
				Customer:        it.Customer,
				Pounds:          it.Pounds,
				Price:           it.Price,
				Total:           it.Total,
				PaymentStatus:   string(it.PaymentStatus),
				PaymentMethodID: it.PaymentMethodID,
			}
		}
		resp.Details[i] = LocalSaleDetailResponse{
			ID:            d.ID,
			Style:         string(d.Style),
			GrandTotal:    d.GrandTotal,
			ReceivedTotal: d.ReceivedTotal,
			Items:         items,
		}
	}
	if cd := s.CompanyDetail; cd != nil {
		resp.CompanyDetail = &LocalCompanyDetailResponse{
			ID:                  cd.ID,
			CompanyID:           cd.CompanyID,
			Batch:               cd.Batch,
			ReceiptDate:         cd.ReceiptDate,
			GrandTotal:          cd.GrandTotal,
			RetentionPercentage: cd.RetentionPercentage,
			RetentionAmount:     cd.RetentionAmount,
			NetGrandTotal:       cd.NetGrandTotal,
			PaymentStatus:       string(cd.PaymentStatus),
			Items:               toItemResponses(cd.Items),
		}
	}
	return resp
}
