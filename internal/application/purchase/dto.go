package purchase

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest represents a request to create a purchase. Drafts
// only need a buyer; the buyer defaults to the caller.
type CreatePurchaseRequest struct {
	BuyerID          uuid.UUID       `json:"buyer_id"`
	ClientID         uuid.UUID       `json:"client_id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	ShrimpFarmID     uuid.UUID       `json:"shrimp_farm_id"`
	PurchaseDate     *time.Time      `json:"purchase_date"`
	InvoiceNumber    string          `json:"invoice_number" binding:"max=50"`
	AverageGrams     decimal.Decimal `json:"average_grams"`
	Price            decimal.Decimal `json:"price"`
	PoundsPurchased  decimal.Decimal `json:"pounds_purchased"`
	TotalAgreedToPay decimal.Decimal `json:"total_agreed_to_pay"`
	Draft            bool            `json:"draft"`
}

// UpdatePurchaseRequest replaces the commercial terms of a purchase.
// Complete turns a draft into a regular purchase in the same call.
type UpdatePurchaseRequest struct {
	ClientID         uuid.UUID       `json:"client_id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	ShrimpFarmID     uuid.UUID       `json:"shrimp_farm_id"`
	PurchaseDate     *time.Time      `json:"purchase_date"`
	InvoiceNumber    string          `json:"invoice_number" binding:"max=50"`
	AverageGrams     decimal.Decimal `json:"average_grams"`
	Price            decimal.Decimal `json:"price"`
	PoundsPurchased  decimal.Decimal `json:"pounds_purchased"`
	TotalAgreedToPay decimal.Decimal `json:"total_agreed_to_pay"`
	Complete         bool            `json:"complete"`
}

// UpdateStatusRequest is a status-only update
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListPurchasesQuery represents the query parameters for listing purchases
type ListPurchasesQuery struct {
	Status    string     `form:"status"`
	ClientID  *uuid.UUID `form:"client_id"`
	CompanyID *uuid.UUID `form:"company_id"`
	BuyerID   *uuid.UUID `form:"buyer_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID               uuid.UUID       `json:"id"`
	BuyerID          uuid.UUID       `json:"buyer_id"`
	ClientID         uuid.UUID       `json:"client_id"`
	CompanyID        uuid.UUID       `json:"company_id"`
	ShrimpFarmID     uuid.UUID       `json:"shrimp_farm_id"`
	PurchaseDate     time.Time       `json:"purchase_date"`
	InvoiceNumber    string          `json:"invoice_number"`
	AverageGrams     decimal.Decimal `json:"average_grams"`
	Price            decimal.Decimal `json:"price"`
	PoundsPurchased  decimal.Decimal `json:"pounds_purchased"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TotalAgreedToPay decimal.Decimal `json:"total_agreed_to_pay"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Remaining        decimal.Decimal `json:"remaining"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ToPurchaseResponse converts a purchase and its paid total to a response
func ToPurchaseResponse(p *purchase.Purchase, totalPaid decimal.Decimal) PurchaseResponse {
	return PurchaseResponse{
		ID:               p.ID,
		BuyerID:          p.BuyerID,
		ClientID:         p.ClientID,
		CompanyID:        p.CompanyID,
		ShrimpFarmID:     p.ShrimpFarmID,
		PurchaseDate:     p.PurchaseDate,
		InvoiceNumber:    p.InvoiceNumber,
		AverageGrams:     p.AverageGrams,
		Price:            p.Price,
		PoundsPurchased:  p.PoundsPurchased,
		Subtotal:         p.Subtotal,
		TotalAgreedToPay: p.TotalAgreedToPay,
		TotalPaid:        ledger.Normalize(totalPaid),
		Remaining:        ledger.Remaining(totalPaid, p.TotalAgreedToPay),
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func termsOf(clientID, companyID, farmID uuid.UUID, date *time.Time, invoice string,
	grams, price, pounds, total decimal.Decimal) purchase.Terms {
	t := purchase.Terms{
		ClientID:         clientID,
		CompanyID:        companyID,
		ShrimpFarmID:     farmID,
		InvoiceNumber:    invoice,
		AverageGrams:     grams,
		Price:            price,
		PoundsPurchased:  pounds,
		TotalAgreedToPay: total,
	}
	if date != nil {
		t.PurchaseDate = *date
	}
	return t
}

// Terms extracts the commercial terms
func (r CreatePurchaseRequest) Terms() purchase.Terms {
	return termsOf(r.ClientID, r.CompanyID, r.ShrimpFarmID, r.PurchaseDate, r.InvoiceNumber,
		r.AverageGrams, r.Price, r.PoundsPurchased, r.TotalAgreedToPay)
}

// Terms extracts the commercial terms
func (r UpdatePurchaseRequest) Terms() purchase.Terms {
	return termsOf(r.ClientID, r.CompanyID, r.ShrimpFarmID, r.PurchaseDate, r.InvoiceNumber,
		r.AverageGrams, r.Price, r.PoundsPurchased, r.TotalAgreedToPay)
}
