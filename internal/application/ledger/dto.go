package ledger

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest is the body of every payment-creating endpoint. Each
// ledger reads the parent field that names its own parent.
type CreatePaymentRequest struct {
	PurchaseID               *uuid.UUID      `json:"purchase_id"`
	CompanySaleID            *uuid.UUID      `json:"company_sale_id"`
	LocalCompanySaleDetailID *uuid.UUID      `json:"local_company_sale_detail_id"`
	PaymentMethodID          uuid.UUID       `json:"payment_method_id" binding:"required"`
	Amount                   decimal.Decimal `json:"amount"`
	PaymentDate              *time.Time      `json:"payment_date"`
	Reference                string          `json:"reference" binding:"max=100"`
	Observation              string          `json:"observation" binding:"max=500"`
}

// ParentFor returns the parent id for the ledger kind
func (r CreatePaymentRequest) ParentFor(kind ledger.Kind) (uuid.UUID, error) {
	var (
		id    *uuid.UUID
		field string
	)
	switch kind {
	case ledger.KindPurchase:
		id, field = r.PurchaseID, "purchase_id"
	case ledger.KindCompanySale:
		id, field = r.CompanySaleID, "company_sale_id"
	case ledger.KindLocalCompanySaleDetail:
		id, field = r.LocalCompanySaleDetailID, "local_company_sale_detail_id"
	default:
		return uuid.Nil, shared.Validation("unknown ledger %q", string(kind))
	}
	if id == nil || *id == uuid.Nil {
		return uuid.Nil, shared.Validation("%s is required", field)
	}
	return *id, nil
}

// Input converts the request for the ledger of the given kind
func (r CreatePaymentRequest) Input(kind ledger.Kind) (CreatePaymentInput, error) {
	parentID, err := r.ParentFor(kind)
	if err != nil {
		return CreatePaymentInput{}, err
	}
	in := CreatePaymentInput{
		ParentID:        parentID,
		PaymentMethodID: r.PaymentMethodID,
		Amount:          r.Amount,
		Reference:       r.Reference,
		Observation:     r.Observation,
	}
	if r.PaymentDate != nil {
		in.PaymentDate = *r.PaymentDate
	}
	return in, nil
}

// UpdatePaymentRequest changes the supplied fields of a payment
type UpdatePaymentRequest struct {
	PaymentMethodID *uuid.UUID       `json:"payment_method_id"`
	Amount          *decimal.Decimal `json:"amount"`
	PaymentDate     *time.Time       `json:"payment_date"`
	Reference       *string          `json:"reference" binding:"omitempty,max=100"`
	Observation     *string          `json:"observation" binding:"omitempty,max=500"`
}

// Input converts the request to the service payload
func (r UpdatePaymentRequest) Input() UpdatePaymentInput {
	return UpdatePaymentInput{
		PaymentMethodID: r.PaymentMethodID,
		Amount:          r.Amount,
		PaymentDate:     r.PaymentDate,
		Reference:       r.Reference,
		Observation:     r.Observation,
	}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	ParentID        uuid.UUID       `json:"parent_id"`
	PaymentMethodID uuid.UUID       `json:"payment_method_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	Reference       string          `json:"reference"`
	Observation     string          `json:"observation"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a payment to a response
func ToPaymentResponse(p *ledger.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		ParentID:        p.ParentID,
		PaymentMethodID: p.PaymentMethodID,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate,
		Reference:       p.Reference,
		Observation:     p.Observation,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// SummaryResponse represents a parent's ledger in API responses
type SummaryResponse struct {
	ParentID      uuid.UUID         `json:"parent_id"`
	ExpectedTotal decimal.Decimal   `json:"expected_total"`
	TotalPaid     decimal.Decimal   `json:"total_paid"`
	Remaining     decimal.Decimal   `json:"remaining"`
	Status        string            `json:"status"`
	Payments      []PaymentResponse `json:"payments"`
}

// ToSummaryResponse converts a ledger summary to a response
func ToSummaryResponse(s *Summary) SummaryResponse {
	resp := SummaryResponse{
		ParentID:      s.ParentID,
		ExpectedTotal: s.ExpectedTotal,
		TotalPaid:     s.TotalPaid,
		Remaining:     s.Remaining,
		Status:        s.Status,
		Payments:      make([]PaymentResponse, len(s.Payments)),
	}
	for i := range s.Payments {
		resp.Payments[i] = ToPaymentResponse(&s.Payments[i])
	}
	return resp
}

// CreatePaymentMethodRequest names a new payment method
type CreatePaymentMethodRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPaymentMethodResponse converts a payment method to a response
func ToPaymentMethodResponse(m *ledger.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{ID: m.ID, Name: m.Name, Active: m.Active, CreatedAt: m.CreatedAt}
}
