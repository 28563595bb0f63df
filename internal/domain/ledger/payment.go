package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names one of the capped ledgers.
type Kind string

const (
	KindPurchase               Kind = "purchase"
	KindCompanySale            Kind = "company_sale"
	KindLocalCompanySaleDetail Kind = "local_company_sale_detail"
)

// Payment is one entry in a capped ledger. Payments are never soft-deleted.
type Payment struct {
	shared.BaseEntity
	ParentID        uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     time.Time
	Reference       string
	Observation     string
}

// NewPayment creates a payment against parentID.
func NewPayment(parentID, methodID uuid.UUID, amount decimal.Decimal, paidAt time.Time) (*Payment, error) {
	if parentID == uuid.Nil {
		return nil, shared.Validation("payment parent is required")
	}
	p := &Payment{
		BaseEntity:      shared.NewBaseEntity(),
		ParentID:        parentID,
		PaymentMethodID: methodID,
		PaymentDate:     paidAt,
	}
	if err := p.SetAmount(amount); err != nil {
		return nil, err
	}
	if err := p.SetMethod(methodID); err != nil {
		return nil, err
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = p.CreatedAt
	}
	return p, nil
}

// SetAmount replaces the amount as given; it must be positive once
// normalized. Rounding happens only when totals are compared.
func (p *Payment) SetAmount(amount decimal.Decimal) error {
	if !Normalize(amount).IsPositive() {
		return shared.Validation("payment amount must be greater than zero")
	}
	p.Amount = amount
	return nil
}

// SetMethod replaces the payment method reference.
func (p *Payment) SetMethod(methodID uuid.UUID) error {
	if methodID == uuid.Nil {
		return shared.Validation("payment method is required")
	}
	p.PaymentMethodID = methodID
	return nil
}

// PaymentRepository persists the entries of one ledger.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByParent(ctx context.Context, parentID uuid.UUID) ([]Payment, error)
	// TotalsByParent sums the ledgers of many parents in one query. Parents
	// without payments are absent from the result.
	TotalsByParent(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	DeletePermanently(ctx context.Context, id uuid.UUID) error
}

// PaymentMethod is a named means of payment (cash, transfer, check).
type PaymentMethod struct {
	shared.BaseEntity
	Name   string
	Active bool
}

// NewPaymentMethod creates an active payment method.
func NewPaymentMethod(name string) (*PaymentMethod, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.Validation("payment method name is required")
	}
	if len(name) > 100 {
		return nil, shared.Validation("payment method name cannot exceed 100 characters")
	}
	return &PaymentMethod{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Active:     true,
	}, nil
}

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)
	FindByName(ctx context.Context, name string) (*PaymentMethod, error)
	FindAll(ctx context.Context) ([]PaymentMethod, error)
	Create(ctx context.Context, method *PaymentMethod) error
}

// Parent is a record settled through a capped ledger.
type Parent interface {
	GetID() uuid.UUID
	// ExpectedTotal is the cap the ledger's normalized sum may not exceed.
	ExpectedTotal() decimal.Decimal
	// ApplyPaidTotal recomputes the parent's status from the ledger total and
	// reports whether it changed. Sticky statuses are left untouched.
	ApplyPaidTotal(totalPaid decimal.Decimal) (bool, error)
	// CurrentStatus is the parent's status as stored.
	CurrentStatus() string
}
