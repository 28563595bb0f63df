// Package purchase models the root commercial record of the business: a
// shrimp purchase from a farm, paid for through its own capped ledger.
package purchase

import (
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a purchase
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusClosed     Status = "CLOSED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusCreated, StatusInProgress, StatusCompleted, StatusConfirmed, StatusClosed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsSticky reports whether the status is only changed by an explicit status update.
func (s Status) IsSticky() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusClosed:
		return true
	case StatusCreated, StatusInProgress, StatusCompleted:
		return false
	}
	return false
}

// StatusFromProgress maps ledger progress to the purchase status it implies.
func StatusFromProgress(p ledger.Progress) (Status, error) {
	switch p {
	case ledger.Unpaid:
		return StatusCreated, nil
	case ledger.PartiallyPaid:
		return StatusInProgress, nil
	case ledger.FullyPaid:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unhandled ledger progress %s", p)
}

// Terms are the commercial fields of a purchase.
type Terms struct {
	ClientID         uuid.UUID
	CompanyID        uuid.UUID
	ShrimpFarmID     uuid.UUID
	PurchaseDate     time.Time
	InvoiceNumber    string
	AverageGrams     decimal.Decimal
	Price            decimal.Decimal
	PoundsPurchased  decimal.Decimal
	TotalAgreedToPay decimal.Decimal
}

// Validate checks the fields a non-draft purchase must carry.
func (t Terms) Validate() error {
	switch {
	case t.ClientID == uuid.Nil:
		return shared.Validation("client is required")
	case t.CompanyID == uuid.Nil:
		return shared.Validation("company is required")
	case t.ShrimpFarmID == uuid.Nil:
		return shared.Validation("shrimp farm is required")
	case !t.Price.IsPositive():
		return shared.Validation("price must be greater than zero")
	case !t.PoundsPurchased.IsPositive():
		return shared.Validation("pounds purchased must be greater than zero")
	case !t.TotalAgreedToPay.IsPositive():
		return shared.Validation("total agreed to pay must be greater than zero")
	case t.AverageGrams.IsNegative():
		return shared.Validation("average grams cannot be negative")
	}
	return nil
}

// Purchase is the root of the purchase → sale/logistics tree
type Purchase struct {
	shared.BaseEntity
	shared.SoftDeletable
	BuyerID          uuid.UUID
	ClientID         uuid.UUID
	CompanyID        uuid.UUID
	ShrimpFarmID     uuid.UUID
	PurchaseDate     time.Time
	InvoiceNumber    string
	AverageGrams     decimal.Decimal
	Price            decimal.Decimal
	PoundsPurchased  decimal.Decimal
	Subtotal         decimal.Decimal
	TotalAgreedToPay decimal.Decimal
	Status           Status
}

// NewPurchase creates a purchase. Drafts only need a buyer; everything else
// is validated when the draft is completed.
func NewPurchase(buyerID uuid.UUID, terms Terms, draft bool) (*Purchase, error) {
	if buyerID == uuid.Nil {
		return nil, shared.Validation("buyer is required")
	}
	if !draft {
		if err := terms.Validate(); err != nil {
			return nil, err
		}
	}
	p := &Purchase{
		BaseEntity: shared.NewBaseEntity(),
		BuyerID:    buyerID,
		Status:     StatusCreated,
	}
	if draft {
		p.Status = StatusDraft
	}
	p.applyTerms(terms)
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = p.CreatedAt
	}
	return p, nil
}

func (p *Purchase) applyTerms(t Terms) {
	p.ClientID = t.ClientID
	p.CompanyID = t.CompanyID
	p.ShrimpFarmID = t.ShrimpFarmID
	if !t.PurchaseDate.IsZero() {
		p.PurchaseDate = t.PurchaseDate
	}
	p.InvoiceNumber = t.InvoiceNumber
	p.AverageGrams = t.AverageGrams
	p.Price = t.Price
	p.PoundsPurchased = t.PoundsPurchased
	p.Subtotal = ledger.Normalize(t.Price.Mul(t.PoundsPurchased))
	p.TotalAgreedToPay = ledger.Normalize(t.TotalAgreedToPay)
}

func (p *Purchase) terms() Terms {
	return Terms{
		ClientID:         p.ClientID,
		CompanyID:        p.CompanyID,
		ShrimpFarmID:     p.ShrimpFarmID,
		PurchaseDate:     p.PurchaseDate,
		InvoiceNumber:    p.InvoiceNumber,
		AverageGrams:     p.AverageGrams,
		Price:            p.Price,
		PoundsPurchased:  p.PoundsPurchased,
		TotalAgreedToPay: p.TotalAgreedToPay,
	}
}

// IsDraft reports whether the purchase is still a draft.
func (p *Purchase) IsDraft() bool {
	return p.Status == StatusDraft
}

// Revise replaces the commercial terms. The new total may not fall below
// what has already been paid.
func (p *Purchase) Revise(terms Terms, totalPaid decimal.Decimal) error {
	if p.IsDeleted() {
		return shared.InvalidState("purchase has been removed")
	}
	if !p.IsDraft() {
		if err := terms.Validate(); err != nil {
			return err
		}
	}
	if err := ledger.CheckCap(totalPaid, terms.TotalAgreedToPay); err != nil {
		return err
	}
	p.applyTerms(terms)
	p.Touch()
	_, err := p.ApplyPaidTotal(totalPaid)
	return err
}

// Complete turns a draft into a regular purchase whose status follows its ledger.
func (p *Purchase) Complete(totalPaid decimal.Decimal) error {
	if !p.IsDraft() {
		return shared.InvalidState("purchase is not a draft")
	}
	if err := p.terms().Validate(); err != nil {
		return err
	}
	return p.derive(totalPaid)
}

// ExpectedTotal implements ledger.Parent
func (p *Purchase) ExpectedTotal() decimal.Decimal {
	return p.TotalAgreedToPay
}

// ApplyPaidTotal implements ledger.Parent
func (p *Purchase) ApplyPaidTotal(totalPaid decimal.Decimal) (bool, error) {
	if p.Status.IsSticky() {
		return false, nil
	}
	before := p.Status
	if err := p.derive(totalPaid); err != nil {
		return false, err
	}
	return before != p.Status, nil
}

// CurrentStatus implements ledger.Parent
func (p *Purchase) CurrentStatus() string {
	return string(p.Status)
}

func (p *Purchase) derive(totalPaid decimal.Decimal) error {
	next, err := StatusFromProgress(ledger.ProgressOf(totalPaid, p.TotalAgreedToPay))
	if err != nil {
		return err
	}
	if next != p.Status {
		p.Status = next
		p.Touch()
	}
	return nil
}

// ChangeStatus is the explicit status-only update. CONFIRMED, CLOSED and
// DRAFT are set as requested and then stay put; asking for any derived
// status releases them and recomputes from the ledger.
func (p *Purchase) ChangeStatus(target Status, totalPaid decimal.Decimal) error {
	if !target.IsValid() {
		return shared.Validation("invalid purchase status %q", string(target))
	}
	if p.IsDeleted() {
		return shared.InvalidState("purchase has been removed")
	}
	switch target {
	case StatusDraft:
		if !ledger.Normalize(totalPaid).IsZero() {
			return shared.InvalidState("a purchase with payments cannot return to draft")
		}
	case StatusConfirmed, StatusClosed:
		if p.IsDraft() {
			return shared.InvalidState("a draft purchase must be completed before it is %s", target)
		}
	case StatusCreated, StatusInProgress, StatusCompleted:
		if p.IsDraft() {
			return p.Complete(totalPaid)
		}
		return p.derive(totalPaid)
	}
	if p.Status != target {
		p.Status = target
		p.Touch()
	}
	return nil
}

// MarkDeleted sets the soft-delete timestamp.
func (p *Purchase) MarkDeleted(at time.Time) {
	p.DeletedAt = &at
}

var _ ledger.Parent = (*Purchase)(nil)
