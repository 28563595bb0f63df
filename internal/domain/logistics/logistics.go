// Package logistics models the cost sheet of a purchase: cost lines and the
// payments made against them, each payment carrying its own settlement state.
package logistics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the status of a logistics sheet
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusClosed     Status = "CLOSED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted, StatusClosed:
		return true
	}
	return false
}

// StatusFromSettlement maps the settlement of the payment rows to a status.
func StatusFromSettlement(s ledger.Settlement) (Status, error) {
	switch s {
	case ledger.NotStarted:
		return StatusCreated, nil
	case ledger.Ongoing:
		return StatusInProgress, nil
	case ledger.Settled:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unhandled settlement %d", int(s))
}

// Type of logistics sheet
type Type string

const (
	TypeShipment        Type = "SHIPMENT"
	TypeLocalProcessing Type = "LOCAL_PROCESSING"
)

// IsValid checks if the type is a valid Type
func (t Type) IsValid() bool {
	return t == TypeShipment || t == TypeLocalProcessing
}

// Item is a cost line.
type Item struct {
	ID          uuid.UUID
	LogisticsID uuid.UUID
	Position    int
	Category    string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	Cost        decimal.Decimal
	Total       decimal.Decimal
}

// ItemInput is the payload for one cost line.
type ItemInput struct {
	Category    string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	Cost        decimal.Decimal
}

// Payment is a payment row of a logistics sheet.
type Payment struct {
	ID              uuid.UUID
	LogisticsID     uuid.UUID
	Position        int
	Title           string
	Amount          decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethodID *uuid.UUID
	PaymentStatus   ledger.PaymentStatus
}

// PaymentInput is the payload for one payment row.
type PaymentInput struct {
	Title           string
	Amount          decimal.Decimal
	PaymentDate     *time.Time
	PaymentMethodID *uuid.UUID
	PaymentStatus   ledger.PaymentStatus
}

// Content is the replaceable part of a logistics sheet.
type Content struct {
	Type          Type
	LogisticsDate time.Time
	Items         []ItemInput
	Payments      []PaymentInput
}

// Validate checks the payload before any write happens.
func (c Content) Validate() error {
	if !c.Type.IsValid() {
		return shared.Validation("invalid logistics type %q", string(c.Type))
	}
	if len(c.Items) == 0 {
		return shared.Validation("at least one logistics item is required")
	}
	for i, it := range c.Items {
		switch {
		case strings.TrimSpace(it.Category) == "":
			return shared.Validation("item %d: category is required", i+1)
		case !it.Quantity.IsPositive():
			return shared.Validation("item %d: quantity must be greater than zero", i+1)
		case it.Cost.IsNegative():
			return shared.Validation("item %d: cost cannot be negative", i+1)
		}
	}
	for i, p := range c.Payments {
		if !p.Amount.IsPositive() {
			return shared.Validation("payment %d: amount must be greater than zero", i+1)
		}
		if !p.PaymentStatus.IsValid() {
			return shared.Validation("payment %d: unknown payment status %q", i+1, string(p.PaymentStatus))
		}
	}
	return nil
}

// Logistics is a cost sheet attached to a purchase
type Logistics struct {
	shared.BaseEntity
	shared.SoftDeletable
	PurchaseID    uuid.UUID
	Type          Type
	LogisticsDate time.Time
	GrandTotal    decimal.Decimal
	Status        Status
	Items         []Item
	Payments      []Payment
}

// NewLogistics creates a cost sheet for purchaseID from content.
func NewLogistics(purchaseID uuid.UUID, content Content) (*Logistics, error) {
	if purchaseID == uuid.Nil {
		return nil, shared.Validation("purchase is required")
	}
	l := &Logistics{
		BaseEntity: shared.NewBaseEntity(),
		PurchaseID: purchaseID,
		Status:     StatusCreated,
	}
	if err := l.Replace(content); err != nil {
		return nil, err
	}
	return l, nil
}

// Replace swaps in a brand-new item and payment set built from content,
// recomputing the grand total and, unless CLOSED, the status.
func (l *Logistics) Replace(content Content) error {
	if err := content.Validate(); err != nil {
		return err
	}
	items := make([]Item, len(content.Items))
	total := decimal.Zero
	for i, in := range content.Items {
		items[i] = Item{
			ID:          uuid.New(),
			LogisticsID: l.ID,
			Position:    i,
			Category:    strings.TrimSpace(in.Category),
			Description: in.Description,
			Unit:        in.Unit,
			Quantity:    in.Quantity,
			Cost:        in.Cost,
			Total:       ledger.Normalize(in.Quantity.Mul(in.Cost)),
		}
		total = total.Add(items[i].Total)
	}
	payments := make([]Payment, len(content.Payments))
	for i, in := range content.Payments {
		payments[i] = Payment{
			ID:              uuid.New(),
			LogisticsID:     l.ID,
			Position:        i,
			Title:           in.Title,
			Amount:          ledger.Normalize(in.Amount),
			PaymentDate:     in.PaymentDate,
			PaymentMethodID: in.PaymentMethodID,
			PaymentStatus:   in.PaymentStatus,
		}
	}
	l.Type = content.Type
	l.LogisticsDate = content.LogisticsDate
	if l.LogisticsDate.IsZero() {
		l.LogisticsDate = l.CreatedAt
	}
	l.Items = items
	l.Payments = payments
	l.GrandTotal = ledger.Normalize(total)
	l.Touch()
	_, err := l.Recompute()
	return err
}

// PaymentStatuses lists the status of every payment row.
func (l *Logistics) PaymentStatuses() []ledger.PaymentStatus {
	out := make([]ledger.PaymentStatus, len(l.Payments))
	for i, p := range l.Payments {
		out[i] = p.PaymentStatus
	}
	return out
}

// Recompute derives the status from the payment rows unless CLOSED.
func (l *Logistics) Recompute() (bool, error) {
	if l.Status == StatusClosed {
		return false, nil
	}
	settlement, err := ledger.SettlementOf(l.PaymentStatuses())
	if err != nil {
		return false, err
	}
	next, err := StatusFromSettlement(settlement)
	if err != nil {
		return false, err
	}
	if next == l.Status {
		return false, nil
	}
	l.Status = next
	return true, nil
}

// ChangeStatus closes the sheet or reopens it and recomputes.
func (l *Logistics) ChangeStatus(target Status) error {
	if !target.IsValid() {
		return shared.Validation("invalid logistics status %q", string(target))
	}
	if target == StatusClosed {
		l.Status = StatusClosed
		l.Touch()
		return nil
	}
	l.Status = StatusCreated
	_, err := l.Recompute()
	return err
}

// Repository defines the interface for logistics persistence. Finders load
// items and payments and skip soft-deleted sheets.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Logistics, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Logistics, error)
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]Logistics, error)
	// Create writes items and payments first, then the sheet.
	Create(ctx context.Context, l *Logistics) error
	// Replace permanently deletes the stored items and payments, writes the
	// new sets, then updates the sheet.
	Replace(ctx context.Context, l *Logistics) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}
