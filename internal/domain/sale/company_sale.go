package sale

import (
	"fmt"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanySaleStatus represents the status of a company sale
type CompanySaleStatus string

const (
	CompanySaleStatusDraft      CompanySaleStatus = "DRAFT"
	CompanySaleStatusInProgress CompanySaleStatus = "IN_PROGRESS"
	CompanySaleStatusCompleted  CompanySaleStatus = "COMPLETED"
	CompanySaleStatusClosed     CompanySaleStatus = "CLOSED"
)

// IsValid checks if the status is a valid CompanySaleStatus
func (s CompanySaleStatus) IsValid() bool {
	switch s {
	case CompanySaleStatusDraft, CompanySaleStatusInProgress, CompanySaleStatusCompleted, CompanySaleStatusClosed:
		return true
	}
	return false
}

// CompanySaleStatusFromProgress maps ledger progress to a company sale status.
func CompanySaleStatusFromProgress(p ledger.Progress) (CompanySaleStatus, error) {
	switch p {
	case ledger.Unpaid:
		return CompanySaleStatusDraft, nil
	case ledger.PartiallyPaid:
		return CompanySaleStatusInProgress, nil
	case ledger.FullyPaid:
		return CompanySaleStatusCompleted, nil
	}
	return "", fmt.Errorf("unhandled ledger progress %s", p)
}

// DetailKind separates whole shrimp from tails.
type DetailKind string

const (
	DetailKindWhole DetailKind = "WHOLE"
	DetailKindTail  DetailKind = "TAIL"
)

// IsValid checks if the kind is a valid DetailKind
func (k DetailKind) IsValid() bool {
	switch k {
	case DetailKindWhole, DetailKindTail:
		return true
	}
	return false
}

// CompanySaleDetail groups the items of one kind.
type CompanySaleDetail struct {
	ID            uuid.UUID
	CompanySaleID uuid.UUID
	Kind          DetailKind
	TotalPounds   decimal.Decimal
	GrandTotal    decimal.Decimal
	Items         []Item
}

// NewCompanySaleDetail builds detail id of companySaleID with a fresh item set.
// Passing the id of an existing detail keeps the detail and replaces its items.
func NewCompanySaleDetail(id, companySaleID uuid.UUID, kind DetailKind, inputs []ItemInput) (*CompanySaleDetail, error) {
	if !kind.IsValid() {
		return nil, shared.Validation("invalid detail kind %q", string(kind))
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	items, err := BuildItems(id, inputs)
	if err != nil {
		return nil, fmt.Errorf("%s detail: %w", kind, err)
	}
	pounds, total := ItemTotals(items)
	return &CompanySaleDetail{
		ID:            id,
		CompanySaleID: companySaleID,
		Kind:          kind,
		TotalPounds:   pounds,
		GrandTotal:    total,
		Items:         items,
	}, nil
}

// CompanySaleHeader carries the processing metrics of a company sale.
type CompanySaleHeader struct {
	Batch           string
	ReceptionDate   time.Time
	SettleDate      time.Time
	PredominantSize string
	ProcessedPounds decimal.Decimal
	TrashedPounds   decimal.Decimal
}

// Validate checks header fields
func (h CompanySaleHeader) Validate() error {
	switch {
	case h.Batch == "":
		return shared.Validation("batch is required")
	case h.ProcessedPounds.IsNegative():
		return shared.Validation("processed pounds cannot be negative")
	case h.TrashedPounds.IsNegative():
		return shared.Validation("trashed pounds cannot be negative")
	}
	return nil
}

// CompanySale is a sale settled with a processing company
type CompanySale struct {
	shared.BaseEntity
	shared.SoftDeletable
	SaleID uuid.UUID
	CompanySaleHeader
	WholeDetailID *uuid.UUID
	TailDetailID  *uuid.UUID
	WholeDetail   *CompanySaleDetail
	TailDetail    *CompanySaleDetail
	GrandTotal    decimal.Decimal
	Status        CompanySaleStatus
}

// NewCompanySale creates a company sale in DRAFT.
func NewCompanySale(saleID uuid.UUID, header CompanySaleHeader) (*CompanySale, error) {
	if err := header.Validate(); err != nil {
		return nil, err
	}
	return &CompanySale{
		BaseEntity:        shared.NewBaseEntity(),
		SaleID:            saleID,
		CompanySaleHeader: header,
		GrandTotal:        decimal.Zero,
		Status:            CompanySaleStatusDraft,
	}, nil
}

// Revise replaces the header fields.
func (s *CompanySale) Revise(header CompanySaleHeader) error {
	if err := header.Validate(); err != nil {
		return err
	}
	s.CompanySaleHeader = header
	s.Touch()
	return nil
}

// Detail returns the detail of the given kind, or nil.
func (s *CompanySale) Detail(kind DetailKind) *CompanySaleDetail {
	if kind == DetailKindWhole {
		return s.WholeDetail
	}
	return s.TailDetail
}

// AttachDetails points the sale at whole and tail (either may be nil) and
// recomputes the grand total from them.
func (s *CompanySale) AttachDetails(whole, tail *CompanySaleDetail) {
	s.WholeDetail, s.TailDetail = whole, tail
	s.WholeDetailID, s.TailDetailID = nil, nil
	total := decimal.Zero
	if whole != nil {
		id := whole.ID
		s.WholeDetailID = &id
		total = total.Add(whole.GrandTotal)
	}
	if tail != nil {
		id := tail.ID
		s.TailDetailID = &id
		total = total.Add(tail.GrandTotal)
	}
	s.GrandTotal = ledger.Normalize(total)
	s.Touch()
}

// ExpectedTotal implements ledger.Parent
func (s *CompanySale) ExpectedTotal() decimal.Decimal {
	return s.GrandTotal
}

// ApplyPaidTotal implements ledger.Parent
func (s *CompanySale) ApplyPaidTotal(totalPaid decimal.Decimal) (bool, error) {
	if s.Status == CompanySaleStatusClosed {
		return false, nil
	}
	next, err := CompanySaleStatusFromProgress(ledger.ProgressOf(totalPaid, s.GrandTotal))
	if err != nil {
		return false, err
	}
	if next == s.Status {
		return false, nil
	}
	s.Status = next
	s.Touch()
	return true, nil
}

// CurrentStatus implements ledger.Parent
func (s *CompanySale) CurrentStatus() string {
	return string(s.Status)
}

// ChangeStatus closes the sale or, for any other target, reopens it and
// recomputes the status from the ledger.
func (s *CompanySale) ChangeStatus(target CompanySaleStatus, totalPaid decimal.Decimal) error {
	if !target.IsValid() {
		return shared.Validation("invalid company sale status %q", string(target))
	}
	if target == CompanySaleStatusClosed {
		s.Status = CompanySaleStatusClosed
		s.Touch()
		return nil
	}
	// Clear the sticky state so the ledger decides.
	s.Status = ""
	_, err := s.ApplyPaidTotal(totalPaid)
	return err
}

var _ ledger.Parent = (*CompanySale)(nil)
