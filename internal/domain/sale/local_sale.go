package sale

import (
	"fmt"
	"strings"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalSaleStatus represents the status of a local sale
type LocalSaleStatus string

const (
	LocalSaleStatusDraft      LocalSaleStatus = "DRAFT"
	LocalSaleStatusCreated    LocalSaleStatus = "CREATED"
	LocalSaleStatusInProgress LocalSaleStatus = "IN_PROGRESS"
	LocalSaleStatusCompleted  LocalSaleStatus = "COMPLETED"
)

// IsValid checks if the status is a valid LocalSaleStatus
func (s LocalSaleStatus) IsValid() bool {
	switch s {
	case LocalSaleStatusDraft, LocalSaleStatusCreated, LocalSaleStatusInProgress, LocalSaleStatusCompleted:
		return true
	}
	return false
}

// DeriveLocalSaleStatus aggregates item payment statuses across every
// detail group together with the optional company sub-ledger status.
//
//	draft                                   -> DRAFT
//	all items NO_PAYMENT, sub-ledger unpaid -> CREATED
//	all items PAID, sub-ledger paid         -> COMPLETED
//	anything else                           -> IN_PROGRESS
//
// A nil sub-ledger counts as both unpaid and paid.
func DeriveLocalSaleStatus(draft bool, items []ledger.PaymentStatus, sub *ledger.PaymentStatus) (LocalSaleStatus, error) {
	if draft {
		return LocalSaleStatusDraft, nil
	}
	allUnpaid, allPaid := true, true
	for _, st := range items {
		switch st {
		case ledger.PaymentStatusNoPayment:
			allPaid = false
		case ledger.PaymentStatusPending:
			allPaid, allUnpaid = false, false
		case ledger.PaymentStatusPaid:
			allUnpaid = false
		default:
			return "", shared.Validation("unknown item payment status %q", string(st))
		}
	}
	if sub != nil {
		switch *sub {
		case ledger.PaymentStatusNoPayment:
			allPaid = false
		case ledger.PaymentStatusPending:
			allPaid, allUnpaid = false, false
		case ledger.PaymentStatusPaid:
			allUnpaid = false
		default:
			return "", shared.Validation("unknown company detail payment status %q", string(*sub))
		}
	}
	switch {
	case allUnpaid:
		return LocalSaleStatusCreated, nil
	case allPaid:
		return LocalSaleStatusCompleted, nil
	default:
		return LocalSaleStatusInProgress, nil
	}
}

// LocalItem is a line of a local sale detail with its own settlement state.
type LocalItem struct {
	ID              uuid.UUID
	DetailID        uuid.UUID
	Position        int
	Size            string
	Customer        string
	Pounds          decimal.Decimal
	Price           decimal.Decimal
	Total           decimal.Decimal
	PaymentStatus   ledger.PaymentStatus
	PaymentMethodID *uuid.UUID
}

// LocalItemInput is the payload for one local item.
type LocalItemInput struct {
	Size            string
	Customer        string
	Pounds          decimal.Decimal
	Price           decimal.Decimal
	PaymentStatus   ledger.PaymentStatus
	PaymentMethodID *uuid.UUID
}

// Validate checks one local item payload
func (in LocalItemInput) Validate(index int) error {
	switch {
	case strings.TrimSpace(in.Size) == "":
		return shared.Validation("item %d: size is required", index+1)
	case !in.Pounds.IsPositive():
		return shared.Validation("item %d: pounds must be greater than zero", index+1)
	case in.Price.IsNegative():
		return shared.Validation("item %d: price cannot be negative", index+1)
	case !in.PaymentStatus.IsValid():
		return shared.Validation("item %d: unknown payment status %q", index+1, string(in.PaymentStatus))
	}
	return nil
}

// LocalSaleDetail groups the local items of one style.
type LocalSaleDetail struct {
	ID            uuid.UUID
	LocalSaleID   uuid.UUID
	Style         DetailKind
	GrandTotal    decimal.Decimal
	ReceivedTotal decimal.Decimal
	Items         []LocalItem
}

// NewLocalSaleDetail builds detail id with a fresh item set. ReceivedTotal
// is the amount of items already PAID.
func NewLocalSaleDetail(id, localSaleID uuid.UUID, style DetailKind, inputs []LocalItemInput) (*LocalSaleDetail, error) {
	if !style.IsValid() {
		return nil, shared.Validation("invalid detail style %q", string(style))
	}
	if len(inputs) == 0 {
		return nil, shared.Validation("%s detail: at least one item is required", style)
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	d := &LocalSaleDetail{
		ID:            id,
		LocalSaleID:   localSaleID,
		Style:         style,
		GrandTotal:    decimal.Zero,
		ReceivedTotal: decimal.Zero,
		Items:         make([]LocalItem, len(inputs)),
	}
	for i, in := range inputs {
		if err := in.Validate(i); err != nil {
			return nil, fmt.Errorf("%s detail: %w", style, err)
		}
		total := ledger.Normalize(in.Pounds.Mul(in.Price))
		d.Items[i] = LocalItem{
			ID:              uuid.New(),
			DetailID:        id,
			Position:        i,
			Size:            strings.TrimSpace(in.Size),
			Customer:        strings.TrimSpace(in.Customer),
			Pounds:          in.Pounds,
			Price:           in.Price,
			Total:           total,
			PaymentStatus:   in.PaymentStatus,
			PaymentMethodID: in.PaymentMethodID,
		}
		d.GrandTotal = d.GrandTotal.Add(total)
		if in.PaymentStatus == ledger.PaymentStatusPaid {
			d.ReceivedTotal = d.ReceivedTotal.Add(total)
		}
	}
	return d, nil
}

// CompanyDetailInput is the payload of a local company sale detail.
type CompanyDetailInput struct {
	CompanyID           uuid.UUID
	Batch               string
	ReceiptDate         time.Time
	RetentionPercentage decimal.Decimal
	Items               []ItemInput
}

// Validate checks the company detail payload
func (in CompanyDetailInput) Validate() error {
	if in.CompanyID == uuid.Nil {
		return shared.Validation("company detail: company is required")
	}
	if in.RetentionPercentage.IsNegative() || in.RetentionPercentage.GreaterThan(hundred) {
		return shared.Validation("company detail: retention percentage must be between 0 and 100")
	}
	if err := ValidateItems(in.Items); err != nil {
		return fmt.Errorf("company detail: %w", err)
	}
	return nil
}

// LocalCompanySaleDetail is the part of a local sale settled with a company.
// It owns its own items and its own capped ledger, capped at NetGrandTotal.
type LocalCompanySaleDetail struct {
	shared.BaseEntity
	LocalSaleID         uuid.UUID
	CompanyID           uuid.UUID
	Batch               string
	ReceiptDate         time.Time
	GrandTotal          decimal.Decimal
	RetentionPercentage decimal.Decimal
	RetentionAmount     decimal.Decimal
	NetGrandTotal       decimal.Decimal
	PaymentStatus       ledger.PaymentStatus
	Items               []Item
}

// NewLocalCompanySaleDetail builds the company detail id (new when Nil).
func NewLocalCompanySaleDetail(id, localSaleID uuid.UUID, in CompanyDetailInput) (*LocalCompanySaleDetail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	base := shared.NewBaseEntity()
	if id != uuid.Nil {
		base.ID = id
	}
	items, err := BuildItems(base.ID, in.Items)
	if err != nil {
		return nil, fmt.Errorf("company detail: %w", err)
	}
	_, total := ItemTotals(items)
	retention := ledger.Normalize(total.Mul(in.RetentionPercentage).Div(hundred))
	return &LocalCompanySaleDetail{
		BaseEntity:          base,
		LocalSaleID:         localSaleID,
		CompanyID:           in.CompanyID,
		Batch:               in.Batch,
		ReceiptDate:         in.ReceiptDate,
		GrandTotal:          total,
		RetentionPercentage: in.RetentionPercentage,
		RetentionAmount:     retention,
		NetGrandTotal:       total.Sub(retention),
		PaymentStatus:       ledger.PaymentStatusNoPayment,
		Items:               items,
	}, nil
}

// ExpectedTotal implements ledger.Parent
func (d *LocalCompanySaleDetail) ExpectedTotal() decimal.Decimal {
	return d.NetGrandTotal
}

// ApplyPaidTotal implements ledger.Parent
func (d *LocalCompanySaleDetail) ApplyPaidTotal(totalPaid decimal.Decimal) (bool, error) {
	next, err := ledger.PaymentStatusFromProgress(ledger.ProgressOf(totalPaid, d.NetGrandTotal))
	if err != nil {
		return false, err
	}
	if next == d.PaymentStatus {
		return false, nil
	}
	d.PaymentStatus = next
	d.Touch()
	return true, nil
}

// CurrentStatus implements ledger.Parent
func (d *LocalCompanySaleDetail) CurrentStatus() string {
	return string(d.PaymentStatus)
}

var _ ledger.Parent = (*LocalCompanySaleDetail)(nil)

// LocalSale is a sale to the local market
type LocalSale struct {
	shared.BaseEntity
	shared.SoftDeletable
	SaleID            uuid.UUID
	WeightSheetNumber string
	Details           []LocalSaleDetail
	CompanyDetail     *LocalCompanySaleDetail
	GrandTotal        decimal.Decimal
	Status            LocalSaleStatus
}

// NewLocalSale creates a local sale; its status is derived once details are attached.
func NewLocalSale(saleID uuid.UUID, weightSheetNumber string, draft bool) *LocalSale {
	s := &LocalSale{
		BaseEntity:        shared.NewBaseEntity(),
		SaleID:            saleID,
		WeightSheetNumber: weightSheetNumber,
		GrandTotal:        decimal.Zero,
		Status:            LocalSaleStatusCreated,
	}
	if draft {
		s.Status = LocalSaleStatusDraft
	}
	return s
}

// DetailByStyle returns the detail of a style, or nil.
func (s *LocalSale) DetailByStyle(style DetailKind) *LocalSaleDetail {
	for i := range s.Details {
		if s.Details[i].Style == style {
			return &s.Details[i]
		}
	}
	return nil
}

// AttachDetails replaces the loaded detail groups and company detail and
// recomputes the grand total.
func (s *LocalSale) AttachDetails(details []LocalSaleDetail, company *LocalCompanySaleDetail) {
	s.Details = details
	s.CompanyDetail = company
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.GrandTotal)
	}
	if company != nil {
		total = total.Add(company.NetGrandTotal)
	}
	s.GrandTotal = ledger.Normalize(total)
	s.Touch()
}

// ItemStatuses lists the payment status of every item across all details.
func (s *LocalSale) ItemStatuses() []ledger.PaymentStatus {
	var out []ledger.PaymentStatus
	for _, d := range s.Details {
		for _, it := range d.Items {
			out = append(out, it.PaymentStatus)
		}
	}
	return out
}

// Recompute derives the status from the loaded details and company detail
// and reports whether it changed.
func (s *LocalSale) Recompute() (bool, error) {
	var sub *ledger.PaymentStatus
	if s.CompanyDetail != nil {
		st := s.CompanyDetail.PaymentStatus
		sub = &st
	}
	next, err := DeriveLocalSaleStatus(s.Status == LocalSaleStatusDraft, s.ItemStatuses(), sub)
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

// ChangeStatus sets DRAFT explicitly or, for any other target, releases the
// draft and recomputes.
func (s *LocalSale) ChangeStatus(target LocalSaleStatus) error {
	if !target.IsValid() {
		return shared.Validation("invalid local sale status %q", string(target))
	}
	if target == LocalSaleStatusDraft {
		s.Status = LocalSaleStatusDraft
		s.Touch()
		return nil
	}
	s.Status = LocalSaleStatusCreated
	_, err := s.Recompute()
	return err
}
