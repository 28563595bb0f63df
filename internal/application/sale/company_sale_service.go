// Package sale implements the company sale and local sale use cases. Both
// own nested detail and item collections that are replaced wholesale on
// every update.
package sale

import (
	"context"
	"time"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompanySaleService handles company sale business operations
type CompanySaleService struct {
	uow     appshared.UnitOfWork
	metrics appshared.RemovalMetrics
	now     func() time.Time
}

// NewCompanySaleService creates a new CompanySaleService
func NewCompanySaleService(uow appshared.UnitOfWork) *CompanySaleService {
	return &CompanySaleService{
		uow: uow,
		now: time.Now,
	}
}

// SetMetrics sets the removal counter
func (s *CompanySaleService) SetMetrics(m appshared.RemovalMetrics) {
	s.metrics = m
}

func buildCompanyDetail(id, companySaleID uuid.UUID, kind sale.DetailKind, req *CompanySaleDetailRequest) (*sale.CompanySaleDetail, error) {
	if req == nil {
		return nil, nil
	}
	return sale.NewCompanySaleDetail(id, companySaleID, kind, toItemInputs(req.Items))
}

func requireOneDetail(whole, tail *CompanySaleDetailRequest) error {
	if whole == nil && tail == nil {
		return shared.Validation("a company sale needs a whole or a tail detail")
	}
	return nil
}

// Create creates the sale row, the company sale and its details for a
// purchase that has no live sale. Items are written before their detail and
// details before the company sale that references them.
func (s *CompanySaleService) Create(ctx context.Context, req CreateCompanySaleRequest) (*CompanySaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "company_sale", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, req.PurchaseID.String())

	if err := requireOneDetail(req.WholeDetail, req.TailDetail); err != nil {
		return nil, err
	}
	var saleDate time.Time
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}
	row, err := sale.NewSale(req.PurchaseID, saleDate, sale.TypeCompany)
	if err != nil {
		return nil, err
	}
	cs, err := sale.NewCompanySale(row.ID, req.toHeader())
	if err != nil {
		return nil, err
	}
	whole, err := buildCompanyDetail(uuid.Nil, cs.ID, sale.DetailKindWhole, req.WholeDetail)
	if err != nil {
		return nil, err
	}
	tail, err := buildCompanyDetail(uuid.Nil, cs.ID, sale.DetailKindTail, req.TailDetail)
	if err != nil {
		return nil, err
	}
	cs.AttachDetails(whole, tail)

	err = appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		if err := claimPurchase(ctx, tx, req.PurchaseID); err != nil {
			return err
		}
		for _, d := range []*sale.CompanySaleDetail{whole, tail} {
			if d == nil {
				continue
			}
			if err := tx.SaleItems().CreateBatch(ctx, d.Items); err != nil {
				return err
			}
			if err := tx.CompanySales().CreateDetail(ctx, d); err != nil {
				return err
			}
		}
		if err := tx.Sales().Create(ctx, row); err != nil {
			return err
		}
		return tx.CompanySales().Create(ctx, cs)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanySaleID, cs.ID.String())

	response := ToCompanySaleResponse(cs, decimal.Zero)
	return &response, nil
}

// Get retrieves a company sale with both details and its paid total
func (s *CompanySaleService) Get(ctx context.Context, id uuid.UUID) (*CompanySaleResponse, error) {
	repos := s.uow.Reader()
	cs, err := repos.CompanySales().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := repos.CompanySalePayments().FindByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCompanySaleResponse(cs, ledger.Sum(payments))
	return &response, nil
}

// Update replaces the header and both details. A supplied detail keeps its
// id but gets a brand-new item set; an omitted detail is removed with its
// items. The new grand total may not fall below what has been paid.
func (s *CompanySaleService) Update(ctx context.Context, id uuid.UUID, req UpdateCompanySaleRequest) (*CompanySaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "company_sale", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanySaleID, id.String())

	if err := requireOneDetail(req.WholeDetail, req.TailDetail); err != nil {
		return nil, err
	}
	header := req.toHeader()
	if err := header.Validate(); err != nil {
		return nil, err
	}
	for _, d := range []*CompanySaleDetailRequest{req.WholeDetail, req.TailDetail} {
		if d == nil {
			continue
		}
		if err := sale.ValidateItems(toItemInputs(d.Items)); err != nil {
			return nil, err
		}
	}

	var (
		updated *sale.CompanySale
		paid    decimal.Decimal
	)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		cs, err := tx.CompanySales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		previous := map[sale.DetailKind]*sale.CompanySaleDetail{
			sale.DetailKindWhole: cs.WholeDetail,
			sale.DetailKindTail:  cs.TailDetail,
		}
		incoming := map[sale.DetailKind]*CompanySaleDetailRequest{
			sale.DetailKindWhole: req.WholeDetail,
			sale.DetailKindTail:  req.TailDetail,
		}
		next := make(map[sale.DetailKind]*sale.CompanySaleDetail, 2)
		for _, kind := range []sale.DetailKind{sale.DetailKindWhole, sale.DetailKindTail} {
			detailID := uuid.Nil
			if prev := previous[kind]; prev != nil {
				detailID = prev.ID
			}
			d, err := buildCompanyDetail(detailID, cs.ID, kind, incoming[kind])
			if err != nil {
				return err
			}
			next[kind] = d
		}

		if err := cs.Revise(header); err != nil {
			return err
		}
		cs.AttachDetails(next[sale.DetailKindWhole], next[sale.DetailKindTail])

		payments, err := tx.CompanySalePayments().FindByParent(ctx, id)
		if err != nil {
			return err
		}
		paid = ledger.Sum(payments)
		if err := ledger.CheckCap(paid, cs.GrandTotal); err != nil {
			return err
		}
		if _, err := cs.ApplyPaidTotal(paid); err != nil {
			return err
		}

		for _, kind := range []sale.DetailKind{sale.DetailKindWhole, sale.DetailKindTail} {
			if err := replaceCompanyDetail(ctx, tx, previous[kind], next[kind]); err != nil {
				return err
			}
		}
		if err := tx.CompanySales().Update(ctx, cs); err != nil {
			return err
		}
		updated = cs
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToCompanySaleResponse(updated, paid)
	return &response, nil
}

// replaceCompanyDetail moves one detail slot from prev to next: the stored
// items are always deleted, the new items written, then the detail row is
// updated, created or removed.
func replaceCompanyDetail(ctx context.Context, tx appshared.Transaction, prev, next *sale.CompanySaleDetail) error {
	if prev != nil {
		if err := tx.SaleItems().DeleteByDetailPermanently(ctx, prev.ID); err != nil {
			return err
		}
	}
	if next != nil {
		if err := tx.SaleItems().CreateBatch(ctx, next.Items); err != nil {
			return err
		}
	}
	switch {
	case prev != nil && next != nil:
		return tx.CompanySales().UpdateDetail(ctx, next)
	case next != nil:
		return tx.CompanySales().CreateDetail(ctx, next)
	case prev != nil:
		return tx.CompanySales().DeleteDetailPermanently(ctx, prev.ID)
	}
	return nil
}

// ChangeStatus closes a company sale or, for any other status, reopens it
// and recomputes the status from its payments.
func (s *CompanySaleService) ChangeStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*CompanySaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "company_sale", "change_status")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanySaleID, id.String(), telemetry.SpanAttrStatus, req.Status)

	var (
		updated *sale.CompanySale
		paid    decimal.Decimal
	)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		cs, err := tx.CompanySales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		payments, err := tx.CompanySalePayments().FindByParent(ctx, id)
		if err != nil {
			return err
		}
		paid = ledger.Sum(payments)
		before := cs.Status
		if err := cs.ChangeStatus(sale.CompanySaleStatus(req.Status), paid); err != nil {
			return err
		}
		updated = cs
		if cs.Status == before {
			return nil
		}
		return tx.CompanySales().UpdateStatus(ctx, id, cs.Status)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToCompanySaleResponse(updated, paid)
	return &response, nil
}

// Remove soft-deletes a company sale together with its sale row. Details,
// items and payments stay in place.
func (s *CompanySaleService) Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "company_sale", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrCompanySaleID, id.String())

	now := s.now().UTC().Truncate(time.Microsecond)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		cs, err := tx.CompanySales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.CompanySales().SoftDelete(ctx, id, now); err != nil {
			return err
		}
		return tx.Sales().SoftDelete(ctx, cs.SaleID, now)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeleted(ctx, "company_sale")
	}
	return &shared.RemovalResult{ID: id, DeletedAt: now}, nil
}
