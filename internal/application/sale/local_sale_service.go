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
)

// LocalSaleService handles local sale business operations
type LocalSaleService struct {
	uow     appshared.UnitOfWork
	metrics appshared.RemovalMetrics
	now     func() time.Time
}

// NewLocalSaleService creates a new LocalSaleService
func NewLocalSaleService(uow appshared.UnitOfWork) *LocalSaleService {
	return &LocalSaleService{
		uow: uow,
		now: time.Now,
	}
}

// SetMetrics sets the removal counter
func (s *LocalSaleService) SetMetrics(m appshared.RemovalMetrics) {
	s.metrics = m
}

// localPlan is the validated payload of a create or update, ready to be
// turned into detail groups once the owning sale id is known.
type localPlan struct {
	styles  map[sale.DetailKind][]sale.LocalItemInput
	order   []sale.DetailKind
	company *sale.CompanyDetailInput
	methods []*uuid.UUID
}

func planLocalSale(details []LocalSaleDetailRequest, company *LocalCompanyDetailRequest) (*localPlan, error) {
	plan := &localPlan{styles: make(map[sale.DetailKind][]sale.LocalItemInput, len(details))}
	for _, d := range details {
		style := sale.DetailKind(d.Style)
		if _, dup := plan.styles[style]; dup {
			return nil, shared.Validation("style %s appears more than once", style)
		}
		inputs := d.inputs()
		for i, in := range inputs {
			if err := in.Validate(i); err != nil {
				return nil, err
			}
			plan.methods = append(plan.methods, in.PaymentMethodID)
		}
		plan.styles[style] = inputs
		plan.order = append(plan.order, style)
	}
	if company != nil {
		in := company.input()
		if err := in.Validate(); err != nil {
			return nil, err
		}
		plan.company = &in
	}
	if len(plan.order) == 0 && plan.company == nil {
		return nil, shared.Validation("a local sale needs at least one detail")
	}
	return plan, nil
}

// build materializes the detail groups. Existing detail ids are reused per
// style so a replaced group keeps its identity.
func (p *localPlan) build(ls *sale.LocalSale, previous *sale.LocalSale) ([]sale.LocalSaleDetail, *sale.LocalCompanySaleDetail, error) {
	details := make([]sale.LocalSaleDetail, 0, len(p.order))
	for _, style := range p.order {
		id := uuid.Nil
		if previous != nil {
			if prev := previous.DetailByStyle(style); prev != nil {
				id = prev.ID
			}
		}
		d, err := sale.NewLocalSaleDetail(id, ls.ID, style, p.styles[style])
		if err != nil {
			return nil, nil, err
		}
		details = append(details, *d)
	}
	if p.company == nil {
		return details, nil, nil
	}
	id := uuid.Nil
	if previous != nil && previous.CompanyDetail != nil {
		id = previous.CompanyDetail.ID
	}
	company, err := sale.NewLocalCompanySaleDetail(id, ls.ID, *p.company)
	if err != nil {
		return nil, nil, err
	}
	if previous != nil && previous.CompanyDetail != nil {
		company.CreatedAt = previous.CompanyDetail.CreatedAt
		company.PaymentStatus = previous.CompanyDetail.PaymentStatus
	}
	return details, company, nil
}

// Create creates the sale row and a local sale with its detail groups and
// optional company detail. Items go in before their detail, details before
// the local sale.
func (s *LocalSaleService) Create(ctx context.Context, req CreateLocalSaleRequest) (*LocalSaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "local_sale", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, req.PurchaseID.String())

	plan, err := planLocalSale(req.Details, req.CompanyDetail)
	if err != nil {
		return nil, err
	}
	var saleDate time.Time
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}
	row, err := sale.NewSale(req.PurchaseID, saleDate, sale.TypeLocal)
	if err != nil {
		return nil, err
	}
	ls := sale.NewLocalSale(row.ID, req.WeightSheetNumber, req.Draft)
	details, company, err := plan.build(ls, nil)
	if err != nil {
		return nil, err
	}
	ls.AttachDetails(details, company)
	if _, err := ls.Recompute(); err != nil {
		return nil, err
	}

	err = appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		if err := claimPurchase(ctx, tx, req.PurchaseID); err != nil {
			return err
		}
		if err := checkPaymentMethods(ctx, tx, plan.methods); err != nil {
			return err
		}
		for i := range details {
			if err := replaceLocalDetail(ctx, tx, nil, &details[i]); err != nil {
				return err
			}
		}
		if company != nil {
			if err := tx.SaleItems().CreateBatch(ctx, company.Items); err != nil {
				return err
			}
			if err := tx.LocalSales().CreateCompanyDetail(ctx, company); err != nil {
				return err
			}
		}
		if err := tx.Sales().Create(ctx, row); err != nil {
			return err
		}
		return tx.LocalSales().Create(ctx, ls)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLocalSaleID, ls.ID.String())

	response := ToLocalSaleResponse(ls)
	return &response, nil
}

// Get retrieves a local sale with its detail groups and company detail
func (s *LocalSaleService) Get(ctx context.Context, id uuid.UUID) (*LocalSaleResponse, error) {
	ls, err := s.uow.Reader().LocalSales().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLocalSaleResponse(ls)
	return &response, nil
}

// Update replaces every detail group and the company detail. The company
// detail keeps its id and ledger; its new net total may not fall below what
// has been paid against it, and it cannot be dropped once it has payments.
func (s *LocalSaleService) Update(ctx context.Context, id uuid.UUID, req UpdateLocalSaleRequest) (*LocalSaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "local_sale", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLocalSaleID, id.String())

	plan, err := planLocalSale(req.Details, req.CompanyDetail)
	if err != nil {
		return nil, err
	}

	var updated *sale.LocalSale
	err = appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		ls, err := tx.LocalSales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := checkPaymentMethods(ctx, tx, plan.methods); err != nil {
			return err
		}
		previous := *ls
		details, company, err := plan.build(ls, &previous)
		if err != nil {
			return err
		}

		prevCompany := previous.CompanyDetail
		if prevCompany != nil {
			payments, err := tx.LocalCompanySaleDetailPayments().FindByParent(ctx, prevCompany.ID)
			if err != nil {
				return err
			}
			paid := ledger.Sum(payments)
			if company == nil {
				if len(payments) > 0 {
					return shared.InvalidState("company detail %s has payments and cannot be removed", prevCompany.ID)
				}
			} else {
				if err := ledger.CheckCap(paid, company.NetGrandTotal); err != nil {
					return err
				}
				if _, err := company.ApplyPaidTotal(paid); err != nil {
					return err
				}
			}
		}

		ls.WeightSheetNumber = req.WeightSheetNumber
		ls.AttachDetails(details, company)
		if _, err := ls.Recompute(); err != nil {
			return err
		}

		kept := make(map[uuid.UUID]bool, len(details))
		for i := range details {
			kept[details[i].ID] = true
			if err := replaceLocalDetail(ctx, tx, previous.DetailByStyle(details[i].Style), &details[i]); err != nil {
				return err
			}
		}
		for i := range previous.Details {
			if kept[previous.Details[i].ID] {
				continue
			}
			if err := replaceLocalDetail(ctx, tx, &previous.Details[i], nil); err != nil {
				return err
			}
		}
		if err := replaceLocalCompanyDetail(ctx, tx, prevCompany, company); err != nil {
			return err
		}
		if err := tx.LocalSales().Update(ctx, ls); err != nil {
			return err
		}
		updated = ls
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToLocalSaleResponse(updated)
	return &response, nil
}

func replaceLocalDetail(ctx context.Context, tx appshared.Transaction, prev, next *sale.LocalSaleDetail) error {
	repo := tx.LocalSales()
	if prev != nil {
		if err := repo.DeleteItemsByDetailPermanently(ctx, prev.ID); err != nil {
			return err
		}
	}
	if next != nil {
		if err := repo.CreateItems(ctx, next.Items); err != nil {
			return err
		}
	}
	switch {
	case prev != nil && next != nil:
		return repo.UpdateDetail(ctx, next)
	case next != nil:
		return repo.CreateDetail(ctx, next)
	case prev != nil:
		return repo.DeleteDetailPermanently(ctx, prev.ID)
	}
	return nil
}

func replaceLocalCompanyDetail(ctx context.Context, tx appshared.Transaction, prev, next *sale.LocalCompanySaleDetail) error {
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
		return tx.LocalSales().UpdateCompanyDetail(ctx, next)
	case next != nil:
		return tx.LocalSales().CreateCompanyDetail(ctx, next)
	case prev != nil:
		return tx.LocalSales().DeleteCompanyDetailPermanently(ctx, prev.ID)
	}
	return nil
}

// ChangeStatus holds a local sale in DRAFT or, for any other status,
// releases it and derives the status from its items and company detail.
func (s *LocalSaleService) ChangeStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*LocalSaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "local_sale", "change_status")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLocalSaleID, id.String(), telemetry.SpanAttrStatus, req.Status)

	ls, err := appshared.WithTransaction(ctx, s.uow, func(tx appshared.Transaction) (*sale.LocalSale, error) {
		ls, err := tx.LocalSales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		before := ls.Status
		if err := ls.ChangeStatus(sale.LocalSaleStatus(req.Status)); err != nil {
			return nil, err
		}
		if ls.Status == before {
			return ls, nil
		}
		return ls, tx.LocalSales().UpdateStatus(ctx, id, ls.Status)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToLocalSaleResponse(ls)
	return &response, nil
}

// Remove soft-deletes a local sale together with its sale row
func (s *LocalSaleService) Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "local_sale", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLocalSaleID, id.String())

	now := s.now().UTC().Truncate(time.Microsecond)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		ls, err := tx.LocalSales().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.LocalSales().SoftDelete(ctx, id, now); err != nil {
			return err
		}
		return tx.Sales().SoftDelete(ctx, ls.SaleID, now)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeleted(ctx, "local_sale")
	}
	return &shared.RemovalResult{ID: id, DeletedAt: now}, nil
}
