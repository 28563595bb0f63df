// Package purchase implements the purchase use cases: the purchase
// lifecycle and the cascade that removes a purchase with everything
// hanging off it.
package purchase

import (
	"context"
	"time"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseService handles purchase business operations
type PurchaseService struct {
	uow     appshared.UnitOfWork
	metrics appshared.RemovalMetrics
	now     func() time.Time
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(uow appshared.UnitOfWork) *PurchaseService {
	return &PurchaseService{
		uow: uow,
		now: time.Now,
	}
}

// SetMetrics sets the cascade removal counter
func (s *PurchaseService) SetMetrics(m appshared.RemovalMetrics) {
	s.metrics = m
}

// Create creates a purchase, as a draft when requested
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "create")
	defer span.End()

	p, err := purchase.NewPurchase(req.BuyerID, req.Terms(), req.Draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.uow.Reader().Purchases().Create(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, p.ID.String(), telemetry.SpanAttrStatus, string(p.Status))

	response := ToPurchaseResponse(p, decimal.Zero)
	return &response, nil
}

// GetByID retrieves a purchase with its paid total
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	repos := s.uow.Reader()
	p, err := repos.Purchases().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := repos.PurchasePayments().FindByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(p, ledger.Sum(payments))
	return &response, nil
}

// List lists purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, query ListPurchasesQuery) (*shared.Paginated[PurchaseResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.OrderBy != "" {
		filter.OrderBy = query.OrderBy
	}
	if query.OrderDir != "" {
		filter.OrderDir = query.OrderDir
	}
	if query.Status != "" {
		filter.Filters["status"] = query.Status
	}
	if query.ClientID != nil {
		filter.Filters["client_id"] = *query.ClientID
	}
	if query.CompanyID != nil {
		filter.Filters["company_id"] = *query.CompanyID
	}
	if query.BuyerID != nil {
		filter.Filters["buyer_id"] = *query.BuyerID
	}

	repos := s.uow.Reader()
	purchases, total, err := repos.Purchases().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(purchases))
	for i := range purchases {
		ids[i] = purchases[i].ID
	}
	paid, err := repos.PurchasePayments().TotalsByParent(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		items[i] = ToPurchaseResponse(&purchases[i], ledger.Normalize(paid[purchases[i].ID]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update replaces the terms of a purchase. The agreed total may not drop
// below what has been paid; a derived status is recomputed from the ledger.
func (s *PurchaseService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, id.String())

	var (
		updated *purchase.Purchase
		paid    decimal.Decimal
	)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		p, err := tx.Purchases().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		payments, err := tx.PurchasePayments().FindByParent(ctx, id)
		if err != nil {
			return err
		}
		paid = ledger.Sum(payments)
		if err := p.Revise(req.Terms(), paid); err != nil {
			return err
		}
		if req.Complete && p.IsDraft() {
			if err := p.Complete(paid); err != nil {
				return err
			}
		}
		if err := tx.Purchases().Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToPurchaseResponse(updated, paid)
	return &response, nil
}

// UpdateStatus is the status-only update. CONFIRMED, CLOSED and DRAFT stick
// until another status-only update; any other status is recomputed.
func (s *PurchaseService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "update_status")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, id.String(), telemetry.SpanAttrStatus, req.Status)

	var (
		updated *purchase.Purchase
		paid    decimal.Decimal
	)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		p, err := tx.Purchases().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		payments, err := tx.PurchasePayments().FindByParent(ctx, id)
		if err != nil {
			return err
		}
		paid = ledger.Sum(payments)
		before := p.Status
		if err := p.ChangeStatus(purchase.Status(req.Status), paid); err != nil {
			return err
		}
		updated = p
		if p.Status == before {
			return nil
		}
		return tx.Purchases().UpdateStatus(ctx, id, p.Status)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToPurchaseResponse(updated, paid)
	return &response, nil
}

// Remove soft-deletes a purchase and, in the same transaction and with the
// same timestamp, its logistics, its sale and the sale's company or local
// sale. Payments are kept.
func (s *PurchaseService) Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, id.String())

	now := s.now().UTC().Truncate(time.Microsecond)
	var removed int
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		n, err := CascadeRemove(ctx, tx, id, now)
		removed = n
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	telemetry.AddEvent(span, "cascade_removed", "records", removed)
	if s.metrics != nil {
		s.metrics.CascadeDeleted(ctx, "purchase")
	}
	return &shared.RemovalResult{ID: id, DeletedAt: now}, nil
}
