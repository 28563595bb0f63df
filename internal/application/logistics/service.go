// Package logistics implements the cost sheet use cases of a purchase.
package logistics

import (
	"context"
	"time"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// LogisticsService handles logistics business operations
type LogisticsService struct {
	uow     appshared.UnitOfWork
	metrics appshared.RemovalMetrics
	now     func() time.Time
}

// NewLogisticsService creates a new LogisticsService
func NewLogisticsService(uow appshared.UnitOfWork) *LogisticsService {
	return &LogisticsService{
		uow: uow,
		now: time.Now,
	}
}

// SetMetrics sets the removal counter
func (s *LogisticsService) SetMetrics(m appshared.RemovalMetrics) {
	s.metrics = m
}

func checkPaymentMethods(ctx context.Context, tx appshared.Transaction, ids []*uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == nil || seen[*id] {
			continue
		}
		seen[*id] = true
		if _, err := tx.PaymentMethods().FindByID(ctx, *id); err != nil {
			return err
		}
	}
	return nil
}

// Create attaches a new cost sheet to a purchase
func (s *LogisticsService) Create(ctx context.Context, req CreateLogisticsRequest) (*LogisticsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "logistics", "create")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPurchaseID, req.PurchaseID.String(),
		telemetry.SpanAttrItemCount, len(req.Items))

	l, err := logistics.NewLogistics(req.PurchaseID, req.Content())
	if err != nil {
		return nil, err
	}
	err = appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		if _, err := tx.Purchases().FindByIDForUpdate(ctx, req.PurchaseID); err != nil {
			return err
		}
		if err := checkPaymentMethods(ctx, tx, req.methodIDs()); err != nil {
			return err
		}
		return tx.Logistics().Create(ctx, l)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrLogisticsID, l.ID.String())

	response := ToLogisticsResponse(l)
	return &response, nil
}

// Get retrieves a cost sheet with its items and payments
func (s *LogisticsService) Get(ctx context.Context, id uuid.UUID) (*LogisticsResponse, error) {
	l, err := s.uow.Reader().Logistics().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLogisticsResponse(l)
	return &response, nil
}

// ListByPurchase lists the live cost sheets of a purchase
func (s *LogisticsService) ListByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]LogisticsResponse, error) {
	repos := s.uow.Reader()
	if _, err := repos.Purchases().FindByID(ctx, purchaseID); err != nil {
		return nil, err
	}
	sheets, err := repos.Logistics().FindByPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	return ToLogisticsResponses(sheets), nil
}

// Update replaces the items and payments of a cost sheet wholesale
func (s *LogisticsService) Update(ctx context.Context, id uuid.UUID, req UpdateLogisticsRequest) (*LogisticsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "logistics", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLogisticsID, id.String(),
		telemetry.SpanAttrItemCount, len(req.Items))

	content := req.Content()
	if err := content.Validate(); err != nil {
		return nil, err
	}
	l, err := appshared.WithTransaction(ctx, s.uow, func(tx appshared.Transaction) (*logistics.Logistics, error) {
		l, err := tx.Logistics().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := checkPaymentMethods(ctx, tx, req.methodIDs()); err != nil {
			return nil, err
		}
		if err := l.Replace(content); err != nil {
			return nil, err
		}
		return l, tx.Logistics().Replace(ctx, l)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToLogisticsResponse(l)
	return &response, nil
}

// ChangeStatus closes a cost sheet or reopens it and derives the status
// from its payment rows.
func (s *LogisticsService) ChangeStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*LogisticsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "logistics", "change_status")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLogisticsID, id.String(), telemetry.SpanAttrStatus, req.Status)

	l, err := appshared.WithTransaction(ctx, s.uow, func(tx appshared.Transaction) (*logistics.Logistics, error) {
		l, err := tx.Logistics().FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		before := l.Status
		if err := l.ChangeStatus(logistics.Status(req.Status)); err != nil {
			return nil, err
		}
		if l.Status == before {
			return l, nil
		}
		return l, tx.Logistics().UpdateStatus(ctx, id, l.Status)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}

	response := ToLogisticsResponse(l)
	return &response, nil
}

// Remove soft-deletes a cost sheet. Its items and payments stay in place.
func (s *LogisticsService) Remove(ctx context.Context, id uuid.UUID) (*shared.RemovalResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "logistics", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrLogisticsID, id.String())

	now := s.now().UTC().Truncate(time.Microsecond)
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		if _, err := tx.Logistics().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		return tx.Logistics().SoftDelete(ctx, id, now)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	if s.metrics != nil {
		s.metrics.CascadeDeleted(ctx, "logistics")
	}
	return &shared.RemovalResult{ID: id, DeletedAt: now}, nil
}
