// Package ledger implements the payment ledger service shared by purchases,
// company sales and local company sale details. Each ledger is the same
// algorithm bound to a different parent record through a Binding.
package ledger

import (
	"context"
	"time"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metrics receives ledger counters. telemetry.LedgerMetrics implements it.
type Metrics interface {
	PaymentRecorded(ctx context.Context, ledgerName, operation string)
	OverpaymentRejected(ctx context.Context, ledgerName string)
}

type nopMetrics struct{}

func (nopMetrics) PaymentRecorded(context.Context, string, string) {}
func (nopMetrics) OverpaymentRejected(context.Context, string) {}

// CreatePaymentInput is the payload of Service.Create
type CreatePaymentInput struct {
	ParentID        uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     time.Time
	Reference       string
	Observation     string
}

// UpdatePaymentInput is the payload of Service.Update. Nil fields are left unchanged.
type UpdatePaymentInput struct {
	PaymentMethodID *uuid.UUID
	Amount          *decimal.Decimal
	PaymentDate     *time.Time
	Reference       *string
	Observation     *string
}

// Summary is a parent's ledger with its totals.
type Summary struct {
	ParentID      uuid.UUID
	ExpectedTotal decimal.Decimal
	TotalPaid     decimal.Decimal
	Remaining     decimal.Decimal
	Status        string
	Payments      []ledger.Payment
}

// Service creates, updates and removes the payments of one capped ledger,
// keeping the parent's status in step with the ledger total.
type Service struct {
	uow     appshared.UnitOfWork
	binding Binding
	metrics Metrics
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records ledger counters on m.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService creates a ledger service over binding.
func NewService(uow appshared.UnitOfWork, binding Binding, opts ...Option) *Service {
	s := &Service{
		uow:     uow,
		binding: binding,
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPurchasePaymentService creates the purchase payment ledger.
func NewPurchasePaymentService(uow appshared.UnitOfWork, opts ...Option) *Service {
	return NewService(uow, PurchaseBinding{}, opts...)
}

// NewCompanySalePaymentService creates the company sale payment ledger.
func NewCompanySalePaymentService(uow appshared.UnitOfWork, opts ...Option) *Service {
	return NewService(uow, CompanySaleBinding{}, opts...)
}

// NewLocalCompanySaleDetailPaymentService creates the local company sale detail payment ledger.
func NewLocalCompanySaleDetailPaymentService(uow appshared.UnitOfWork, opts ...Option) *Service {
	return NewService(uow, LocalCompanySaleDetailBinding{}, opts...)
}

// Kind names the ledger this service manages.
func (s *Service) Kind() ledger.Kind {
	return s.binding.Kind()
}

// Create records a new payment. The parent is locked for the duration of
// the transaction; nothing is written when the new total would exceed the
// parent's expected total.
func (s *Service) Create(ctx context.Context, in CreatePaymentInput) (*ledger.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, string(s.Kind())+"_ledger", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrParentID, in.ParentID.String(),
		telemetry.SpanAttrAmount, in.Amount.String(),
	)

	payment, err := ledger.NewPayment(in.ParentID, in.PaymentMethodID, in.Amount, in.PaymentDate)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	payment.Reference = in.Reference
	payment.Observation = in.Observation

	err = appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		parent, err := s.binding.LockParent(ctx, tx, in.ParentID)
		if err != nil {
			return err
		}
		if _, err := tx.PaymentMethods().FindByID(ctx, in.PaymentMethodID); err != nil {
			return err
		}
		payments := s.binding.Payments(tx)
		existing, err := payments.FindByParent(ctx, parent.GetID())
		if err != nil {
			return err
		}
		total := ledger.SumWith(existing, *payment)
		if err := s.checkCap(ctx, total, parent); err != nil {
			return err
		}
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		return s.settle(ctx, tx, parent, total)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	s.metrics.PaymentRecorded(ctx, string(s.Kind()), "create")
	return payment, nil
}

// Update changes a payment. The cap is re-checked against every other
// payment of the parent plus the (possibly new) amount.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdatePaymentInput) (*ledger.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, string(s.Kind())+"_ledger", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, id.String())

	var updated *ledger.Payment
	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		payments := s.binding.Payments(tx)
		payment, err := payments.FindByID(ctx, id)
		if err != nil {
			return err
		}
		parent, err := s.binding.LockParent(ctx, tx, payment.ParentID)
		if err != nil {
			return err
		}
		if in.PaymentMethodID != nil {
			if err := payment.SetMethod(*in.PaymentMethodID); err != nil {
				return err
			}
			if _, err := tx.PaymentMethods().FindByID(ctx, *in.PaymentMethodID); err != nil {
				return err
			}
		}
		if in.Amount != nil {
			if err := payment.SetAmount(*in.Amount); err != nil {
				return err
			}
		}
		if in.PaymentDate != nil {
			payment.PaymentDate = *in.PaymentDate
		}
		if in.Reference != nil {
			payment.Reference = *in.Reference
		}
		if in.Observation != nil {
			payment.Observation = *in.Observation
		}

		existing, err := payments.FindByParent(ctx, parent.GetID())
		if err != nil {
			return err
		}
		total := ledger.SumWith(existing, *payment)
		if err := s.checkCap(ctx, total, parent); err != nil {
			return err
		}
		payment.Touch()
		if err := payments.Update(ctx, payment); err != nil {
			return err
		}
		updated = payment
		return s.settle(ctx, tx, parent, total)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, appshared.AsTransactionFailure(err)
	}
	s.metrics.PaymentRecorded(ctx, string(s.Kind()), "update")
	return updated, nil
}

// Remove permanently deletes a payment and recomputes the parent's status,
// which may move backward.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, string(s.Kind())+"_ledger", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, id.String())

	err := appshared.RunInTransaction(ctx, s.uow, func(tx appshared.Transaction) error {
		payments := s.binding.Payments(tx)
		payment, err := payments.FindByID(ctx, id)
		if err != nil {
			return err
		}
		parent, err := s.binding.LockParent(ctx, tx, payment.ParentID)
		if err != nil {
			return err
		}
		if err := payments.DeletePermanently(ctx, id); err != nil {
			return err
		}
		remaining, err := payments.FindByParent(ctx, parent.GetID())
		if err != nil {
			return err
		}
		return s.settle(ctx, tx, parent, ledger.Sum(remaining))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return appshared.AsTransactionFailure(err)
	}
	s.metrics.PaymentRecorded(ctx, string(s.Kind()), "remove")
	return nil
}

// Summary returns a parent's payments and totals without locking.
func (s *Service) Summary(ctx context.Context, parentID uuid.UUID) (*Summary, error) {
	repos := s.uow.Reader()
	parent, err := s.binding.FindParent(ctx, repos, parentID)
	if err != nil {
		return nil, err
	}
	payments, err := s.binding.Payments(repos).FindByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	total := ledger.Sum(payments)
	return &Summary{
		ParentID:      parentID,
		ExpectedTotal: ledger.Normalize(parent.ExpectedTotal()),
		TotalPaid:     total,
		Remaining:     ledger.Remaining(total, parent.ExpectedTotal()),
		Status:        parent.CurrentStatus(),
		Payments:      payments,
	}, nil
}

func (s *Service) checkCap(ctx context.Context, total decimal.Decimal, parent ledger.Parent) error {
	if err := ledger.CheckCap(total, parent.ExpectedTotal()); err != nil {
		s.metrics.OverpaymentRejected(ctx, string(s.Kind()))
		return err
	}
	return nil
}

// settle recomputes the parent's status from total and persists it only
// when it changed, then runs the binding's follow-up in the same transaction.
func (s *Service) settle(ctx context.Context, tx appshared.Transaction, parent ledger.Parent, total decimal.Decimal) error {
	changed, err := parent.ApplyPaidTotal(total)
	if err != nil {
		return err
	}
	if changed {
		if err := s.binding.SaveStatus(ctx, tx, parent); err != nil {
			return err
		}
	}
	return s.binding.AfterSettle(ctx, tx, parent)
}
