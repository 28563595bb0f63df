// Package shared contains application-layer plumbing used by every service,
// most importantly the Unit-of-Work port.
package shared

import (
	"context"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/sale"
)

// Repositories is the set of repositories a service may use. Repositories
// obtained from a Transaction are bound to that transaction's handle.
type Repositories interface {
	Purchases() purchase.Repository
	PurchasePayments() ledger.PaymentRepository
	PaymentMethods() ledger.PaymentMethodRepository
	Sales() sale.Repository
	SaleItems() sale.ItemRepository
	CompanySales() sale.CompanySaleRepository
	CompanySalePayments() ledger.PaymentRepository
	LocalSales() sale.LocalSaleRepository
	LocalCompanySaleDetailPayments() ledger.PaymentRepository
	Logistics() logistics.Repository
}

// Transaction is one open unit of work.
//
// End must be called exactly once on every path, typically deferred right
// after Start. End rolls back a transaction that was neither committed nor
// rolled back; calling it again is a no-op.
type Transaction interface {
	Repositories
	Commit() error
	Rollback() error
	End()
}

// UnitOfWork starts transactions.
type UnitOfWork interface {
	Start(ctx context.Context) (Transaction, error)
	// Reader returns repositories bound to no transaction, for queries.
	Reader() Repositories
}

// RunInTransaction runs fn inside a new transaction. A returned error or a
// panic rolls the transaction back and is passed on unchanged; otherwise the
// transaction is committed.
func RunInTransaction(ctx context.Context, uow UnitOfWork, fn func(tx Transaction) error) error {
	tx, err := uow.Start(ctx)
	if err != nil {
		return err
	}
	defer tx.End()

	committed := false
	defer func() {
		if r := recover(); r != nil {
			if !committed {
				_ = tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// WithTransaction is RunInTransaction for functions producing a value.
func WithTransaction[T any](ctx context.Context, uow UnitOfWork, fn func(tx Transaction) (T, error)) (T, error) {
	var out T
	err := RunInTransaction(ctx, uow, func(tx Transaction) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// RemovalMetrics counts soft-delete operations by the kind of record they
// started from. telemetry.LedgerMetrics implements it.
type RemovalMetrics interface {
	CascadeDeleted(ctx context.Context, root string)
}
