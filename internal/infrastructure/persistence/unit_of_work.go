package persistence

import (
	"context"
	"errors"
	"sync"
	"time"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// TxObserver is told how every transaction ended. outcome is "commit",
// "rollback" or "abandoned" (ended without an explicit commit or rollback).
type TxObserver interface {
	ObserveTransaction(ctx context.Context, d time.Duration, outcome string)
}

// GormUnitOfWork implements appshared.UnitOfWork over a GORM connection.
type GormUnitOfWork struct {
	db       *gorm.DB
	observer TxObserver
	reader   *gormRepositories
}

// UnitOfWorkOption configures a GormUnitOfWork
type UnitOfWorkOption func(*GormUnitOfWork)

// WithTxObserver reports transaction durations to o.
func WithTxObserver(o TxObserver) UnitOfWorkOption {
	return func(u *GormUnitOfWork) {
		u.observer = o
	}
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB, opts ...UnitOfWorkOption) *GormUnitOfWork {
	u := &GormUnitOfWork{db: db, reader: &gormRepositories{db: db}}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Start begins a transaction. Every repository handed out by the returned
// Transaction is constructed over the transaction handle.
func (u *GormUnitOfWork) Start(ctx context.Context) (appshared.Transaction, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, shared.WrapDomainError(shared.CodeTransactionFailed, tx.Error)
	}
	return &gormTransaction{
		gormRepositories: gormRepositories{db: tx},
		ctx:              ctx,
		tx:               tx,
		state:            txActive,
		startedAt:        time.Now(),
		observer:         u.observer,
	}, nil
}

// Reader returns repositories bound to the plain connection
func (u *GormUnitOfWork) Reader() appshared.Repositories {
	return u.reader
}

var _ appshared.UnitOfWork = (*GormUnitOfWork)(nil)

type txState int

const (
	txActive txState = iota
	txCommitted
	txRolledBack
	txEnded
)

var errTxEnded = errors.New("transaction already ended")

// gormTransaction is one open unit of work. Its state only moves forward:
// active -> committed | rolled back -> ended.
type gormTransaction struct {
	gormRepositories

	ctx       context.Context
	tx        *gorm.DB
	observer  TxObserver
	startedAt time.Time

	mu      sync.Mutex
	state   txState
	outcome string
}

func (t *gormTransaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != txActive {
		return shared.NewDomainError(shared.CodeTransactionFailed, "commit: transaction is not active")
	}
	if err := t.tx.Commit().Error; err != nil {
		t.state = txRolledBack
		t.outcome = "rollback"
		return shared.WrapDomainError(shared.CodeTransactionFailed, err)
	}
	t.state = txCommitted
	t.outcome = "commit"
	return nil
}

func (t *gormTransaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case txActive:
	case txEnded:
		return shared.NewDomainError(shared.CodeTransactionFailed, "rollback: transaction already ended")
	default:
		return nil
	}
	t.state = txRolledBack
	t.outcome = "rollback"
	if err := t.tx.Rollback().Error; err != nil {
		return shared.WrapDomainError(shared.CodeTransactionFailed, err)
	}
	return nil
}

// End releases the transaction, rolling it back if it is still active.
// Repositories obtained afterwards fail with TRANSACTION_FAILED.
func (t *gormTransaction) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == txEnded {
		return
	}
	if t.state == txActive {
		_ = t.tx.Rollback().Error
		t.outcome = "abandoned"
	}
	t.state = txEnded

	ended := t.tx.Session(&gorm.Session{NewDB: true})
	_ = ended.AddError(shared.WrapDomainError(shared.CodeTransactionFailed, errTxEnded))
	t.gormRepositories = gormRepositories{db: ended}

	if t.observer != nil {
		t.observer.ObserveTransaction(t.ctx, time.Since(t.startedAt), t.outcome)
	}
}

var _ appshared.Transaction = (*gormTransaction)(nil)

// gormRepositories builds every repository over one handle.
type gormRepositories struct {
	db *gorm.DB
}

func (r *gormRepositories) Purchases() purchase.Repository {
	return NewGormPurchaseRepository(r.db)
}

func (r *gormRepositories) PurchasePayments() ledger.PaymentRepository {
	return NewGormPurchasePaymentRepository(r.db)
}

func (r *gormRepositories) PaymentMethods() ledger.PaymentMethodRepository {
	return NewGormPaymentMethodRepository(r.db)
}

func (r *gormRepositories) Sales() sale.Repository {
	return NewGormSaleRepository(r.db)
}

func (r *gormRepositories) SaleItems() sale.ItemRepository {
	return NewGormSaleItemRepository(r.db)
}

func (r *gormRepositories) CompanySales() sale.CompanySaleRepository {
	return NewGormCompanySaleRepository(r.db)
}

func (r *gormRepositories) CompanySalePayments() ledger.PaymentRepository {
	return NewGormCompanySalePaymentRepository(r.db)
}

func (r *gormRepositories) LocalSales() sale.LocalSaleRepository {
	return NewGormLocalSaleRepository(r.db)
}

func (r *gormRepositories) LocalCompanySaleDetailPayments() ledger.PaymentRepository {
	return NewGormLocalCompanySaleDetailPaymentRepository(r.db)
}

func (r *gormRepositories) Logistics() logistics.Repository {
	return NewGormLogisticsRepository(r.db)
}

var _ appshared.Repositories = (*gormRepositories)(nil)
