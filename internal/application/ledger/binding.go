package ledger

import (
	"context"
	"fmt"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/purchase"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/google/uuid"
)

// Binding ties the ledger algorithm to one kind of parent record.
type Binding interface {
	Kind() ledger.Kind
	Payments(repos appshared.Repositories) ledger.PaymentRepository
	// LockParent loads the parent under a row lock held until the
	// transaction ends. Removed parents are NOT_FOUND.
	LockParent(ctx context.Context, tx appshared.Transaction, id uuid.UUID) (ledger.Parent, error)
	FindParent(ctx context.Context, repos appshared.Repositories, id uuid.UUID) (ledger.Parent, error)
	SaveStatus(ctx context.Context, tx appshared.Transaction, parent ledger.Parent) error
	// AfterSettle runs after every ledger write, inside the same transaction.
	AfterSettle(ctx context.Context, tx appshared.Transaction, parent ledger.Parent) error
}

// PurchaseBinding settles purchases against total_agreed_to_pay.
type PurchaseBinding struct{}

func (PurchaseBinding) Kind() ledger.Kind { return ledger.KindPurchase }

func (PurchaseBinding) Payments(repos appshared.Repositories) ledger.PaymentRepository {
	return repos.PurchasePayments()
}

func (PurchaseBinding) LockParent(ctx context.Context, tx appshared.Transaction, id uuid.UUID) (ledger.Parent, error) {
	p, err := tx.Purchases().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (PurchaseBinding) FindParent(ctx context.Context, repos appshared.Repositories, id uuid.UUID) (ledger.Parent, error) {
	p, err := repos.Purchases().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (PurchaseBinding) SaveStatus(ctx context.Context, tx appshared.Transaction, parent ledger.Parent) error {
	p, ok := parent.(*purchase.Purchase)
	if !ok {
		return fmt.Errorf("purchase ledger: unexpected parent %T", parent)
	}
	return tx.Purchases().UpdateStatus(ctx, p.ID, p.Status)
}

func (PurchaseBinding) AfterSettle(context.Context, appshared.Transaction, ledger.Parent) error {
	return nil
}

// CompanySaleBinding settles company sales against their grand total.
type CompanySaleBinding struct{}

func (CompanySaleBinding) Kind() ledger.Kind { return ledger.KindCompanySale }

func (CompanySaleBinding) Payments(repos appshared.Repositories) ledger.PaymentRepository {
	return repos.CompanySalePayments()
}

func (CompanySaleBinding) LockParent(ctx context.Context, tx appshared.Transaction, id uuid.UUID) (ledger.Parent, error) {
	s, err := tx.CompanySales().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (CompanySaleBinding) FindParent(ctx context.Context, repos appshared.Repositories, id uuid.UUID) (ledger.Parent, error) {
	s, err := repos.CompanySales().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (CompanySaleBinding) SaveStatus(ctx context.Context, tx appshared.Transaction, parent ledger.Parent) error {
	s, ok := parent.(*sale.CompanySale)
	if !ok {
		return fmt.Errorf("company sale ledger: unexpected parent %T", parent)
	}
	return tx.CompanySales().UpdateStatus(ctx, s.ID, s.Status)
}

func (CompanySaleBinding) AfterSettle(context.Context, appshared.Transaction, ledger.Parent) error {
	return nil
}

// LocalCompanySaleDetailBinding settles the company part of a local sale
// against its net grand total and keeps the local sale's composite status
// current.
type LocalCompanySaleDetailBinding struct{}

func (LocalCompanySaleDetailBinding) Kind() ledger.Kind { return ledger.KindLocalCompanySaleDetail }

func (LocalCompanySaleDetailBinding) Payments(repos appshared.Repositories) ledger.PaymentRepository {
	return repos.LocalCompanySaleDetailPayments()
}

// LockParent locks the owning local sale before the detail, the same order
// the local sale service uses.
func (LocalCompanySaleDetailBinding) LockParent(ctx context.Context, tx appshared.Transaction, id uuid.UUID) (ledger.Parent, error) {
	repo := tx.LocalSales()
	d, err := repo.FindCompanyDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := repo.FindByIDForUpdate(ctx, d.LocalSaleID); err != nil {
		return nil, err
	}
	d, err = repo.FindCompanyDetailForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (LocalCompanySaleDetailBinding) FindParent(ctx context.Context, repos appshared.Repositories, id uuid.UUID) (ledger.Parent, error) {
	d, err := repos.LocalSales().FindCompanyDetailByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (LocalCompanySaleDetailBinding) SaveStatus(ctx context.Context, tx appshared.Transaction, parent ledger.Parent) error {
	d, ok := parent.(*sale.LocalCompanySaleDetail)
	if !ok {
		return fmt.Errorf("local company sale detail ledger: unexpected parent %T", parent)
	}
	return tx.LocalSales().UpdateCompanyDetailStatus(ctx, d.ID, d.PaymentStatus)
}

func (LocalCompanySaleDetailBinding) AfterSettle(ctx context.Context, tx appshared.Transaction, parent ledger.Parent) error {
	d, ok := parent.(*sale.LocalCompanySaleDetail)
	if !ok {
		return fmt.Errorf("local company sale detail ledger: unexpected parent %T", parent)
	}
	ls, err := tx.LocalSales().FindByIDForUpdate(ctx, d.LocalSaleID)
	if err != nil {
		return err
	}
	changed, err := ls.Recompute()
	if err != nil || !changed {
		return err
	}
	return tx.LocalSales().UpdateStatus(ctx, ls.ID, ls.Status)
}
