package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CascadeRemove soft-deletes purchase id and every record reachable from
// it inside tx, all stamped with at, in the order purchase, logistics,
// sale, company or local sale. It returns the number of records removed.
// The caller owns the transaction: any error must roll it back.
func CascadeRemove(ctx context.Context, tx appshared.Transaction, id uuid.UUID, at time.Time) (int, error) {
	if _, err := tx.Purchases().FindByIDForUpdate(ctx, id); err != nil {
		return 0, err
	}
	if err := tx.Purchases().SoftDelete(ctx, id, at); err != nil {
		return 0, err
	}
	removed := 1

	sheets, err := tx.Logistics().FindByPurchase(ctx, id)
	if err != nil {
		return 0, err
	}
	for _, l := range sheets {
		if err := tx.Logistics().SoftDelete(ctx, l.ID, at); err != nil {
			return 0, err
		}
		removed++
	}

	s, err := tx.Sales().FindActiveByPurchase(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return removed, nil
	}
	if err != nil {
		return 0, err
	}
	if err := tx.Sales().SoftDelete(ctx, s.ID, at); err != nil {
		return 0, err
	}
	removed++

	n, err := removeSaleSubtype(ctx, tx, s, at)
	if err != nil {
		return 0, err
	}
	return removed + n, nil
}

// removeSaleSubtype soft-deletes the company or local sale of s. A sale
// whose subtype row is missing is left as is.
func removeSaleSubtype(ctx context.Context, tx appshared.Transaction, s *sale.Sale, at time.Time) (int, error) {
	switch s.Type {
	case sale.TypeCompany:
		cs, err := tx.CompanySales().FindBySale(ctx, s.ID)
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return 1, tx.CompanySales().SoftDelete(ctx, cs.ID, at)
	case sale.TypeLocal:
		ls, err := tx.LocalSales().FindBySale(ctx, s.ID)
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return 1, tx.LocalSales().SoftDelete(ctx, ls.ID, at)
	}
	return 0, fmt.Errorf("sale %s has unknown type %q", s.ID, s.Type)
}
