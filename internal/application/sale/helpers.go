package sale

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// claimPurchase locks the purchase and checks that it has no live sale.
// The lock serializes concurrent attempts to sell the same purchase.
func claimPurchase(ctx context.Context, tx appshared.Transaction, purchaseID uuid.UUID) error {
	if _, err := tx.Purchases().FindByIDForUpdate(ctx, purchaseID); err != nil {
		return err
	}
	existing, err := tx.Sales().FindActiveByPurchase(ctx, purchaseID)
	switch {
	case err == nil:
		return shared.NewDomainError(shared.CodeAlreadyExists,
			fmt.Sprintf("purchase %s already has a %s sale", purchaseID, strings.ToLower(string(existing.Type))))
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return err
	}
}

// checkPaymentMethods verifies that every referenced payment method exists.
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
