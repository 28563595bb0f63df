package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T, parentID, methodID uuid.UUID, amount string, day int) *ledger.Payment {
	t.Helper()
	p, err := ledger.NewPayment(parentID, methodID, decimal.RequireFromString(amount), time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func TestGormPaymentRepository_Ledgers(t *testing.T) {
	db := newTestDB(t)
	ledgers := map[string]ledger.PaymentRepository{
		"purchase":                  NewGormPurchasePaymentRepository(db),
		"company_sale":              NewGormCompanySalePaymentRepository(db),
		"local_company_sale_detail": NewGormLocalCompanySaleDetailPaymentRepository(db),
	}

	for name, repo := range ledgers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			parent, other, method := uuid.New(), uuid.New(), uuid.New()

			late := newTestPayment(t, parent, method, "250.50", 20)
			early := newTestPayment(t, parent, method, "100", 2)
			require.NoError(t, repo.Create(ctx, late))
			require.NoError(t, repo.Create(ctx, early))
			require.NoError(t, repo.Create(ctx, newTestPayment(t, other, method, "5", 1)))

			payments, err := repo.FindByParent(ctx, parent)
			require.NoError(t, err)
			require.Len(t, payments, 2)
			assert.Equal(t, early.ID, payments[0].ID)
			assert.True(t, ledger.Sum(payments).Equal(decimal.RequireFromString("350.50")))

			late.Observation = "adjusted"
			require.NoError(t, late.SetAmount(decimal.NewFromInt(300)))
			require.NoError(t, repo.Update(ctx, late))
			got, err := repo.FindByID(ctx, late.ID)
			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(decimal.NewFromInt(300)))
			assert.Equal(t, "adjusted", got.Observation)
			assert.Equal(t, parent, got.ParentID)

			require.NoError(t, repo.DeletePermanently(ctx, early.ID))
			_, err = repo.FindByID(ctx, early.ID)
			assert.True(t, errors.Is(err, shared.ErrNotFound))
			assert.True(t, errors.Is(repo.DeletePermanently(ctx, early.ID), shared.ErrNotFound))

			payments, err = repo.FindByParent(ctx, parent)
			require.NoError(t, err)
			assert.Len(t, payments, 1)
		})
	}
}

func TestGormPaymentRepository_TotalsByParent(t *testing.T) {
	repo := NewGormPurchasePaymentRepository(newTestDB(t))
	ctx := context.Background()
	a, b, unpaid, method := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, newTestPayment(t, a, method, "250.50", 1)))
	require.NoError(t, repo.Create(ctx, newTestPayment(t, a, method, "100", 2)))
	require.NoError(t, repo.Create(ctx, newTestPayment(t, b, method, "40", 3)))

	totals, err := repo.TotalsByParent(ctx, []uuid.UUID{a, b, unpaid})
	require.NoError(t, err)
	assert.Len(t, totals, 2)
	assert.True(t, totals[a].Equal(decimal.RequireFromString("350.50")), "got %s", totals[a])
	assert.True(t, totals[b].Equal(decimal.NewFromInt(40)))
	_, ok := totals[unpaid]
	assert.False(t, ok)

	empty, err := repo.TotalsByParent(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormPaymentMethodRepository(t *testing.T) {
	repo := NewGormPaymentMethodRepository(newTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Transfer", "Cash", "Check"} {
		m, err := ledger.NewPaymentMethod(name)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, m))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Cash", "Check", "Transfer"}, []string{all[0].Name, all[1].Name, all[2].Name})

	cash, err := repo.FindByName(ctx, "Cash")
	require.NoError(t, err)
	got, err := repo.FindByID(ctx, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)

	_, err = repo.FindByName(ctx, "Crypto")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
