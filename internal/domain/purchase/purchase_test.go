package purchase

import (
	"errors"
	"testing"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTerms() Terms {
	return Terms{
		ClientID:         uuid.New(),
		CompanyID:        uuid.New(),
		ShrimpFarmID:     uuid.New(),
		InvoiceNumber:    "F-001",
		AverageGrams:     decimal.NewFromInt(22),
		Price:            decimal.RequireFromString("2.5"),
		PoundsPurchased:  decimal.NewFromInt(400),
		TotalAgreedToPay: decimal.NewFromInt(1000),
	}
}

func TestNewPurchase(t *testing.T) {
	t.Run("regular purchase starts CREATED", func(t *testing.T) {
		p, err := NewPurchase(uuid.New(), validTerms(), false)
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, p.Status)
		assert.Equal(t, "1000.00", p.Subtotal.StringFixed(2))
		assert.False(t, p.PurchaseDate.IsZero())
	})

	t.Run("draft needs only a buyer", func(t *testing.T) {
		p, err := NewPurchase(uuid.New(), Terms{}, true)
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, p.Status)
	})

	t.Run("regular purchase validates terms", func(t *testing.T) {
		terms := validTerms()
		terms.TotalAgreedToPay = decimal.Zero
		_, err := NewPurchase(uuid.New(), terms, false)
		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})

	t.Run("buyer is required", func(t *testing.T) {
		_, err := NewPurchase(uuid.Nil, validTerms(), false)
		assert.Error(t, err)
	})
}

func TestPurchase_ApplyPaidTotal(t *testing.T) {
	p, err := NewPurchase(uuid.New(), validTerms(), false)
	require.NoError(t, err)

	changed, err := p.ApplyPaidTotal(decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusInProgress, p.Status)

	changed, err = p.ApplyPaidTotal(decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.False(t, changed, "same total must not report a change")

	_, err = p.ApplyPaidTotal(decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, p.Status)

	_, err = p.ApplyPaidTotal(decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, p.Status)
}

func TestPurchase_StickyStatusesIgnoreLedger(t *testing.T) {
	for _, sticky := range []Status{StatusDraft, StatusConfirmed, StatusClosed} {
		t.Run(string(sticky), func(t *testing.T) {
			p, err := NewPurchase(uuid.New(), validTerms(), false)
			require.NoError(t, err)
			p.Status = sticky

			changed, err := p.ApplyPaidTotal(decimal.NewFromInt(1000))
			require.NoError(t, err)
			assert.False(t, changed)
			assert.Equal(t, sticky, p.Status)
		})
	}
}

func TestPurchase_ChangeStatus(t *testing.T) {
	t.Run("close then reopen recomputes from ledger", func(t *testing.T) {
		p, _ := NewPurchase(uuid.New(), validTerms(), false)
		require.NoError(t, p.ChangeStatus(StatusClosed, decimal.NewFromInt(400)))
		assert.Equal(t, StatusClosed, p.Status)

		require.NoError(t, p.ChangeStatus(StatusCreated, decimal.NewFromInt(400)))
		assert.Equal(t, StatusInProgress, p.Status)
	})

	t.Run("draft cannot be confirmed", func(t *testing.T) {
		p, _ := NewPurchase(uuid.New(), Terms{}, true)
		err := p.ChangeStatus(StatusConfirmed, decimal.Zero)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("draft completion validates terms", func(t *testing.T) {
		p, _ := NewPurchase(uuid.New(), Terms{}, true)
		err := p.ChangeStatus(StatusCreated, decimal.Zero)
		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
		assert.Equal(t, StatusDraft, p.Status)
	})

	t.Run("paid purchase cannot return to draft", func(t *testing.T) {
		p, _ := NewPurchase(uuid.New(), validTerms(), false)
		err := p.ChangeStatus(StatusDraft, decimal.NewFromInt(1))
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("unknown status", func(t *testing.T) {
		p, _ := NewPurchase(uuid.New(), validTerms(), false)
		assert.Error(t, p.ChangeStatus("PAID", decimal.Zero))
	})
}

func TestPurchase_Revise(t *testing.T) {
	p, _ := NewPurchase(uuid.New(), validTerms(), false)

	terms := validTerms()
	terms.TotalAgreedToPay = decimal.NewFromInt(300)
	err := p.Revise(terms, decimal.NewFromInt(400))
	assert.True(t, errors.Is(err, shared.ErrOverpaymentRejected))
	assert.Equal(t, "1000.00", p.TotalAgreedToPay.StringFixed(2))

	terms.TotalAgreedToPay = decimal.NewFromInt(400)
	require.NoError(t, p.Revise(terms, decimal.NewFromInt(400)))
	assert.Equal(t, StatusCompleted, p.Status)
}

func TestPurchase_Complete(t *testing.T) {
	p, _ := NewPurchase(uuid.New(), validTerms(), true)
	require.NoError(t, p.Complete(decimal.Zero))
	assert.Equal(t, StatusCreated, p.Status)

	assert.Error(t, p.Complete(decimal.Zero), "only drafts can be completed")
}
