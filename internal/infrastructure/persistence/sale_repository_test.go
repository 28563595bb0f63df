package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSaleRepository_FindActiveByPurchase(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	purchaseID := uuid.New()

	first, err := sale.NewSale(purchaseID, time.Now().UTC(), sale.TypeCompany)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	found, err := repo.FindActiveByPurchase(ctx, purchaseID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	require.NoError(t, repo.SoftDelete(ctx, first.ID, time.Now().UTC()))
	_, err = repo.FindActiveByPurchase(ctx, purchaseID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormCompanySaleRepository_DetailsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	sales := NewGormSaleRepository(db)
	items := NewGormSaleItemRepository(db)
	repo := NewGormCompanySaleRepository(db)

	row, err := sale.NewSale(uuid.New(), time.Now().UTC(), sale.TypeCompany)
	require.NoError(t, err)
	cs, err := sale.NewCompanySale(row.ID, sale.CompanySaleHeader{Batch: "B-17"})
	require.NoError(t, err)
	whole, err := sale.NewCompanySaleDetail(uuid.New(), cs.ID, sale.DetailKindWhole, []sale.ItemInput{
		{Style: "WHOLE", Class: "A", Size: "16-20", Pounds: decimal.NewFromInt(100), Price: decimal.NewFromInt(3)},
		{Style: "WHOLE", Class: "B", Size: "21-25", Pounds: decimal.NewFromInt(50), Price: decimal.NewFromInt(2)},
	})
	require.NoError(t, err)
	cs.AttachDetails(whole, nil)

	require.NoError(t, items.CreateBatch(ctx, whole.Items))
	require.NoError(t, repo.CreateDetail(ctx, whole))
	require.NoError(t, sales.Create(ctx, row))
	require.NoError(t, repo.Create(ctx, cs))

	got, err := repo.FindBySale(ctx, row.ID)
	require.NoError(t, err)
	require.NotNil(t, got.WholeDetail)
	assert.Nil(t, got.TailDetail)
	assert.Len(t, got.WholeDetail.Items, 2)
	assert.True(t, got.GrandTotal.Equal(decimal.NewFromInt(400)))

	require.NoError(t, items.DeleteByDetailPermanently(ctx, whole.ID))
	left, err := items.FindByDetail(ctx, whole.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = items.FindByID(ctx, whole.Items[0].ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
