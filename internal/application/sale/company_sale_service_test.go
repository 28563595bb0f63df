package sale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/sale"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence"
	"github.com/chamanguitech/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleEnv struct {
	db      *gorm.DB
	uow     *persistence.GormUnitOfWork
	fx      *testutil.Fixtures
	company *CompanySaleService
	local   *LocalSaleService
}

func setupSaleEnv(t *testing.T) *saleEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	uow := persistence.NewGormUnitOfWork(db)
	return &saleEnv{
		db:      db,
		uow:     uow,
		fx:      testutil.NewFixtures(t, db),
		company: NewCompanySaleService(uow),
		local:   NewLocalSaleService(uow),
	}
}

func (e *saleEnv) items(n int, pounds, price float64) []SaleItemRequest {
	out := make([]SaleItemRequest, n)
	for i := range out {
		in := e.fx.SaleItem(pounds, price)
		out[i] = SaleItemRequest{Style: in.Style, Class: in.Class, Size: in.Size, Pounds: in.Pounds, Price: in.Price}
	}
	return out
}

func (e *saleEnv) createCompanySale(t *testing.T, purchaseID uuid.UUID, whole, tail []SaleItemRequest) *CompanySaleResponse {
	t.Helper()
	req := CreateCompanySaleRequest{
		PurchaseID:               purchaseID,
		CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "L-2024-07", ProcessedPounds: decimal.NewFromInt(300)},
	}
	if whole != nil {
		req.WholeDetail = &CompanySaleDetailRequest{Items: whole}
	}
	if tail != nil {
		req.TailDetail = &CompanySaleDetailRequest{Items: tail}
	}
	resp, err := e.company.Create(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func (e *saleEnv) payCompanySale(t *testing.T, id uuid.UUID, amount string) {
	t.Helper()
	p, err := ledger.NewPayment(id, e.fx.PaymentMethod().ID, decimal.RequireFromString(amount), time.Now())
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCompanySalePaymentRepository(e.db).Create(context.Background(), p))
}

func TestCompanySaleService_Create(t *testing.T) {
	env := setupSaleEnv(t)
	p := env.fx.Purchase(decimal.NewFromInt(5000))

	resp := env.createCompanySale(t, p.ID, env.items(2, 100, 2.5), env.items(1, 50, 1.2))

	assert.Equal(t, string(sale.CompanySaleStatusDraft), resp.Status)
	require.NotNil(t, resp.WholeDetail)
	require.NotNil(t, resp.TailDetail)
	assert.Len(t, resp.WholeDetail.Items, 2)
	assert.True(t, resp.WholeDetail.GrandTotal.Equal(decimal.NewFromInt(500)))
	assert.True(t, resp.TailDetail.GrandTotal.Equal(decimal.NewFromInt(60)))
	assert.True(t, resp.GrandTotal.Equal(decimal.NewFromInt(560)))

	got, err := env.company.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, got.GrandTotal.Equal(resp.GrandTotal))
	assert.Len(t, got.WholeDetail.Items, 2)
	assert.Len(t, got.TailDetail.Items, 1)

	row, err := env.uow.Reader().Sales().FindActiveByPurchase(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.TypeCompany, row.Type)
	assert.Equal(t, resp.SaleID, row.ID)
}

func TestCompanySaleService_Create_Rejections(t *testing.T) {
	env := setupSaleEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))

	t.Run("missing purchase", func(t *testing.T) {
		_, err := env.company.Create(ctx, CreateCompanySaleRequest{
			PurchaseID:               uuid.New(),
			CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "X"},
			WholeDetail:              &CompanySaleDetailRequest{Items: env.items(1, 10, 1)},
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("no detail at all", func(t *testing.T) {
		_, err := env.company.Create(ctx, CreateCompanySaleRequest{
			PurchaseID:               p.ID,
			CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "X"},
		})
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})

	t.Run("item without pounds", func(t *testing.T) {
		bad := env.items(1, 10, 1)
		bad[0].Pounds = decimal.Zero
		_, err := env.company.Create(ctx, CreateCompanySaleRequest{
			PurchaseID:               p.ID,
			CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "X"},
			WholeDetail:              &CompanySaleDetailRequest{Items: bad},
		})
		assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
	})

	t.Run("second sale for the same purchase", func(t *testing.T) {
		env.createCompanySale(t, p.ID, env.items(1, 10, 1), nil)
		_, err := env.company.Create(ctx, CreateCompanySaleRequest{
			PurchaseID:               p.ID,
			CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "Y"},
			WholeDetail:              &CompanySaleDetailRequest{Items: env.items(1, 10, 1)},
		})
		assert.Equal(t, shared.CodeAlreadyExists, shared.CodeOf(err))
	})
}

func TestCompanySaleService_Update_ReplacesItems(t *testing.T) {
	env := setupSaleEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	created := env.createCompanySale(t, p.ID, env.items(3, 10, 2), nil)
	oldItems := created.WholeDetail.Items

	updated, err := env.company.Update(ctx, created.ID, UpdateCompanySaleRequest{
		CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "L-2024-07"},
		WholeDetail:              &CompanySaleDetailRequest{Items: env.items(1, 40, 2)},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.WholeDetail)
	assert.Equal(t, created.WholeDetail.ID, updated.WholeDetail.ID, "the detail keeps its id")
	require.Len(t, updated.WholeDetail.Items, 1)
	assert.True(t, updated.GrandTotal.Equal(decimal.NewFromInt(80)))

	items := env.uow.Reader().SaleItems()
	stored, err := items.FindByDetail(ctx, updated.WholeDetail.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, updated.WholeDetail.Items[0].ID, stored[0].ID)
	for _, old := range oldItems {
		_, err := items.FindByID(ctx, old.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound), "item %s should be gone", old.ID)
	}
}

func TestCompanySaleService_Update_OmittedDetailIsRemoved(t *testing.T) {
	env := setupSaleEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	created := env.createCompanySale(t, p.ID, env.items(1, 10, 2), env.items(2, 5, 1))
	tailID := created.TailDetail.ID

	updated, err := env.company.Update(ctx, created.ID, UpdateCompanySaleRequest{
		CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "L-2024-07"},
		WholeDetail:              &CompanySaleDetailRequest{Items: env.items(1, 10, 2)},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.TailDetail)
	assert.True(t, updated.GrandTotal.Equal(decimal.NewFromInt(20)))

	left, err := env.uow.Reader().SaleItems().FindByDetail(ctx, tailID)
	require.NoError(t, err)
	assert.Empty(t, left)

	got, err := env.company.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.TailDetail)
}

func TestCompanySaleService_Update_CapAndStatus(t *testing.T) {
	env := setupSaleEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	created := env.createCompanySale(t, p.ID, env.items(1, 100, 5), nil)
	env.payCompanySale(t, created.ID, "300")

	_, err := env.company.Update(ctx, created.ID, UpdateCompanySaleRequest{
		CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "L"},
		WholeDetail:              &CompanySaleDetailRequest{Items: env.items(1, 100, 2)},
	})
	assert.Equal(t, shared.CodeOverpaymentRejected, shared.CodeOf(err))

	got, err := env.company.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.GrandTotal.Equal(decimal.NewFromInt(500)), "a rejected update leaves the sale untouched")

	updated, err := env.company.Update(ctx, created.ID, UpdateCompanySaleRequest{
		CompanySaleHeaderRequest: CompanySaleHeaderRequest{Batch: "L"},
		WholeDetail:              &CompanySaleDetailRequest{Items: env.items(1, 100, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, string(sale.CompanySaleStatusCompleted), updated.Status)
	assert.True(t, updated.Remaining.IsZero())
}

func TestCompanySaleService_ChangeStatus(t *testing.T) {
	env := setupSaleEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	created := env.createCompanySale(t, p.ID, env.items(1, 100, 5), nil)
	env.payCompanySale(t, created.ID, "100")

	closed, err := env.company.ChangeStatus(ctx, created.ID, UpdateStatusRequest{Status: "CLOSED"})
	require.NoError(t, err)
	assert.Equal(t, string(sale.CompanySaleStatusClosed), closed.Status)

	reopened, err := env.company.ChangeStatus(ctx, created.ID, UpdateStatusRequest{Status: "DRAFT"})
	require.NoError(t, err)
	assert.Equal(t, string(sale.CompanySaleStatusInProgress), reopened.Status)

	_, err = env.company.ChangeStatus(ctx, created.ID, UpdateStatusRequest{Status: "SETTLED"})
	assert.Equal(t, shared.CodeValidationFailed, shared.CodeOf(err))
}

func TestCompanySaleService_Remove(t *testing.T) {
	env := setupSaleEnv(t)
	ctx := context.Background()
	p := env.fx.Purchase(decimal.NewFromInt(5000))
	created := env.createCompanySale(t, p.ID, env.items(1, 10, 1), nil)

	result, err := env.company.Remove(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.ID)

	_, err = env.company.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	_, err = env.uow.Reader().Sales().FindActiveByPurchase(ctx, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	// The purchase can be sold again once its sale is gone.
	env.createCompanySale(t, p.ID, env.items(1, 10, 1), nil)
}
