package persistence

import (
	"context"
	"fmt"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// paymentRecord is satisfied by the pointer type of each ledger payment model.
type paymentRecord[M any] interface {
	*M
	ToDomain() *ledger.Payment
	FromDomain(p *ledger.Payment)
}

// GormPaymentRepository implements ledger.PaymentRepository for one ledger
// table. The three ledgers differ only in model type and parent column.
type GormPaymentRepository[M any, PM paymentRecord[M]] struct {
	db           *gorm.DB
	entity       string
	parentColumn string
}

// NewGormPurchasePaymentRepository returns the repository for purchase_payments
func NewGormPurchasePaymentRepository(db *gorm.DB) *GormPaymentRepository[models.PurchasePaymentModel, *models.PurchasePaymentModel] {
	return &GormPaymentRepository[models.PurchasePaymentModel, *models.PurchasePaymentModel]{
		db:           db,
		entity:       "purchase payment",
		parentColumn: "purchase_id",
	}
}

// NewGormCompanySalePaymentRepository returns the repository for company_sale_payments
func NewGormCompanySalePaymentRepository(db *gorm.DB) *GormPaymentRepository[models.CompanySalePaymentModel, *models.CompanySalePaymentModel] {
	return &GormPaymentRepository[models.CompanySalePaymentModel, *models.CompanySalePaymentModel]{
		db:           db,
		entity:       "company sale payment",
		parentColumn: "company_sale_id",
	}
}

// NewGormLocalCompanySaleDetailPaymentRepository returns the repository for
// local_company_sale_detail_payments
func NewGormLocalCompanySaleDetailPaymentRepository(db *gorm.DB) *GormPaymentRepository[models.LocalCompanySaleDetailPaymentModel, *models.LocalCompanySaleDetailPaymentModel] {
	return &GormPaymentRepository[models.LocalCompanySaleDetailPaymentModel, *models.LocalCompanySaleDetailPaymentModel]{
		db:           db,
		entity:       "local company sale detail payment",
		parentColumn: "local_company_sale_detail_id",
	}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository[M, PM]) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Payment, error) {
	var model M
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, r.entity, id)
	}
	return PM(&model).ToDomain(), nil
}

// FindByParent lists the ledger of one parent, oldest first
func (r *GormPaymentRepository[M, PM]) FindByParent(ctx context.Context, parentID uuid.UUID) ([]ledger.Payment, error) {
	var rows []M
	if err := r.db.WithContext(ctx).
		Where(r.parentColumn+" = ?", parentID).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %ss of %s: %w", r.entity, parentID, err)
	}
	out := make([]ledger.Payment, len(rows))
	for i := range rows {
		out[i] = *PM(&rows[i]).ToDomain()
	}
	return out, nil
}

// TotalsByParent returns the raw ledger sum of each parent with payments
func (r *GormPaymentRepository[M, PM]) TotalsByParent(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal, len(parentIDs))
	if len(parentIDs) == 0 {
		return totals, nil
	}
	var rows []struct {
		ParentID uuid.UUID
		Total    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(new(M)).
		Select(r.parentColumn+" AS parent_id, SUM(amount) AS total").
		Where(r.parentColumn+" IN ?", parentIDs).
		Group(r.parentColumn).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum %ss: %w", r.entity, err)
	}
	for _, row := range rows {
		totals[row.ParentID] = row.Total
	}
	return totals, nil
}

// Create inserts a payment
func (r *GormPaymentRepository[M, PM]) Create(ctx context.Context, payment *ledger.Payment) error {
	var model M
	PM(&model).FromDomain(payment)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.entity, err)
	}
	return nil
}

// Update writes every column of an existing payment
func (r *GormPaymentRepository[M, PM]) Update(ctx context.Context, payment *ledger.Payment) error {
	var model M
	PM(&model).FromDomain(payment)
	result := r.db.WithContext(ctx).Model(&model).Select("*").Omit("id", "created_at").Updates(&model)
	return expectOne(result, r.entity, payment.ID)
}

// DeletePermanently removes a payment row
func (r *GormPaymentRepository[M, PM]) DeletePermanently(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(M))
	return expectOne(result, r.entity, id)
}

var (
	_ ledger.PaymentRepository = (*GormPaymentRepository[models.PurchasePaymentModel, *models.PurchasePaymentModel])(nil)
	_ ledger.PaymentRepository = (*GormPaymentRepository[models.CompanySalePaymentModel, *models.CompanySalePaymentModel])(nil)
	_ ledger.PaymentRepository = (*GormPaymentRepository[models.LocalCompanySaleDetailPaymentModel, *models.LocalCompanySaleDetailPaymentModel])(nil)
)
