package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/chamanguitech/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentMethodRepository implements ledger.PaymentMethodRepository using GORM
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

// NewGormPaymentMethodRepository creates a new GormPaymentMethodRepository
func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

// FindByID finds a payment method by its ID
func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "payment method", id)
	}
	return model.ToDomain(), nil
}

// FindByName finds a payment method by name, ignoring case
func (r *GormPaymentMethodRepository) FindByName(ctx context.Context, name string) (*ledger.PaymentMethod, error) {
	var model models.PaymentMethodModel
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("payment method %q not found", name))
	}
	if err != nil {
		return nil, fmt.Errorf("find payment method %q: %w", name, err)
	}
	return model.ToDomain(), nil
}

// FindAll lists payment methods by name
func (r *GormPaymentMethodRepository) FindAll(ctx context.Context) ([]ledger.PaymentMethod, error) {
	var rows []models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	out := make([]ledger.PaymentMethod, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts a payment method
func (r *GormPaymentMethodRepository) Create(ctx context.Context, method *ledger.PaymentMethod) error {
	var model models.PaymentMethodModel
	model.FromDomain(method)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("create payment method: %w", err)
	}
	return nil
}

var _ ledger.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
