package ledger

import (
	"context"
	"errors"

	appshared "github.com/chamanguitech/backend/internal/application/shared"
	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
)

// PaymentMethodService manages the catalog of payment methods
type PaymentMethodService struct {
	uow appshared.UnitOfWork
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(uow appshared.UnitOfWork) *PaymentMethodService {
	return &PaymentMethodService{uow: uow}
}

// Create adds a payment method. Names are unique.
func (s *PaymentMethodService) Create(ctx context.Context, req CreatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	method, err := ledger.NewPaymentMethod(req.Name)
	if err != nil {
		return nil, err
	}
	repo := s.uow.Reader().PaymentMethods()
	existing, err := repo.FindByName(ctx, method.Name)
	switch {
	case err == nil:
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "payment method "+existing.Name+" already exists")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	if err := repo.Create(ctx, method); err != nil {
		return nil, err
	}
	response := ToPaymentMethodResponse(method)
	return &response, nil
}

// List returns every payment method ordered by name
func (s *PaymentMethodService) List(ctx context.Context) ([]PaymentMethodResponse, error) {
	methods, err := s.uow.Reader().PaymentMethods().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentMethodResponse, len(methods))
	for i := range methods {
		out[i] = ToPaymentMethodResponse(&methods[i])
	}
	return out, nil
}
