// Package sale models what happens to a purchase's product after it is
// bought: either a company sale settled with a processing plant or a local
// sale to the market, each hanging off a thin Sale row.
package sale

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type distinguishes company and local sales
type Type string

const (
	TypeCompany Type = "COMPANY"
	TypeLocal   Type = "LOCAL"
)

// IsValid checks if the type is a valid Type
func (t Type) IsValid() bool {
	switch t {
	case TypeCompany, TypeLocal:
		return true
	}
	return false
}

// Sale joins a purchase to its company or local sale.
type Sale struct {
	shared.BaseEntity
	shared.SoftDeletable
	PurchaseID uuid.UUID
	SaleDate   time.Time
	Type       Type
}

// NewSale creates the join row for purchaseID.
func NewSale(purchaseID uuid.UUID, saleDate time.Time, t Type) (*Sale, error) {
	if purchaseID == uuid.Nil {
		return nil, shared.Validation("purchase is required")
	}
	if !t.IsValid() {
		return nil, shared.Validation("invalid sale type %q", string(t))
	}
	s := &Sale{
		BaseEntity: shared.NewBaseEntity(),
		PurchaseID: purchaseID,
		SaleDate:   saleDate,
		Type:       t,
	}
	if s.SaleDate.IsZero() {
		s.SaleDate = s.CreatedAt
	}
	return s, nil
}
