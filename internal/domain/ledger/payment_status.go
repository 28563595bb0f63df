package ledger

import (
	"fmt"

	"github.com/chamanguitech/backend/internal/domain/shared"
)

// PaymentStatus is the settlement state carried by individual rows
// (local sale items, logistics payments, local company sale details).
type PaymentStatus string

const (
	PaymentStatusNoPayment PaymentStatus = "NO_PAYMENT"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusNoPayment, PaymentStatusPending, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// Validate returns VALIDATION_FAILED for unknown values.
func (s PaymentStatus) Validate() error {
	if !s.IsValid() {
		return shared.Validation("unknown payment status %q", string(s))
	}
	return nil
}

// PaymentStatusFromProgress maps ledger progress onto a row-level payment status.
func PaymentStatusFromProgress(p Progress) (PaymentStatus, error) {
	switch p {
	case Unpaid:
		return PaymentStatusNoPayment, nil
	case PartiallyPaid:
		return PaymentStatusPending, nil
	case FullyPaid:
		return PaymentStatusPaid, nil
	}
	return "", fmt.Errorf("unhandled ledger progress %s", p)
}

// Settlement summarizes a set of row-level payment statuses.
type Settlement int

const (
	// NotStarted means no row has been paid or promised.
	NotStarted Settlement = iota
	// Ongoing means at least one row is pending or the rows are mixed.
	Ongoing
	// Settled means every row is paid.
	Settled
)

// SettlementOf folds row statuses: empty or all NO_PAYMENT is NotStarted,
// any PENDING is Ongoing, all PAID is Settled, anything else is Ongoing.
func SettlementOf(statuses []PaymentStatus) (Settlement, error) {
	var noPayment, pending, paid int
	for _, s := range statuses {
		switch s {
		case PaymentStatusNoPayment:
			noPayment++
		case PaymentStatusPending:
			pending++
		case PaymentStatusPaid:
			paid++
		default:
			return NotStarted, shared.Validation("unknown payment status %q", string(s))
		}
	}
	switch {
	case noPayment == len(statuses):
		return NotStarted, nil
	case pending > 0:
		return Ongoing, nil
	case paid == len(statuses):
		return Settled, nil
	default:
		return Ongoing, nil
	}
}
