package ledger

import (
	"fmt"

	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Progress is how far a capped ledger is from its expected total.
type Progress int

const (
	Unpaid Progress = iota
	PartiallyPaid
	FullyPaid
)

// String returns the string representation of Progress
func (p Progress) String() string {
	switch p {
	case Unpaid:
		return "UNPAID"
	case PartiallyPaid:
		return "PARTIALLY_PAID"
	case FullyPaid:
		return "FULLY_PAID"
	}
	return fmt.Sprintf("Progress(%d)", int(p))
}

// ProgressOf derives ledger progress from the paid and expected totals.
// A zero total is Unpaid even when the expected total is also zero.
func ProgressOf(totalPaid, expected decimal.Decimal) Progress {
	paid := Normalize(totalPaid)
	switch {
	case paid.IsZero():
		return Unpaid
	case paid.GreaterThanOrEqual(Normalize(expected)):
		return FullyPaid
	default:
		return PartiallyPaid
	}
}

// CheckCap returns OVERPAYMENT_REJECTED when totalPaid exceeds expected.
func CheckCap(totalPaid, expected decimal.Decimal) error {
	paid, limit := Normalize(totalPaid), Normalize(expected)
	if paid.GreaterThan(limit) {
		return shared.NewDomainError(shared.CodeOverpaymentRejected,
			fmt.Sprintf("total paid %s would exceed expected total %s", paid.StringFixed(Scale), limit.StringFixed(Scale)))
	}
	return nil
}

// Remaining is the amount still owed, never negative.
func Remaining(totalPaid, expected decimal.Decimal) decimal.Decimal {
	rest := Normalize(expected).Sub(Normalize(totalPaid))
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}
