// Package ledger holds the payment ledger primitives shared by every parent
// record that is settled through payments: amount normalization, payment
// progress, per-row payment statuses and the payment entry itself.
package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places money is compared at.
const Scale = 2

// Normalize rounds an amount to cents. Totals are always normalized before
// they are compared against an expected total.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Sum adds the amounts of payments and normalizes the result.
func Sum(payments []Payment) decimal.Decimal {
	return Normalize(rawSum(payments, uuid.Nil))
}

// SumExcept is Sum without the payment identified by id.
func SumExcept(payments []Payment, skip Payment) decimal.Decimal {
	return Normalize(rawSum(payments, skip.ID))
}

// SumWith is the normalized total once p is recorded: any stored version of
// p in payments is replaced by p itself.
func SumWith(payments []Payment, p Payment) decimal.Decimal {
	return Normalize(rawSum(payments, p.ID).Add(p.Amount))
}

func rawSum(payments []Payment, skip uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if skip != uuid.Nil && p.ID == skip {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total
}
