package sale

import (
	"strings"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Item is a priced line of a company sale detail or of a local company
// sale detail. Items have no lifecycle of their own: they are created and
// permanently removed together with their detail's item set.
type Item struct {
	ID         uuid.UUID
	DetailID   uuid.UUID
	Position   int
	Style      string
	Class      string
	Size       string
	Pounds     decimal.Decimal
	Price      decimal.Decimal
	Total      decimal.Decimal
	Percentage decimal.Decimal
}

// ItemInput is the payload for one item.
type ItemInput struct {
	Style  string
	Class  string
	Size   string
	Pounds decimal.Decimal
	Price  decimal.Decimal
}

// Validate checks one item payload; index is used in the message.
func (in ItemInput) Validate(index int) error {
	switch {
	case strings.TrimSpace(in.Size) == "":
		return shared.Validation("item %d: size is required", index+1)
	case !in.Pounds.IsPositive():
		return shared.Validation("item %d: pounds must be greater than zero", index+1)
	case in.Price.IsNegative():
		return shared.Validation("item %d: price cannot be negative", index+1)
	}
	return nil
}

// ValidateItems validates every payload in order.
func ValidateItems(inputs []ItemInput) error {
	if len(inputs) == 0 {
		return shared.Validation("at least one item is required")
	}
	for i, in := range inputs {
		if err := in.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// BuildItems creates a fresh item set for detailID with new ids, totals
// and each item's share of the detail's pounds.
func BuildItems(detailID uuid.UUID, inputs []ItemInput) ([]Item, error) {
	if err := ValidateItems(inputs); err != nil {
		return nil, err
	}
	items := make([]Item, len(inputs))
	totalPounds := decimal.Zero
	for i, in := range inputs {
		items[i] = Item{
			ID:       uuid.New(),
			DetailID: detailID,
			Position: i,
			Style:    strings.TrimSpace(in.Style),
			Class:    strings.TrimSpace(in.Class),
			Size:     strings.TrimSpace(in.Size),
			Pounds:   in.Pounds,
			Price:    in.Price,
			Total:    ledger.Normalize(in.Pounds.Mul(in.Price)),
		}
		totalPounds = totalPounds.Add(in.Pounds)
	}
	for i := range items {
		items[i].Percentage = items[i].Pounds.Div(totalPounds).Mul(hundred).Round(ledger.Scale)
	}
	return items, nil
}

// ItemTotals returns total pounds and total amount of items.
func ItemTotals(items []Item) (pounds, amount decimal.Decimal) {
	pounds, amount = decimal.Zero, decimal.Zero
	for _, it := range items {
		pounds = pounds.Add(it.Pounds)
		amount = amount.Add(it.Total)
	}
	return pounds, ledger.Normalize(amount)
}

// ItemIDs lists the ids of items in order.
func ItemIDs(items []Item) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
