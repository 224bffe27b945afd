// Package pricing computes per-seat prices and amount summaries. Everything
// here is a pure function of its inputs so that a recompute after an
// occupant change can never drift from the first computation.
package pricing

import (
	"math"

	"book-your-show/internal/data/entity"
)

// PriceFor resolves the price of one seat for the given occupant type.
// When the seat references a ticket type present in the event catalog, the
// catalog's adult/child price applies. Otherwise the seat's base price is
// used when set (> 0), falling back to the event default price; in the
// fallback case adult and child pay the same amount.
func PriceFor(seat *entity.Seat, occupant entity.OccupantType, event *entity.Event) float64 {
	if seat.TicketType != "" {
		if tt := event.FindTicketType(seat.TicketType); tt != nil {
			if occupant == entity.OccupantChild {
				return tt.ChildPrice
			}
			return tt.AdultPrice
		}
	}

	if seat.BasePrice > 0 {
		return seat.BasePrice
	}
	return event.DefaultPrice
}

// Summarize folds per-seat prices into an amount summary. Commission is
// applied to the subtotal per the event policy; taxes apply to subtotal
// plus commission. All amounts are rounded to cents.
func Summarize(prices []float64, commission entity.CommissionPolicy, tax entity.TaxPolicy) entity.AmountSummary {
	var subtotal float64
	for _, p := range prices {
		subtotal += p
	}

	var commissionAmount float64
	switch commission.Type {
	case entity.CommissionPercentage:
		commissionAmount = subtotal * commission.Value / 100
	case entity.CommissionFlat:
		commissionAmount = commission.Value
	}

	taxes := (subtotal + commissionAmount) * tax.Rate

	subtotal = roundCents(subtotal)
	commissionAmount = roundCents(commissionAmount)
	taxes = roundCents(taxes)

	return entity.AmountSummary{
		Subtotal:   subtotal,
		Commission: commissionAmount,
		Taxes:      taxes,
		Total:      roundCents(subtotal + commissionAmount + taxes),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
