package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"book-your-show/internal/data/entity"
)

func testEvent() *entity.Event {
	return &entity.Event{
		DefaultPrice: 500,
		TicketTypes: []entity.TicketType{
			{Name: "VIP", AdultPrice: 1000, ChildPrice: 700},
		},
		Commission: entity.CommissionPolicy{Type: entity.CommissionPercentage, Value: 10},
		Tax:        entity.TaxPolicy{Rate: 0.08},
	}
}

func TestPriceFor(t *testing.T) {
	event := testEvent()

	tests := []struct {
		name     string
		seat     entity.Seat
		occupant entity.OccupantType
		want     float64
	}{
		{
			name:     "ticket type adult",
			seat:     entity.Seat{TicketType: "VIP"},
			occupant: entity.OccupantAdult,
			want:     1000,
		},
		{
			name:     "ticket type child",
			seat:     entity.Seat{TicketType: "VIP"},
			occupant: entity.OccupantChild,
			want:     700,
		},
		{
			name:     "no ticket type falls back to event default",
			seat:     entity.Seat{},
			occupant: entity.OccupantAdult,
			want:     500,
		},
		{
			name:     "no ticket type child pays the same as adult",
			seat:     entity.Seat{},
			occupant: entity.OccupantChild,
			want:     500,
		},
		{
			name:     "seat base price beats event default",
			seat:     entity.Seat{BasePrice: 650},
			occupant: entity.OccupantChild,
			want:     650,
		},
		{
			name:     "unknown ticket type falls back",
			seat:     entity.Seat{TicketType: "Balcony"},
			occupant: entity.OccupantAdult,
			want:     500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceFor(&tt.seat, tt.occupant, event)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizePercentageCommission(t *testing.T) {
	event := testEvent()

	summary := Summarize([]float64{700, 500}, event.Commission, event.Tax)

	assert.Equal(t, 1200.0, summary.Subtotal)
	assert.Equal(t, 120.0, summary.Commission)
	assert.Equal(t, 105.6, summary.Taxes)
	assert.Equal(t, 1425.6, summary.Total)
}

func TestSummarizeFlatCommission(t *testing.T) {
	commission := entity.CommissionPolicy{Type: entity.CommissionFlat, Value: 100}
	tax := entity.TaxPolicy{Rate: 0}

	summary := Summarize([]float64{500, 500, 500}, commission, tax)

	assert.Equal(t, 1500.0, summary.Subtotal)
	assert.Equal(t, 100.0, summary.Commission)
	assert.Equal(t, 0.0, summary.Taxes)
	assert.Equal(t, 1600.0, summary.Total)
}

func TestSummarizeDeterministic(t *testing.T) {
	event := testEvent()
	prices := []float64{1000, 700, 500}

	first := Summarize(prices, event.Commission, event.Tax)
	second := Summarize(prices, event.Commission, event.Tax)

	assert.Equal(t, first, second)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, entity.CommissionPolicy{Type: entity.CommissionPercentage, Value: 10}, entity.TaxPolicy{Rate: 0.08})

	assert.Equal(t, entity.AmountSummary{}, summary)
}
