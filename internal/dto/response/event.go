package response

import (
	"time"

	"book-your-show/internal/data/entity"
)

type TicketTypeResponse struct {
	Name       string  `json:"name"`
	AdultPrice float64 `json:"adultPrice"`
	ChildPrice float64 `json:"childPrice"`
}

type EventResponse struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	DefaultPrice      float64              `json:"defaultPrice"`
	TicketTypes       []TicketTypeResponse `json:"ticketTypes"`
	TicketSaleEnabled bool                 `json:"ticketSaleEnabled"`
	TicketSaleStartAt *time.Time           `json:"ticketSaleStartAt,omitempty"`
	TicketSaleEndAt   *time.Time           `json:"ticketSaleEndAt,omitempty"`
	SaleActive        bool                 `json:"saleActive"`
}

type SeatResponse struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	SeatRow    string  `json:"row"`
	Section    string  `json:"section"`
	SeatType   string  `json:"seatType"`
	TicketType string  `json:"ticketType,omitempty"`
	BasePrice  float64 `json:"basePrice"`
	State      string  `json:"state"`

	// Administrative seats (broken, aisle, blocked) never transition via
	// the hold protocol; seat maps render them as non-selectable fixtures.
	Administrative bool `json:"administrative"`
}

func EventToResponse(event *entity.Event, now time.Time) *EventResponse {
	ticketTypes := make([]TicketTypeResponse, len(event.TicketTypes))
	for i, tt := range event.TicketTypes {
		ticketTypes[i] = TicketTypeResponse{
			Name:       tt.Name,
			AdultPrice: tt.AdultPrice,
			ChildPrice: tt.ChildPrice,
		}
	}

	return &EventResponse{
		ID:                event.ID.String(),
		Name:              event.Name,
		DefaultPrice:      event.DefaultPrice,
		TicketTypes:       ticketTypes,
		TicketSaleEnabled: event.TicketSaleEnabled,
		TicketSaleStartAt: event.TicketSaleStartDate,
		TicketSaleEndAt:   event.TicketSaleEndDate,
		SaleActive:        event.SaleActiveAt(now),
	}
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:             seat.ID.String(),
		Label:          seat.Label,
		SeatRow:        seat.SeatRow,
		Section:        seat.Section,
		SeatType:       seat.SeatType,
		TicketType:     seat.TicketType,
		BasePrice:      seat.BasePrice,
		State:          string(seat.State),
		Administrative: !seat.State.Reservable(),
	}
}
