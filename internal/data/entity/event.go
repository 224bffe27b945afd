package entity

import (
	"time"
)

type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFlat       CommissionType = "flat"
)

// TicketType is one named price class in an event's catalog (e.g. "VIP").
type TicketType struct {
	Name       string  `db:"name"`
	AdultPrice float64 `db:"adult_price"`
	ChildPrice float64 `db:"child_price"`
}

type CommissionPolicy struct {
	Type  CommissionType `db:"commission_type"`
	Value float64        `db:"commission_value"`
}

// TaxPolicy applies Rate (fraction, e.g. 0.08) to subtotal plus commission.
type TaxPolicy struct {
	Rate float64 `db:"tax_rate"`
}

// Event carries the read-only metadata the engine consumes: pricing catalog,
// commission/tax policy and the ticket-sale window. The engine never mutates
// events.
type Event struct {
	Base
	Name                string           `db:"name"`
	DefaultPrice        float64          `db:"default_price"`
	TicketTypes         []TicketType     `db:"ticket_types"`
	Commission          CommissionPolicy `db:"commission"`
	Tax                 TaxPolicy        `db:"tax"`
	TicketSaleEnabled   bool             `db:"ticket_sale_enabled"`
	TicketSaleStartDate *time.Time       `db:"ticket_sale_start_date"`
	TicketSaleEndDate   *time.Time       `db:"ticket_sale_end_date"`
}

// SaleActiveAt reports whether tickets may be sold at the given instant.
func (e *Event) SaleActiveAt(now time.Time) bool {
	if !e.TicketSaleEnabled {
		return false
	}
	if e.TicketSaleStartDate != nil && now.Before(*e.TicketSaleStartDate) {
		return false
	}
	if e.TicketSaleEndDate != nil && now.After(*e.TicketSaleEndDate) {
		return false
	}
	return true
}

// FindTicketType returns the catalog entry with the given name, or nil.
func (e *Event) FindTicketType(name string) *TicketType {
	for i := range e.TicketTypes {
		if e.TicketTypes[i].Name == name {
			return &e.TicketTypes[i]
		}
	}
	return nil
}
