package request

type CreateReservationRequest struct {
	EventID     string   `json:"eventId" validate:"required,uuid"`
	SeatIDs     []string `json:"seatIds" validate:"required,min=1,dive,uuid"`
	HoldSeconds int      `json:"holdSeconds" validate:"omitempty,min=1,max=3600"`
}

// UpdateAssignmentRequest replaces the whole occupant assignment of a
// reservation. Seats not listed fall back to adult.
type UpdateAssignmentRequest struct {
	Assignments map[string]string `json:"assignments" validate:"required,dive,keys,uuid,endkeys,oneof=adult child"`
}
