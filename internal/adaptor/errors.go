package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"book-your-show/internal/inventory"
	"book-your-show/internal/usecase"
	"book-your-show/pkg/utils"
)

// writeServiceError maps the engine's error taxonomy onto HTTP statuses.
// Unavailability, expiry and lock conflicts are expected outcomes and log
// at Warn; consistency violations and unknown failures log at Error.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrSeatUnavailable):
		var unavailable *inventory.UnavailableError
		var conflicts []string
		if errors.As(err, &unavailable) {
			for _, id := range unavailable.SeatIDs {
				conflicts = append(conflicts, id.String())
			}
		}
		log.Warn(operation+" failed - seats unavailable", zap.Strings("conflicting_seats", conflicts))
		utils.ResponseConflict(w, "Requested seats are unavailable", map[string]any{
			"conflictingSeatIds": conflicts,
		})

	case errors.Is(err, usecase.ErrReservationExpired):
		log.Warn(operation+" failed - reservation expired", zap.Error(err))
		utils.ResponseGone(w, "Reservation has expired")

	case errors.Is(err, usecase.ErrReservationLocked):
		log.Warn(operation+" failed - reservation locked", zap.Error(err))
		utils.ResponseLocked(w, "Reservation is locked by a pending payment")

	case errors.Is(err, usecase.ErrIntentPending):
		log.Warn(operation+" failed - intent already pending", zap.Error(err))
		utils.ResponseConflict(w, "A payment intent is already pending", nil)

	case errors.Is(err, usecase.ErrInvalidState):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrSaleNotActive):
		log.Warn(operation+" failed - sales not active", zap.Error(err))
		utils.ResponseConflict(w, "Ticket sales are not currently active", nil)

	case errors.Is(err, usecase.ErrNotFound),
		errors.Is(err, inventory.ErrEventNotFound),
		errors.Is(err, inventory.ErrSeatNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrPaymentProvider):
		log.Error(operation+" failed - provider error", zap.Error(err))
		utils.ResponseBadGateway(w, "Payment provider is unavailable")

	case errors.Is(err, usecase.ErrConsistency):
		log.Error(operation+" failed - consistency violation", zap.Error(err))
		utils.ResponseInternalError(w, "Internal consistency error")

	case strings.Contains(err.Error(), "validation failed"),
		strings.Contains(err.Error(), "invalid"),
		strings.Contains(err.Error(), "duplicate seat"):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
