package services

import (
	"time"

	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/utils"
)

// cancelCutoff is how long before the slot instant a customer may
// still cancel their own reservation.
const cancelCutoff = 2 * time.Hour

// customerCancellable are the statuses a customer-initiated cancel may
// leave from.
func customerCancellable(status string) bool {
	return status == models.StatusPending || status == models.StatusConfirmed
}

// Transition applies a status change on behalf of the actor.
//
// Customers may only cancel their own PENDING or CONFIRMED bookings,
// and only up to the cancellation cutoff before the slot instant.
// Owners, receptionists in scope and super admins may set any status;
// there is deliberately no forward-only enforcement for them, so an
// admin can jump PENDING -> COMPLETED or walk a COMPLETED booking back
// to CONFIRMED. That escape hatch is operational policy, not a gap.
func (s *ReservationService) Transition(actor Actor, reservationID uint, newStatus string) (*models.Reservation, error) {
	if !models.ValidStatus(newStatus) {
		return nil, ErrValidation
	}

	reservation, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}

	switch actor.Kind {
	case ActorCustomer:
		if reservation.CustomerID != actor.UserID {
			return nil, ErrForbidden
		}
		if newStatus != models.StatusCancelled {
			return nil, ErrInvalidTransition
		}
		if !customerCancellable(reservation.Status) {
			return nil, ErrNotCancellable
		}
		slot, err := reservation.SlotTime(time.Local)
		if err != nil {
			return nil, ErrValidation
		}
		if s.availability.now().After(slot.Add(-cancelCutoff)) {
			return nil, ErrTooLateToCancel
		}
	case ActorRestaurantOwner:
		if reservation.Restaurant.OwnerID != actor.UserID {
			return nil, ErrForbidden
		}
	case ActorReceptionist:
		if reservation.RestaurantID != actor.RestaurantID {
			return nil, ErrForbidden
		}
	case ActorSuperAdmin:
		// unrestricted
	default:
		return nil, ErrForbidden
	}

	previous := reservation.Status
	reservation.Status = newStatus
	if err := s.db.Model(&models.Reservation{}).
		Where("id = ?", reservation.ID).
		Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s: %s -> %s (user=%d)", reservation.Code, previous, newStatus, actor.UserID)
	return s.load(reservation.ID)
}
