package cancelreservation

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of cancelling a reservation.
//
// Business Rules:
//
//	GIVEN: a PENDING reservation that has not expired
//	WHEN: CancelReservation is received
//	THEN: ReservationCancelled
//	ERROR: NOT_FOUND if the reservation does not exist
//	ERROR: FORBIDDEN if a student cancels someone else's reservation
//	ERROR: INVALID_STATUS if the reservation is fulfilled, cancelled or expired
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	reservation, ok := core.ProjectLedger(history).Reservation(command.ReservationID)
	if !ok {
		return core.ErrorDecision(core.ErrReservationNotFoundFor(command.ReservationID))
	}

	if !command.Actor.ActsFor(reservation.StudentID) {
		return core.ErrorDecision(core.ErrNotOwner("reservations"))
	}

	if status := reservation.EffectiveStatus(command.OccurredAt); status != core.ReservationStatusPending {
		return core.ErrorDecision(core.ErrInvalidStatusFor("cancel", "reservation", string(status)))
	}

	return core.SuccessDecision(
		core.BuildReservationCancelled(
			reservation.ReservationID,
			reservation.BookID,
			reservation.StudentID,
			command.Reason,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the lifecycle events of the reservation.
func BuildEventFilter(reservationID core.ReservationIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookReservedEventType,
			core.ReservationCancelledEventType,
			core.ReservationFulfilledEventType,
		).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID)).
		Finalize()
}
