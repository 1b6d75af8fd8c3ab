package cancelreservation

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the owner of a reservation or staff withdrawing it.
type Command struct {
	Actor         core.Actor
	ReservationID core.ReservationIDString `validate:"required"`
	Reason        string
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	reservationID core.ReservationIDString,
	reason string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		ReservationID: reservationID,
		Reason:        reason,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
