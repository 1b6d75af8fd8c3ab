package placereservation

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "PlaceReservation"
)

// Command represents the intent of a student to queue for a book.
type Command struct {
	Actor         core.Actor
	ReservationID core.ReservationIDString `validate:"required"`
	StudentID     core.StudentIDString     `validate:"required"`
	BookID        core.BookIDString        `validate:"required"`
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
	studentID core.StudentIDString,
	bookID core.BookIDString,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		ReservationID: reservationID,
		StudentID:     studentID,
		BookID:        bookID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
