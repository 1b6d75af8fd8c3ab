package overridebookstatus

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "OverrideBookStatus"
)

// Command represents staff overriding the status label of a book.
type Command struct {
	Actor      core.Actor
	BookID     core.BookIDString `validate:"required"`
	Status     core.BookStatus   `validate:"required,oneof=AVAILABLE BORROWED RESERVED MAINTENANCE LOST DAMAGED"`
	Reason     string            `validate:"required"`
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	bookID core.BookIDString,
	status core.BookStatus,
	reason string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:      actor,
		BookID:     bookID,
		Status:     status,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
