package registerstudent

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "RegisterStudent"
)

// Command represents staff registering a student.
// BorrowingLimit 0 means the policy's default borrowing limit applies.
type Command struct {
	Actor          core.Actor
	StudentID      core.StudentIDString `validate:"required"`
	Name           string               `validate:"required"`
	BorrowingLimit int                  `validate:"min=0,max=50"`
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	studentID core.StudentIDString,
	name string,
	borrowingLimit int,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:          actor,
		StudentID:      studentID,
		Name:           name,
		BorrowingLimit: borrowingLimit,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
