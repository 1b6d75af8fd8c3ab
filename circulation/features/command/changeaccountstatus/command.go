package changeaccountstatus

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "ChangeAccountStatus"
)

// Command represents staff changing the status of a student account.
type Command struct {
	Actor      core.Actor
	StudentID  core.StudentIDString `validate:"required"`
	Status     core.AccountStatus   `validate:"required,oneof=ACTIVE INACTIVE SUSPENDED"`
	Reason     string
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	studentID core.StudentIDString,
	status core.AccountStatus,
	reason string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:      actor,
		StudentID:  studentID,
		Status:     status,
		Reason:     reason,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
