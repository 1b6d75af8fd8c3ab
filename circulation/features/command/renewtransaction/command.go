package renewtransaction

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "RenewTransaction"
)

// Command represents the intent to keep a borrowed book longer.
// AdditionalDays 0 means the policy's default loan period.
type Command struct {
	Actor          core.Actor
	TransactionID  core.TransactionIDString `validate:"required"`
	AdditionalDays int                      `validate:"min=0,max=90"`
	Notes          string
	OccurredAt     core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	transactionID core.TransactionIDString,
	additionalDays int,
	notes string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:          actor,
		TransactionID:  transactionID,
		AdditionalDays: additionalDays,
		Notes:          notes,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
