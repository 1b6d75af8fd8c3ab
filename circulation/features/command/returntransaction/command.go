package returntransaction

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "ReturnTransaction"
)

// Command represents a staff member receiving a borrowed copy back.
type Command struct {
	Actor         core.Actor
	TransactionID core.TransactionIDString `validate:"required"`
	Condition     core.ReturnCondition     `validate:"required,oneof=GOOD DAMAGED LOST"`
	Notes         string
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	actor core.Actor,
	transactionID core.TransactionIDString,
	condition core.ReturnCondition,
	notes string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		TransactionID: transactionID,
		Condition:     condition,
		Notes:         notes,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
