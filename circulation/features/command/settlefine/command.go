package settlefine

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "SettleFine"
)

// Settlement is either Pay or Waive.
type Settlement interface {
	settlementKind() string
}

// Pay records that the full amount was paid.
type Pay struct{}

func (Pay) settlementKind() string { return "pay" }

// Waive forgives the fine. Reason must not be empty.
type Waive struct {
	Reason string
}

func (Waive) settlementKind() string { return "waive" }

// Command represents staff settling a fine.
type Command struct {
	Actor      core.Actor
	FineID     core.FineIDString `validate:"required"`
	Settlement Settlement        `validate:"required"`
	OccurredAt core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildPayCommand creates a Command that records the payment of a fine.
func BuildPayCommand(actor core.Actor, fineID core.FineIDString, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		FineID:     fineID,
		Settlement: Pay{},
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// BuildWaiveCommand creates a Command that waives a fine.
func BuildWaiveCommand(actor core.Actor, fineID core.FineIDString, reason string, occurredAt time.Time) Command {
	return Command{
		Actor:      actor,
		FineID:     fineID,
		Settlement: Waive{Reason: reason},
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
