package processrequest

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "ProcessRequest"
)

// Decision is either Approve or Reject.
type Decision interface {
	decisionKind() string
}

// Approve hands out a copy of the requested book.
type Approve struct {
	Notes string
}

func (Approve) decisionKind() string { return "approve" }

// Reject closes the request without handing out a copy. Reason must not be empty.
type Reject struct {
	Reason string
	Notes  string
}

func (Reject) decisionKind() string { return "reject" }

// Command represents a staff member's decision on a pending borrow request.
type Command struct {
	Actor         core.Actor
	TransactionID core.TransactionIDString `validate:"required"`
	Decision      Decision                 `validate:"required"`
	OccurredAt    core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildApproveCommand creates a Command that approves the request.
func BuildApproveCommand(
	actor core.Actor,
	transactionID core.TransactionIDString,
	notes string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		TransactionID: transactionID,
		Decision:      Approve{Notes: notes},
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

// BuildRejectCommand creates a Command that rejects the request.
func BuildRejectCommand(
	actor core.Actor,
	transactionID core.TransactionIDString,
	reason string,
	notes string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		TransactionID: transactionID,
		Decision:      Reject{Reason: reason, Notes: notes},
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
