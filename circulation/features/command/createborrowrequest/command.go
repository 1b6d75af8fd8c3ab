package createborrowrequest

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "CreateBorrowRequest"
)

// Command represents the intent of a student to borrow a book.
// Exactly one of BookID and Barcode is needed; BookID wins when both are set.
// RequestedDays 0 means the policy's default loan period.
type Command struct {
	Actor         core.Actor
	TransactionID core.TransactionIDString `validate:"required"`
	StudentID     core.StudentIDString     `validate:"required"`
	BookID        core.BookIDString        `validate:"required_without=Barcode"`
	Barcode       string                   `validate:"required_without=BookID"`
	RequestedDays int                      `validate:"min=0,max=90"`
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
	studentID core.StudentIDString,
	bookID core.BookIDString,
	barcode string,
	requestedDays int,
	notes string,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:         actor,
		TransactionID: transactionID,
		StudentID:     studentID,
		BookID:        bookID,
		Barcode:       barcode,
		RequestedDays: requestedDays,
		Notes:         notes,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
