package addbookcopy

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	commandType = "AddBookCopy"
)

// Command represents staff adding a book to the Inventory Ledger.
type Command struct {
	Actor      core.Actor
	BookID     core.BookIDString `validate:"required"`
	Barcode    string            `validate:"required"`
	ISBN       string
	Title      string `validate:"required"`
	Authors    string
	Quantity   int `validate:"min=1"`
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
	barcode string,
	isbn string,
	title string,
	authors string,
	quantity int,
	occurredAt time.Time,
) Command {

	return Command{
		Actor:      actor,
		BookID:     bookID,
		Barcode:    barcode,
		ISBN:       isbn,
		Title:      title,
		Authors:    authors,
		Quantity:   quantity,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
