package bookavailability

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
)

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
type QueryHandler struct {
	eventStore shell.EventStore
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.EventStore) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
	}
}

// Handle queries the book's history and delegates to the pure projection.
// It fails with BOOK_NOT_FOUND for a book that was never added to circulation.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookAvailability, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.BookID))
	if err != nil {
		return BookAvailability{}, err
	}

	result, found := ProjectBookAvailability(history, query)
	if !found {
		return result, core.ErrBookNotFoundFor(query.BookID)
	}

	result.SequenceNumber = maxSequenceNumber

	return result, nil
}
