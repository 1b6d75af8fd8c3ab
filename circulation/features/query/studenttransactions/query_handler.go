package studenttransactions

import (
	"context"

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

// Handle queries the student's transaction history and delegates to the pure projection.
func (h QueryHandler) Handle(ctx context.Context, query Query) (StudentTransactions, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.StudentID))
	if err != nil {
		return StudentTransactions{}, err
	}

	result := ProjectStudentTransactions(history, query)
	result.SequenceNumber = maxSequenceNumber

	return result, nil
}
