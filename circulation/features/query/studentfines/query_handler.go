package studentfines

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

// Handle queries the student's fine events and delegates to the pure projection.
func (h QueryHandler) Handle(ctx context.Context, query Query) (StudentFines, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.StudentID))
	if err != nil {
		return StudentFines{}, err
	}

	result := ProjectStudentFines(history, query)
	result.SequenceNumber = maxSequenceNumber

	return result, nil
}
