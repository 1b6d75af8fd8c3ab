package borrowingeligibility

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
)

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
// It reads with eventual consistency, a verdict may lag behind a command that just succeeded.
type QueryHandler struct {
	eventStore shell.EventStore
	policies   shell.PolicyLoader
}

// NewQueryHandler creates a new QueryHandler with the provided dependencies.
func NewQueryHandler(eventStore shell.EventStore, policies shell.PolicyLoader) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
		policies:   policies,
	}
}

// Handle queries the relevant history and delegates the verdict to the pure projection.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Eligibility, error) {
	policy, err := h.policies.Load(ctx)
	if err != nil {
		return Eligibility{}, err
	}

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.StudentID, query.BookID))
	if err != nil {
		return Eligibility{}, err
	}

	result := ProjectEligibility(history, query, policy)
	result.SequenceNumber = maxSequenceNumber

	return result, nil
}
