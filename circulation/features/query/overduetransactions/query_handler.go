package overduetransactions

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
)

// QueryHandler orchestrates the query processing workflow: Query -> Unmarshal -> Project.
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

// Handle loads the current policy, queries all transaction events and delegates to the pure projection.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueTransactions, error) {
	policy, err := h.policies.Load(ctx)
	if err != nil {
		return OverdueTransactions{}, err
	}

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return OverdueTransactions{}, err
	}

	result := ProjectOverdueTransactions(history, query, policy)
	result.SequenceNumber = maxSequenceNumber

	return result, nil
}
