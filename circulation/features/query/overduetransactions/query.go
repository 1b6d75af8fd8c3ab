package overduetransactions

import (
	"time"
)

const (
	queryType = "OverdueTransactions"
)

// Query asks for all loans overdue at At.
type Query struct {
	At time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(at time.Time) Query {
	return Query{At: at}
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}
