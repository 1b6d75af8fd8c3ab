package studenttransactions

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	queryType = "StudentTransactions"
)

// Query asks for the transactions of StudentID as seen at At.
type Query struct {
	StudentID core.StudentIDString
	At        time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(studentID core.StudentIDString, at time.Time) Query {
	return Query{
		StudentID: studentID,
		At:        at,
	}
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}
