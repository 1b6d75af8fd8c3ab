package studentfines

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	queryType = "StudentFines"
)

// Query asks for the fines of StudentID.
type Query struct {
	StudentID core.StudentIDString
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(studentID core.StudentIDString) Query {
	return Query{StudentID: studentID}
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}
