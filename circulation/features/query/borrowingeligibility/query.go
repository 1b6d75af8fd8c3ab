package borrowingeligibility

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	queryType = "BorrowingEligibility"
)

// Query asks whether StudentID may request BookID at At.
type Query struct {
	StudentID core.StudentIDString
	BookID    core.BookIDString
	At        time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(studentID core.StudentIDString, bookID core.BookIDString, at time.Time) Query {
	return Query{
		StudentID: studentID,
		BookID:    bookID,
		At:        at,
	}
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}
