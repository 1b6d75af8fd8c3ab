package bookavailability

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

const (
	queryType = "BookAvailability"
)

// Query asks for the availability of BookID as seen at At.
type Query struct {
	BookID core.BookIDString
	At     time.Time
}

// BuildQuery creates a new Query with the provided parameters.
func BuildQuery(bookID core.BookIDString, at time.Time) Query {
	return Query{
		BookID: bookID,
		At:     at,
	}
}

// QueryType returns the type identifier for this query, used for observability.
func (q Query) QueryType() string {
	return queryType
}
