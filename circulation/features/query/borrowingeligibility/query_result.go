package borrowingeligibility

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

// Eligibility is the verdict for one student and one book.
// Reason and Message are empty when Eligible is true.
type Eligibility struct {
	StudentID      core.StudentIDString
	BookID         core.BookIDString
	Eligible       bool
	Reason         core.ErrorKind
	Message        string
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number of the events the verdict is based on.
func (r Eligibility) GetSequenceNumber() uint {
	return r.SequenceNumber
}
