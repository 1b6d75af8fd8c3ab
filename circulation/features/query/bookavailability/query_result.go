package bookavailability

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

// QueuedReservation is one place in the reservation queue. Position starts at 1.
type QueuedReservation struct {
	Position      int
	ReservationID core.ReservationIDString
	StudentID     core.StudentIDString
	ReservedAt    time.Time
	ExpiresAt     time.Time
}

// BookAvailability represents the query result.
type BookAvailability struct {
	BookID            core.BookIDString
	Barcode           string
	ISBN              string
	Title             string
	Authors           string
	Status            core.BookStatus
	TotalQuantity     int
	AvailableQuantity int
	CanBeBorrowed     bool
	Queue             []QueuedReservation
	History           []core.BookHistoryEntry

	// QuantityMismatches is non-zero when the event history lent out more copies than exist.
	QuantityMismatches int
	SequenceNumber     uint
}

// GetSequenceNumber returns the highest sequence number of the events the result is based on.
func (r BookAvailability) GetSequenceNumber() uint {
	return r.SequenceNumber
}
