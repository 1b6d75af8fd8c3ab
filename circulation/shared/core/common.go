package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// BookIDString represents a book (copy aggregate) identifier
type BookIDString = string

// StudentIDString represents a student identifier
type StudentIDString = string

// TransactionIDString represents a borrowing transaction identifier
type TransactionIDString = string

// FineIDString represents a fine identifier
type FineIDString = string

// ReservationIDString represents a reservation identifier
type ReservationIDString = string

// EventTypeString represents the type identifier of a domain event
type EventTypeString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

const day = 24 * time.Hour

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// AddDays returns t plus n days of 24 hours.
func AddDays(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * day)
}
