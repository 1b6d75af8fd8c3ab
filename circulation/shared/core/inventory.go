package core

import (
	"time"
)

// BookStatus is the coarse label of a book. It is not authoritative for counting; AvailableQuantity is.
type BookStatus string

const (
	BookStatusAvailable   BookStatus = "AVAILABLE"
	BookStatusBorrowed    BookStatus = "BORROWED"
	BookStatusReserved    BookStatus = "RESERVED"
	BookStatusMaintenance BookStatus = "MAINTENANCE"
	BookStatusLost        BookStatus = "LOST"
	BookStatusDamaged     BookStatus = "DAMAGED"
)

func (s BookStatus) IsValid() bool {
	switch s {
	case BookStatusAvailable, BookStatusBorrowed, BookStatusReserved, BookStatusMaintenance, BookStatusLost, BookStatusDamaged:
		return true
	default:
		return false
	}
}

// BookCopy is the Inventory Ledger record of one title.
// Invariant: 0 <= AvailableQuantity <= TotalQuantity. An event that would break it is still applied
// with the quantity kept in range, and counted in QuantityMismatches.
type BookCopy struct {
	BookID            BookIDString
	Barcode           string
	ISBN              string
	Title             string
	Authors           string
	TotalQuantity     int
	AvailableQuantity int
	Status            BookStatus
	AddedAt           time.Time
	History           []BookHistoryEntry

	// QuantityMismatches counts approvals without an available copy and returns beyond TotalQuantity.
	QuantityMismatches int
}

// BookHistoryEntry is one remark in a book's history.
type BookHistoryEntry struct {
	TransactionID TransactionIDString
	StudentID     StudentIDString
	Condition     ReturnCondition
	Note          string
	NotedAt       time.Time
}

// CanBeBorrowed reports whether a copy can be handed out right now.
func (b BookCopy) CanBeBorrowed() bool {
	return b.Status == BookStatusAvailable && b.AvailableQuantity >= 1
}

// consumeCopy applies an approval: one unit less, BORROWED once the last unit is gone.
func (b *BookCopy) consumeCopy() {
	if b.AvailableQuantity > 0 {
		b.AvailableQuantity--
	} else {
		b.QuantityMismatches++
	}

	if b.AvailableQuantity == 0 {
		b.Status = BookStatusBorrowed
	}
}

// receiveCopy applies a return. Only a GOOD copy goes back into circulation.
func (b *BookCopy) receiveCopy(condition ReturnCondition) {
	switch condition {
	case ReturnDamaged:
		b.Status = BookStatusDamaged
	case ReturnLost:
		b.Status = BookStatusLost
	default:
		if b.AvailableQuantity < b.TotalQuantity {
			b.AvailableQuantity++
		} else {
			b.QuantityMismatches++
		}

		if b.Status == BookStatusBorrowed {
			b.Status = BookStatusAvailable
		}
	}
}
