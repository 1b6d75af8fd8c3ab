package core_test

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

var fakeClock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func bookAdded(bookID string, quantity int, at time.Time) core.DomainEvent {
	return core.BuildBookCopyAddedToCirculation(bookID, "bc-"+bookID, "978-0-13-468599-1", "The Go Programming Language", "Donovan, Kernighan", quantity, "staff-1", at)
}

func studentRegistered(studentID string, limit int, at time.Time) core.DomainEvent {
	return core.BuildStudentRegistered(studentID, "Student "+studentID, limit, "staff-1", at)
}

func requested(txID, bookID, studentID string, days int, at time.Time) core.DomainEvent {
	return core.BuildBorrowRequestCreated(txID, bookID, studentID, days, core.AddDays(at, days), "", studentID, at)
}

func approved(txID, bookID, studentID string, dueDate time.Time, at time.Time) core.DomainEvent {
	return core.BuildBorrowRequestApproved(txID, bookID, studentID, dueDate, "", "staff-1", at)
}

func returned(txID, bookID, studentID string, condition core.ReturnCondition, at time.Time) core.DomainEvent {
	return core.BuildBookCopyReturned(txID, bookID, studentID, condition, "", "staff-1", at)
}

func reserved(reservationID, bookID, studentID string, at time.Time) core.DomainEvent {
	return core.BuildBookReserved(reservationID, bookID, studentID, core.AddDays(at, 7), studentID, at)
}
