// Package helper contains fixtures and arrange helpers shared by the circulation feature tests.
package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/memoryengine"
)

// StaffID is the user ID used for staff actors in fixtures.
const StaffID = "staff-1"

// FakeClock is the reference time of all fixtures.
var FakeClock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func GivenUniqueID(t testing.TB) string {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id.String()
}

// GivenEventStore returns an empty in-memory event store.
func GivenEventStore() *memoryengine.EventStore {
	return memoryengine.NewEventStore()
}

// GivenEventsWereAppended appends events unconditionally, in order, as one batch.
func GivenEventsWereAppended(t testing.TB, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := eventstore.WithStrongConsistency(context.Background())
	filter := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSequenceNumber, err := es.Query(ctx, filter)
	require.NoError(t, err, "error in arranging test data")

	storableEvents := make(eventstore.StorableEvents, 0, len(events))
	for _, event := range events {
		storableEvent, mapErr := shell.StorableEventWithEmptyMetadataFrom(event)
		require.NoError(t, mapErr, "error in arranging test data")

		storableEvents = append(storableEvents, storableEvent)
	}

	require.NoError(t, es.Append(ctx, filter, maxSequenceNumber, storableEvents...), "error in arranging test data")
}

// ProjectStore folds every stored event into a ledger.
func ProjectStore(t testing.TB, es shell.EventStore) *core.Ledger {
	t.Helper()

	history, _, err := shell.QueryHistory(
		eventstore.WithStrongConsistency(context.Background()),
		es,
		eventstore.BuildEventFilter().MatchingAnyEvent(),
	)
	require.NoError(t, err)

	return core.ProjectLedger(history)
}

// CountEvents returns the number of stored events.
func CountEvents(t testing.TB, es shell.EventStore) int {
	t.Helper()

	events, _, err := es.Query(
		eventstore.WithStrongConsistency(context.Background()),
		eventstore.BuildEventFilter().MatchingAnyEvent(),
	)
	require.NoError(t, err)

	return len(events)
}

/*** Fixtures ***/

func FixtureBookAdded(bookID string, quantity int, at time.Time) core.DomainEvent {
	return core.BuildBookCopyAddedToCirculation(
		bookID,
		BarcodeOf(bookID),
		"978-0-13-468599-1",
		"The Go Programming Language",
		"Alan A. A. Donovan, Brian W. Kernighan",
		quantity,
		StaffID,
		at,
	)
}

// BarcodeOf is the barcode FixtureBookAdded assigns to bookID.
func BarcodeOf(bookID string) string {
	return "bc-" + bookID
}

func FixtureBookStatusOverridden(bookID string, status core.BookStatus, at time.Time) core.DomainEvent {
	return core.BuildBookCopyStatusOverridden(bookID, status, "inventory check", StaffID, at)
}

func FixtureStudentRegistered(studentID string, borrowingLimit int, at time.Time) core.DomainEvent {
	return core.BuildStudentRegistered(studentID, "Student "+studentID, borrowingLimit, StaffID, at)
}

func FixtureAccountStatusChanged(studentID string, status core.AccountStatus, at time.Time) core.DomainEvent {
	return core.BuildStudentAccountStatusChanged(studentID, status, "library rules", StaffID, at)
}

func FixtureRequested(transactionID, bookID, studentID string, days int, at time.Time) core.DomainEvent {
	return core.BuildBorrowRequestCreated(transactionID, bookID, studentID, days, core.AddDays(at, days), "", studentID, at)
}

func FixtureApproved(transactionID, bookID, studentID string, dueDate time.Time, at time.Time) core.DomainEvent {
	return core.BuildBorrowRequestApproved(transactionID, bookID, studentID, dueDate, "", StaffID, at)
}

func FixtureRejected(transactionID, bookID, studentID string, at time.Time) core.DomainEvent {
	return core.BuildBorrowRequestRejected(transactionID, bookID, studentID, "damaged catalog entry", "", StaffID, at)
}

func FixtureRenewed(transactionID, bookID, studentID string, previousDueDate time.Time, days, renewalCount int, at time.Time) core.DomainEvent {
	return core.BuildLoanRenewed(transactionID, bookID, studentID, previousDueDate, core.AddDays(previousDueDate, days), renewalCount, "", studentID, at)
}

func FixtureReturned(transactionID, bookID, studentID string, condition core.ReturnCondition, at time.Time) core.DomainEvent {
	return core.BuildBookCopyReturned(transactionID, bookID, studentID, condition, "", StaffID, at)
}

func FixtureFineIssued(transactionID, bookID, studentID string, amount string, daysOverdue int, at time.Time) core.DomainEvent {
	return core.BuildFineIssued(
		core.FineIDFor(transactionID),
		transactionID,
		bookID,
		studentID,
		decimal.RequireFromString(amount),
		daysOverdue,
		core.FineReason(daysOverdue),
		at,
	)
}

func FixtureFinePaid(transactionID, studentID string, amount string, at time.Time) core.DomainEvent {
	return core.BuildFinePaid(core.FineIDFor(transactionID), transactionID, studentID, decimal.RequireFromString(amount), StaffID, at)
}

func FixtureReserved(reservationID, bookID, studentID string, expiryDays int, at time.Time) core.DomainEvent {
	return core.BuildBookReserved(reservationID, bookID, studentID, core.AddDays(at, expiryDays), studentID, at)
}

func FixtureReservationCancelled(reservationID, bookID, studentID string, at time.Time) core.DomainEvent {
	return core.BuildReservationCancelled(reservationID, bookID, studentID, "no longer needed", studentID, at)
}

// ActiveLoan returns the events of a request approved at approvedAt with the given loan period.
func ActiveLoan(transactionID, bookID, studentID string, days int, approvedAt time.Time) []core.DomainEvent {
	requestedAt := approvedAt.Add(-time.Hour)

	return []core.DomainEvent{
		FixtureRequested(transactionID, bookID, studentID, days, requestedAt),
		FixtureApproved(transactionID, bookID, studentID, core.AddDays(approvedAt, days), approvedAt),
	}
}
