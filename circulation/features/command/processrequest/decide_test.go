package processrequest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/processrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const (
	bookID        = "book-1"
	studentID     = "student-1"
	otherStudent  = "student-2"
	transactionID = "tx-1"
)

func givenPendingRequest(quantity int) core.DomainEvents {
	return core.DomainEvents{
		FixtureBookAdded(bookID, quantity, FakeClock.Add(-48*time.Hour)),
		FixtureStudentRegistered(studentID, 3, FakeClock.Add(-47*time.Hour)),
		FixtureRequested(transactionID, bookID, studentID, 14, FakeClock.Add(-2*time.Hour)),
	}
}

func Test_Decide_Approve_Success(t *testing.T) {
	// arrange
	command := processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "handed out at desk 2", FakeClock)

	// act
	result := processrequest.Decide(givenPendingRequest(1), command, core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.BorrowRequestApproved)
	require.True(t, ok)
	assert.Equal(t, transactionID, event.TransactionID)
	assert.Equal(t, FakeClock.Add(14*24*time.Hour), event.DueDate, "the due date counts from the approval")
	assert.Equal(t, StaffID, event.ApprovedBy)
}

func Test_Decide_Approve_FulfilsOwnReservation(t *testing.T) {
	// arrange
	history := append(givenPendingRequest(1), FixtureReserved("res-1", bookID, studentID, 7, FakeClock.Add(-3*time.Hour)))
	command := processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", FakeClock)

	// act
	result := processrequest.Decide(history, command, core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)

	fulfilled, ok := result.Events[1].(core.ReservationFulfilled)
	require.True(t, ok)
	assert.Equal(t, "res-1", fulfilled.ReservationID)
	assert.Equal(t, transactionID, fulfilled.TransactionID)
}

func Test_Decide_Approve_ReservationQueue(t *testing.T) {
	testCases := []struct {
		name          string
		quantity      int
		reservations  core.DomainEvents
		expectedError error
	}{
		{
			name:          "earlier reservation of another student takes the last copy",
			quantity:      1,
			reservations:  core.DomainEvents{FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-3*time.Hour))},
			expectedError: core.ErrBookReserved,
		},
		{
			name:         "a later reservation does not jump the queue",
			quantity:     1,
			reservations: core.DomainEvents{FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-time.Hour))},
		},
		{
			name:         "an expired reservation does not block",
			quantity:     1,
			reservations: core.DomainEvents{FixtureReserved("res-1", bookID, otherStudent, 1, FakeClock.Add(-30*time.Hour))},
		},
		{
			name:     "a cancelled reservation does not block",
			quantity: 1,
			reservations: core.DomainEvents{
				FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-3*time.Hour)),
				FixtureReservationCancelled("res-1", bookID, otherStudent, FakeClock.Add(-time.Hour)),
			},
		},
		{
			name:         "enough copies for the queue and the request",
			quantity:     2,
			reservations: core.DomainEvents{FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-3*time.Hour))},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			history := append(givenPendingRequest(tc.quantity), tc.reservations...)
			command := processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", FakeClock)

			result := processrequest.Decide(history, command, core.DefaultPolicy())

			if tc.expectedError != nil {
				assert.ErrorIs(t, result.HasError(), tc.expectedError)
				assert.False(t, result.HasEventsToAppend())

				return
			}

			require.NoError(t, result.HasError())
			assert.True(t, result.HasEventsToAppend())
		})
	}
}

func Test_Decide_Reject_Success(t *testing.T) {
	// arrange
	command := processrequest.BuildRejectCommand(core.StaffActor(StaffID), transactionID, "reference copy only", "", FakeClock)

	// act
	result := processrequest.Decide(givenPendingRequest(1), command, core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.BorrowRequestRejected)
	require.True(t, ok)
	assert.Equal(t, "reference copy only", event.Reason)
	assert.Equal(t, StaffID, event.RejectedBy)
}

//nolint:funlen
func Test_Decide_BusinessErrors(t *testing.T) {
	approved := append(givenPendingRequest(1),
		FixtureApproved(transactionID, bookID, studentID, FakeClock.Add(13*24*time.Hour), FakeClock.Add(-time.Hour)))

	testCases := []struct {
		name         string
		command      processrequest.Command
		history      core.DomainEvents
		expectedKind core.ErrorKind
	}{
		{
			name:         "student approving",
			command:      processrequest.BuildApproveCommand(core.StudentActor(studentID), transactionID, "", FakeClock),
			history:      givenPendingRequest(1),
			expectedKind: core.KindForbidden,
		},
		{
			name:         "unknown transaction",
			command:      processrequest.BuildApproveCommand(core.StaffActor(StaffID), "tx-unknown", "", FakeClock),
			history:      givenPendingRequest(1),
			expectedKind: core.KindNotFound,
		},
		{
			name:         "approving an approved request",
			command:      processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", FakeClock),
			history:      approved,
			expectedKind: core.KindInvalidStatus,
		},
		{
			name:         "rejecting an approved request",
			command:      processrequest.BuildRejectCommand(core.StaffActor(StaffID), transactionID, "changed my mind", "", FakeClock),
			history:      approved,
			expectedKind: core.KindInvalidStatus,
		},
		{
			name:         "rejecting without a reason",
			command:      processrequest.BuildRejectCommand(core.StaffActor(StaffID), transactionID, "  ", "", FakeClock),
			history:      givenPendingRequest(1),
			expectedKind: core.KindValidation,
		},
		{
			name:    "book under maintenance",
			command: processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", FakeClock),
			history: append(givenPendingRequest(1),
				FixtureBookStatusOverridden(bookID, core.BookStatusMaintenance, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindBookNotAvailable,
		},
		{
			name:    "last copy lent to another student",
			command: processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", FakeClock),
			history: append(givenPendingRequest(1),
				FixtureApproved("tx-other", bookID, otherStudent, FakeClock.Add(13*24*time.Hour), FakeClock.Add(-time.Hour))),
			expectedKind: core.KindBookNotAvailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := processrequest.Decide(tc.history, tc.command, core.DefaultPolicy())

			err := result.HasError()
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
			assert.False(t, result.HasEventsToAppend())
		})
	}
}
