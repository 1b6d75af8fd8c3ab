package renewtransaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/renewtransaction"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const (
	bookID        = "book-1"
	studentID     = "student-1"
	otherStudent  = "student-2"
	transactionID = "tx-1"
)

var approvedAt = FakeClock.Add(-5 * 24 * time.Hour)

// givenActiveLoan is due 9 days after FakeClock.
func givenActiveLoan() core.DomainEvents {
	return ActiveLoan(transactionID, bookID, studentID, 14, approvedAt)
}

func Test_Decide_Success(t *testing.T) {
	// arrange
	command := renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "exam period", FakeClock)

	// act
	result := renewtransaction.Decide(givenActiveLoan(), command, core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.LoanRenewed)
	require.True(t, ok)
	assert.Equal(t, approvedAt.Add(14*24*time.Hour), event.PreviousDueDate)
	assert.Equal(t, approvedAt.Add(21*24*time.Hour), event.NewDueDate)
	assert.Equal(t, 1, event.RenewalCount)
}

func Test_Decide_UsesDefaultLoanPeriod_WhenNoDaysGiven(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	policy.LoanPeriodDays = 10

	// act
	result := renewtransaction.Decide(givenActiveLoan(), renewtransaction.BuildCommand(core.StaffActor(StaffID), transactionID, 0, "", FakeClock), policy)

	// assert
	require.NoError(t, result.HasError())
	event := result.Events[0].(core.LoanRenewed)
	assert.Equal(t, approvedAt.Add(24*24*time.Hour), event.NewDueDate)
}

func Test_Decide_OverdueLoan_ExtendsFromTheCurrentDueDate(t *testing.T) {
	// arrange
	overdue := ActiveLoan(transactionID, bookID, studentID, 14, FakeClock.Add(-20*24*time.Hour))
	dueDate := FakeClock.Add(-6 * 24 * time.Hour)

	// act
	result := renewtransaction.Decide(overdue, renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 3, "", FakeClock), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	event := result.Events[0].(core.LoanRenewed)
	assert.Equal(t, dueDate.Add(3*24*time.Hour), event.NewDueDate, "still overdue after the renewal")
}

func Test_Decide_ReservationGate(t *testing.T) {
	testCases := []struct {
		name          string
		reservations  core.DomainEvents
		expectedError error
	}{
		{
			name:          "pending reservation of another student blocks",
			reservations:  core.DomainEvents{FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-time.Hour))},
			expectedError: core.ErrBookReserved,
		},
		{
			name:         "own reservation does not block",
			reservations: core.DomainEvents{FixtureReserved("res-1", bookID, studentID, 7, FakeClock.Add(-time.Hour))},
		},
		{
			name:         "expired reservation does not block",
			reservations: core.DomainEvents{FixtureReserved("res-1", bookID, otherStudent, 1, FakeClock.Add(-2*24*time.Hour))},
		},
		{
			name: "cancelled reservation does not block",
			reservations: core.DomainEvents{
				FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-2*time.Hour)),
				FixtureReservationCancelled("res-1", bookID, otherStudent, FakeClock.Add(-time.Hour)),
			},
		},
		{
			name:         "reservation on another book does not block",
			reservations: core.DomainEvents{FixtureReserved("res-1", "book-2", otherStudent, 7, FakeClock.Add(-time.Hour))},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			history := append(givenActiveLoan(), tc.reservations...)
			command := renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock)

			result := renewtransaction.Decide(history, command, core.DefaultPolicy())

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

//nolint:funlen
func Test_Decide_BusinessErrors(t *testing.T) {
	due := approvedAt.Add(14 * 24 * time.Hour)
	twiceRenewed := append(givenActiveLoan(),
		FixtureRenewed(transactionID, bookID, studentID, due, 7, 1, FakeClock.Add(-2*24*time.Hour)),
		FixtureRenewed(transactionID, bookID, studentID, due.Add(7*24*time.Hour), 7, 2, FakeClock.Add(-24*time.Hour)),
	)

	testCases := []struct {
		name         string
		actor        core.Actor
		history      core.DomainEvents
		expectedKind core.ErrorKind
	}{
		{
			name:         "unknown transaction",
			actor:        core.StudentActor(studentID),
			history:      core.DomainEvents{},
			expectedKind: core.KindNotFound,
		},
		{
			name:         "student renewing someone else's loan",
			actor:        core.StudentActor(otherStudent),
			history:      givenActiveLoan(),
			expectedKind: core.KindForbidden,
		},
		{
			name:         "pending request",
			actor:        core.StudentActor(studentID),
			history:      core.DomainEvents{FixtureRequested(transactionID, bookID, studentID, 14, FakeClock.Add(-time.Hour))},
			expectedKind: core.KindInvalidStatus,
		},
		{
			name:         "returned loan",
			actor:        core.StaffActor(StaffID),
			history:      append(givenActiveLoan(), FixtureReturned(transactionID, bookID, studentID, core.ReturnGood, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindInvalidStatus,
		},
		{
			name:         "renewal cap reached",
			actor:        core.StudentActor(studentID),
			history:      twiceRenewed,
			expectedKind: core.KindMaxRenewalsReached,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			command := renewtransaction.BuildCommand(tc.actor, transactionID, 7, "", FakeClock)

			result := renewtransaction.Decide(tc.history, command, core.DefaultPolicy())

			err := result.HasError()
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
			assert.False(t, result.HasEventsToAppend())
		})
	}
}
