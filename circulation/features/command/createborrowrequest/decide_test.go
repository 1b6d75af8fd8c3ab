package createborrowrequest_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/createborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const (
	bookID        = "book-1"
	otherBookID   = "book-2"
	studentID     = "student-1"
	transactionID = "tx-1"
)

func givenCommand(actor core.Actor, requestedDays int) createborrowrequest.Command {
	return createborrowrequest.BuildCommand(actor, transactionID, studentID, bookID, "", requestedDays, "for my thesis", FakeClock)
}

func givenBookAndStudent() core.DomainEvents {
	return core.DomainEvents{
		FixtureBookAdded(bookID, 1, FakeClock.Add(-48*time.Hour)),
		FixtureStudentRegistered(studentID, 3, FakeClock.Add(-47*time.Hour)),
	}
}

func Test_Decide_Success_WhenStudentIsEligible(t *testing.T) {
	// arrange
	command := givenCommand(core.StudentActor(studentID), 14)

	// act
	result := createborrowrequest.Decide(givenBookAndStudent(), command, core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.True(t, result.HasEventsToAppend())
	require.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.BorrowRequestCreated)
	require.True(t, ok)
	assert.Equal(t, transactionID, event.TransactionID)
	assert.Equal(t, bookID, event.BookID)
	assert.Equal(t, studentID, event.StudentID)
	assert.Equal(t, 14, event.RequestedDays)
	assert.Equal(t, FakeClock.Add(14*24*time.Hour), event.DueDate)
	assert.Equal(t, studentID, event.RequestedBy)
}

func Test_Decide_UsesDefaultLoanPeriod_WhenNoDaysRequested(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	policy.LoanPeriodDays = 21

	// act
	result := createborrowrequest.Decide(givenBookAndStudent(), givenCommand(core.StaffActor(StaffID), 0), policy)

	// assert
	require.True(t, result.HasEventsToAppend())
	event := result.Events[0].(core.BorrowRequestCreated)
	assert.Equal(t, 21, event.RequestedDays)
	assert.Equal(t, StaffID, event.RequestedBy)
}

func Test_Decide_Idempotent_WhenSameRequestWasAlreadyCreated(t *testing.T) {
	// arrange
	history := append(givenBookAndStudent(), FixtureRequested(transactionID, bookID, studentID, 14, FakeClock.Add(-time.Hour)))

	// act
	result := createborrowrequest.Decide(history, givenCommand(core.StudentActor(studentID), 14), core.DefaultPolicy())

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Rejects_ReusedTransactionIDWithDifferentLoanPeriod(t *testing.T) {
	// arrange
	history := append(givenBookAndStudent(), FixtureRequested(transactionID, bookID, studentID, 14, FakeClock.Add(-time.Hour)))

	// act
	result := createborrowrequest.Decide(history, givenCommand(core.StudentActor(studentID), 21), core.DefaultPolicy())

	// assert
	assert.ErrorIs(t, result.Err, core.ErrValidation)
	assert.False(t, result.HasEventsToAppend())
}

func Test_Decide_Idempotent_WhenReplayUsesTheDefaultLoanPeriod(t *testing.T) {
	// arrange
	policy := core.DefaultPolicy()
	history := append(
		givenBookAndStudent(),
		FixtureRequested(transactionID, bookID, studentID, policy.LoanPeriodDays, FakeClock.Add(-time.Hour)),
	)

	// act
	result := createborrowrequest.Decide(history, givenCommand(core.StudentActor(studentID), 0), policy)

	// assert
	assert.True(t, result.IsIdempotent())
}

//nolint:funlen
func Test_Decide_BusinessErrors(t *testing.T) {
	policy := core.DefaultPolicy()

	threeOpenRequests := givenBookAndStudent()
	for i, id := range []string{"b-2", "b-3", "b-4"} {
		threeOpenRequests = append(threeOpenRequests,
			FixtureBookAdded(id, 1, FakeClock.Add(-40*time.Hour)),
			FixtureRequested("open-"+id, id, studentID, 14, FakeClock.Add(-time.Duration(10-i)*time.Hour)),
		)
	}

	testCases := []struct {
		name         string
		actor        core.Actor
		history      core.DomainEvents
		expectedKind core.ErrorKind
	}{
		{
			name:         "student acting for somebody else",
			actor:        core.StudentActor("student-2"),
			history:      givenBookAndStudent(),
			expectedKind: core.KindForbidden,
		},
		{
			name:         "book never added",
			actor:        core.StudentActor(studentID),
			history:      core.DomainEvents{FixtureStudentRegistered(studentID, 3, FakeClock.Add(-time.Hour))},
			expectedKind: core.KindBookNotFound,
		},
		{
			name:         "student not registered",
			actor:        core.StaffActor(StaffID),
			history:      core.DomainEvents{FixtureBookAdded(bookID, 1, FakeClock.Add(-time.Hour))},
			expectedKind: core.KindNotFound,
		},
		{
			name:  "book under maintenance",
			actor: core.StudentActor(studentID),
			history: append(givenBookAndStudent(),
				FixtureBookStatusOverridden(bookID, core.BookStatusMaintenance, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindBookNotAvailable,
		},
		{
			name:  "last copy already lent",
			actor: core.StudentActor(studentID),
			history: append(givenBookAndStudent(),
				FixtureApproved("tx-other", bookID, "student-2", FakeClock.Add(13*24*time.Hour), FakeClock.Add(-time.Hour))),
			expectedKind: core.KindBookNotAvailable,
		},
		{
			name:  "account suspended",
			actor: core.StudentActor(studentID),
			history: append(givenBookAndStudent(),
				FixtureAccountStatusChanged(studentID, core.AccountSuspended, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindAccountInactive,
		},
		{
			name:         "borrowing limit reached",
			actor:        core.StudentActor(studentID),
			history:      threeOpenRequests,
			expectedKind: core.KindBorrowingLimitExceeded,
		},
		{
			name:  "overdue loan",
			actor: core.StudentActor(studentID),
			history: append(append(givenBookAndStudent(), FixtureBookAdded(otherBookID, 1, FakeClock.Add(-40*24*time.Hour))),
				ActiveLoan("tx-old", otherBookID, studentID, 14, FakeClock.Add(-20*24*time.Hour))...),
			expectedKind: core.KindHasOverdueBooks,
		},
		{
			name:  "unpaid fine",
			actor: core.StudentActor(studentID),
			history: append(givenBookAndStudent(),
				FixtureFineIssued("tx-old", otherBookID, studentID, "15.00", 3, FakeClock.Add(-24*time.Hour))),
			expectedKind: core.KindHasUnpaidFines,
		},
		{
			name:  "same book already requested",
			actor: core.StudentActor(studentID),
			history: append(givenBookAndStudent(),
				FixtureRequested("tx-earlier", bookID, studentID, 7, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindAlreadyBorrowed,
		},
		{
			name:  "transaction ID used by another request",
			actor: core.StudentActor(studentID),
			history: append(givenBookAndStudent(),
				FixtureRequested(transactionID, otherBookID, "student-2", 7, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := createborrowrequest.Decide(tc.history, givenCommand(tc.actor, 14), policy)

			// assert
			err := result.HasError()
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
			assert.False(t, result.HasEventsToAppend())
		})
	}
}
