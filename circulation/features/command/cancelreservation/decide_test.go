package cancelreservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const (
	bookID        = "book-1"
	studentID     = "student-1"
	reservationID = "res-1"
)

func givenReservation(expiryDays int) core.DomainEvents {
	return core.DomainEvents{FixtureReserved(reservationID, bookID, studentID, expiryDays, FakeClock.Add(-2*24*time.Hour))}
}

func Test_Decide_Success(t *testing.T) {
	for _, actor := range []core.Actor{core.StudentActor(studentID), core.StaffActor(StaffID)} {
		t.Run(string(actor.Role), func(t *testing.T) {
			result := cancelreservation.Decide(givenReservation(7), cancelreservation.BuildCommand(actor, reservationID, "found it elsewhere", FakeClock))

			require.NoError(t, result.HasError())
			require.Len(t, result.Events, 1)

			event, ok := result.Events[0].(core.ReservationCancelled)
			require.True(t, ok)
			assert.Equal(t, "found it elsewhere", event.Reason)
			assert.Equal(t, actor.UserID, event.CancelledBy)
		})
	}
}

func Test_Decide_BusinessErrors(t *testing.T) {
	testCases := []struct {
		name         string
		actor        core.Actor
		history      core.DomainEvents
		expectedKind core.ErrorKind
	}{
		{
			name:         "unknown reservation",
			actor:        core.StudentActor(studentID),
			history:      core.DomainEvents{},
			expectedKind: core.KindNotFound,
		},
		{
			name:         "somebody else's reservation",
			actor:        core.StudentActor("student-2"),
			history:      givenReservation(7),
			expectedKind: core.KindForbidden,
		},
		{
			name:         "expired reservation",
			actor:        core.StudentActor(studentID),
			history:      givenReservation(1),
			expectedKind: core.KindInvalidStatus,
		},
		{
			name:  "cancelled twice",
			actor: core.StudentActor(studentID),
			history: append(givenReservation(7),
				FixtureReservationCancelled(reservationID, bookID, studentID, FakeClock.Add(-time.Hour))),
			expectedKind: core.KindInvalidStatus,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := cancelreservation.Decide(tc.history, cancelreservation.BuildCommand(tc.actor, reservationID, "", FakeClock))

			err := result.HasError()
			require.Error(t, err)
			assert.Equal(t, tc.expectedKind, core.KindOf(err))
		})
	}
}
