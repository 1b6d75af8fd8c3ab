package changeaccountstatus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/changeaccountstatus"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const studentID = "student-1"

func givenStudent() core.DomainEvents {
	return core.DomainEvents{FixtureStudentRegistered(studentID, 3, FakeClock.Add(-time.Hour))}
}

func Test_Decide_Success(t *testing.T) {
	// act
	result := changeaccountstatus.Decide(givenStudent(),
		changeaccountstatus.BuildCommand(core.StaffActor(StaffID), studentID, core.AccountSuspended, "lost three books", FakeClock))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.StudentAccountStatusChanged)
	require.True(t, ok)
	assert.Equal(t, core.AccountSuspended, event.AccountStatus)
	assert.Equal(t, StaffID, event.ChangedBy)
}

func Test_Decide_Idempotent_WhenUnchanged(t *testing.T) {
	// act
	result := changeaccountstatus.Decide(givenStudent(),
		changeaccountstatus.BuildCommand(core.StaffActor(StaffID), studentID, core.AccountActive, "", FakeClock))

	// assert
	assert.True(t, result.IsIdempotent())
}

func Test_Decide_BusinessErrors(t *testing.T) {
	testCases := []struct {
		name          string
		actor         core.Actor
		history       core.DomainEvents
		expectedError error
	}{
		{name: "student changing", actor: core.StudentActor(studentID), history: givenStudent(), expectedError: core.ErrForbidden},
		{name: "unknown student", actor: core.StaffActor(StaffID), history: core.DomainEvents{}, expectedError: core.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := changeaccountstatus.Decide(tc.history,
				changeaccountstatus.BuildCommand(tc.actor, studentID, core.AccountInactive, "graduated", FakeClock))

			assert.ErrorIs(t, result.HasError(), tc.expectedError)
			assert.False(t, result.HasEventsToAppend())
		})
	}
}
