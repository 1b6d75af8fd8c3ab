package registerstudent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/registerstudent"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const studentID = "student-1"

func Test_Decide_Success(t *testing.T) {
	// act
	result := registerstudent.Decide(core.DomainEvents{}, registerstudent.BuildCommand(core.StaffActor(StaffID), studentID, "Ada", 5, FakeClock))

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)

	event, ok := result.Events[0].(core.StudentRegistered)
	require.True(t, ok)
	assert.Equal(t, "Ada", event.Name)
	assert.Equal(t, 5, event.BorrowingLimit)
	assert.Equal(t, StaffID, event.RegisteredBy)
}

func Test_Decide_Outcomes_ForAnExistingStudent(t *testing.T) {
	history := core.DomainEvents{FixtureStudentRegistered(studentID, 3, FakeClock.Add(-time.Hour))}

	t.Run("same name is idempotent", func(t *testing.T) {
		result := registerstudent.Decide(history, registerstudent.BuildCommand(core.StaffActor(StaffID), studentID, "Student "+studentID, 3, FakeClock))

		assert.True(t, result.IsIdempotent())
	})

	t.Run("different name is rejected", func(t *testing.T) {
		result := registerstudent.Decide(history, registerstudent.BuildCommand(core.StaffActor(StaffID), studentID, "Grace", 3, FakeClock))

		assert.ErrorIs(t, result.HasError(), core.ErrValidation)
	})
}

func Test_Decide_Forbidden_ForStudents(t *testing.T) {
	// act
	result := registerstudent.Decide(core.DomainEvents{}, registerstudent.BuildCommand(core.StudentActor(studentID), studentID, "Ada", 0, FakeClock))

	// assert
	assert.ErrorIs(t, result.HasError(), core.ErrForbidden)
}
