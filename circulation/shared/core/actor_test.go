package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
)

func Test_Actor_ActsFor(t *testing.T) {
	staff := core.StaffActor("staff-1")
	student := core.StudentActor("student-1")

	assert.True(t, staff.IsStaff())
	assert.True(t, staff.ActsFor("student-1"))
	assert.True(t, staff.ActsFor("student-2"))

	assert.True(t, student.IsStudent())
	assert.Equal(t, "student-1", student.UserID)
	assert.Equal(t, core.AccountActive, student.AccountStatus)
	assert.True(t, student.ActsFor("student-1"))
	assert.False(t, student.ActsFor("student-2"))
}

func Test_Ledger_StudentProjection(t *testing.T) {
	ledger := core.ProjectLedger(core.DomainEvents{studentRegistered("student-1", 3, fakeClock)})

	var found core.Student
	found, ok := ledger.Student("student-1")

	assert.True(t, ok)
	assert.Equal(t, "Student student-1", found.Name)
	assert.Equal(t, 3, found.BorrowingLimit)
	assert.Equal(t, core.AccountActive, found.AccountStatus)
}
