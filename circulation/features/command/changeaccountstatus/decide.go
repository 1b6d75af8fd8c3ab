package changeaccountstatus

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of changing an account status.
//
// Business Rules:
//
//	GIVEN: a registered student
//	WHEN: ChangeAccountStatus is received
//	THEN: StudentAccountStatusChanged
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: NOT_FOUND if the student is not registered
//	IDEMPOTENCY: setting the current status again is a no-op
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("change account status"))
	}

	student, ok := core.ProjectLedger(history).Student(command.StudentID)
	if !ok {
		return core.ErrorDecision(core.ErrStudentNotFoundFor(command.StudentID))
	}

	if student.AccountStatus == command.Status {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildStudentAccountStatusChanged(
			command.StudentID,
			command.Status,
			command.Reason,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the account events of the student.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.StudentRegisteredEventType, core.StudentAccountStatusChangedEventType).
		AndAnyPredicateOf(eventstore.P("StudentID", studentID)).
		Finalize()
}
