package registerstudent

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of registering a student.
//
// Business Rules:
//
//	GIVEN: an unused student ID
//	WHEN: RegisterStudent is received
//	THEN: StudentRegistered, the account starts ACTIVE
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: VALIDATION_ERROR if the student ID is registered with a different name
//	IDEMPOTENCY: registering the same student with the same name again is a no-op
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("register students"))
	}

	if student, ok := core.ProjectLedger(history).Student(command.StudentID); ok {
		if student.Name == command.Name {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.ErrValidationf("The student ID %s is already registered", command.StudentID))
	}

	return core.SuccessDecision(
		core.BuildStudentRegistered(
			command.StudentID,
			command.Name,
			command.BorrowingLimit,
			command.Actor.UserID,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the registration of the student.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.StudentRegisteredEventType, core.StudentAccountStatusChangedEventType).
		AndAnyPredicateOf(eventstore.P("StudentID", studentID)).
		Finalize()
}
