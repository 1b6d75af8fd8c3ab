package core

import (
	"time"
)

const (
	StudentRegisteredEventType           = "StudentRegistered"
	StudentAccountStatusChangedEventType = "StudentAccountStatusChanged"
)

// StudentRegistered represents a student account being opened.
// A BorrowingLimit of 0 means the policy's default limit applies.
type StudentRegistered struct {
	StudentID      StudentIDString
	Name           string
	BorrowingLimit int
	RegisteredBy   string
	OccurredAt     OccurredAtTS
}

// BuildStudentRegistered creates a new StudentRegistered event.
func BuildStudentRegistered(
	studentID StudentIDString,
	name string,
	borrowingLimit int,
	registeredBy string,
	occurredAt time.Time,
) StudentRegistered {

	return StudentRegistered{
		StudentID:      studentID,
		Name:           name,
		BorrowingLimit: borrowingLimit,
		RegisteredBy:   registeredBy,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e StudentRegistered) EventType() EventTypeString {
	return StudentRegisteredEventType
}

func (e StudentRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// StudentAccountStatusChanged represents staff activating, deactivating or suspending an account.
type StudentAccountStatusChanged struct {
	StudentID     StudentIDString
	AccountStatus AccountStatus
	Reason        string
	ChangedBy     string
	OccurredAt    OccurredAtTS
}

// BuildStudentAccountStatusChanged creates a new StudentAccountStatusChanged event.
func BuildStudentAccountStatusChanged(
	studentID StudentIDString,
	accountStatus AccountStatus,
	reason string,
	changedBy string,
	occurredAt time.Time,
) StudentAccountStatusChanged {

	return StudentAccountStatusChanged{
		StudentID:     studentID,
		AccountStatus: accountStatus,
		Reason:        reason,
		ChangedBy:     changedBy,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e StudentAccountStatusChanged) EventType() EventTypeString {
	return StudentAccountStatusChangedEventType
}

func (e StudentAccountStatusChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}
