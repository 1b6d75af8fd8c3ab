package core

import (
	"time"
)

// Student is the projection of a student account.
type Student struct {
	StudentID      StudentIDString
	Name           string
	AccountStatus  AccountStatus
	BorrowingLimit int // 0 means the policy default applies
	RegisteredAt   time.Time
}

// EffectiveBorrowingLimit returns the student's own limit or the policy default.
func (s Student) EffectiveBorrowingLimit(policy Policy) int {
	if s.BorrowingLimit > 0 {
		return s.BorrowingLimit
	}

	return policy.DefaultBorrowingLimit
}
