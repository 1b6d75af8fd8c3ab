package core

// Role of the acting user as supplied by the identity collaborator.
type Role string

const (
	RoleStaff   Role = "STAFF"
	RoleStudent Role = "STUDENT"
)

// AccountStatus of a student account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountInactive  AccountStatus = "INACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
)

// IsValid reports whether s is a known account status.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountActive, AccountInactive, AccountSuspended:
		return true
	default:
		return false
	}
}

// Actor is the authenticated user on whose behalf an operation runs.
// It is trusted as supplied; role and ownership are still checked per operation.
type Actor struct {
	UserID        string        `validate:"required"`
	Role          Role          `validate:"oneof=STAFF STUDENT"`
	AccountStatus AccountStatus `validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// StaffActor returns a staff Actor.
func StaffActor(userID string) Actor {
	return Actor{UserID: userID, Role: RoleStaff, AccountStatus: AccountActive}
}

// StudentActor returns a student Actor whose user ID is the student ID.
func StudentActor(studentID StudentIDString) Actor {
	return Actor{UserID: studentID, Role: RoleStudent, AccountStatus: AccountActive}
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleStaff
}

func (a Actor) IsStudent() bool {
	return a.Role == RoleStudent
}

// ActsFor reports whether the actor may act for studentID: staff always, students only for themselves.
func (a Actor) ActsFor(studentID StudentIDString) bool {
	return a.IsStaff() || (a.IsStudent() && a.UserID == studentID)
}
