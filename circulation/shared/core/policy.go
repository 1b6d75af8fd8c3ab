package core

import (
	"github.com/shopspring/decimal"
)

// Policy setting keys as stored in the Policy Store.
const (
	SettingLoanPeriodDays        = "DEFAULT_LOAN_PERIOD_DAYS"
	SettingMaxRenewals           = "MAX_RENEWALS"
	SettingFinePerDay            = "FINE_PER_DAY"
	SettingGracePeriodDays       = "GRACE_PERIOD_DAYS"
	SettingMaxFineAmount         = "MAX_FINE_AMOUNT"
	SettingDefaultBorrowingLimit = "DEFAULT_BORROWING_LIMIT"
	SettingReservationExpiryDays = "RESERVATION_EXPIRY_DAYS"
)

const (
	// MinRequestedDays and MaxRequestedDays bound the loan period a student may request.
	MinRequestedDays = 1
	MaxRequestedDays = 90

	defaultLoanPeriodDays        = 14
	defaultMaxRenewals           = 2
	defaultGracePeriodDays       = 0
	defaultBorrowingLimit        = 3
	defaultReservationExpiryDays = 7
)

var defaultFinePerDay = decimal.RequireFromString("5.00")

// Policy is the set of tunable settings in effect for one decision.
// It is read fresh for every decision, so changes apply to the next transition only.
type Policy struct {
	LoanPeriodDays        int
	MaxRenewals           int
	FinePerDay            decimal.Decimal
	GracePeriodDays       int
	MaxFineAmount         decimal.Decimal // zero means uncapped
	DefaultBorrowingLimit int
	ReservationExpiryDays int
}

// DefaultPolicy returns the fallback values used for missing settings.
func DefaultPolicy() Policy {
	return Policy{
		LoanPeriodDays:        defaultLoanPeriodDays,
		MaxRenewals:           defaultMaxRenewals,
		FinePerDay:            defaultFinePerDay,
		GracePeriodDays:       defaultGracePeriodDays,
		MaxFineAmount:         decimal.Zero,
		DefaultBorrowingLimit: defaultBorrowingLimit,
		ReservationExpiryDays: defaultReservationExpiryDays,
	}
}
