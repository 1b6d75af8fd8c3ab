package core

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FineStatus of a fine.
type FineStatus string

const (
	FineStatusUnpaid FineStatus = "UNPAID"
	FineStatusPaid   FineStatus = "PAID"
	FineStatusWaived FineStatus = "WAIVED"
)

// Fine is the Fine Ledger record tied 1:1 to an overdue return.
// Only Status, PaidAt, WaivedAt and WaiverReason change after issuing.
type Fine struct {
	FineID        FineIDString
	TransactionID TransactionIDString
	BookID        BookIDString
	StudentID     StudentIDString
	Amount        decimal.Decimal
	DaysOverdue   int
	Reason        string
	Status        FineStatus
	IssuedAt      time.Time
	PaidAt        time.Time
	WaivedAt      time.Time
	WaiverReason  string
}

// FineIDFor derives the fine ID from the transaction ID, so a second fine for the same
// transaction would carry the same identity.
func FineIDFor(transactionID TransactionIDString) FineIDString {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("fine:"+transactionID)).String()
}

// DaysOverdue counts started days between dueDate and returnedAt. It is 0 when returned on time.
func DaysOverdue(dueDate time.Time, returnedAt time.Time) int {
	if !returnedAt.After(dueDate) {
		return 0
	}

	late := returnedAt.Sub(dueDate)
	days := int(late / day)

	if late%day != 0 {
		days++
	}

	return days
}

// ComputeFine returns daysOverdue x FinePerDay, zero within the grace period, capped at MaxFineAmount if set.
func ComputeFine(daysOverdue int, policy Policy) decimal.Decimal {
	if daysOverdue <= 0 || daysOverdue <= policy.GracePeriodDays {
		return decimal.Zero
	}

	amount := policy.FinePerDay.Mul(decimal.NewFromInt(int64(daysOverdue)))

	if policy.MaxFineAmount.IsPositive() && amount.GreaterThan(policy.MaxFineAmount) {
		return policy.MaxFineAmount
	}

	return amount
}

// FineReason is the human readable reason stored with a fine.
func FineReason(daysOverdue int) string {
	if daysOverdue == 1 {
		return "Returned 1 day late"
	}

	return "Returned " + strconv.Itoa(daysOverdue) + " days late"
}
