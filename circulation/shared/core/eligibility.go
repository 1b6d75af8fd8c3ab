package core

import (
	"time"
)

// Eligibility is the verdict of the Eligibility Evaluator.
type Eligibility struct {
	Eligible bool
	Reason   ErrorKind // empty when Eligible
	Err      error     // the actionable BusinessError, nil when Eligible
}

func eligible() Eligibility {
	return Eligibility{Eligible: true}
}

func notEligible(err error) Eligibility {
	return Eligibility{Reason: KindOf(err), Err: err}
}

// Evaluate decides whether studentID may request bookID at now. It is a pure read of the ledger.
// The checks short-circuit in this order, the first failure wins:
//
//  1. the book is AVAILABLE with at least one available copy        -> BOOK_NOT_AVAILABLE
//  2. the student's account is ACTIVE                               -> ACCOUNT_INACTIVE
//  3. PENDING+ACTIVE transactions are below the borrowing limit     -> BORROWING_LIMIT_EXCEEDED
//  4. the student has no overdue loan                               -> HAS_OVERDUE_BOOKS
//  5. the student has no UNPAID fine                                -> HAS_UNPAID_FINES
//  6. no PENDING or ACTIVE transaction for the same student and book -> ALREADY_BORROWED
//
// The ledger must contain the book's inventory events and all transaction and fine events of the student.
func Evaluate(ledger *Ledger, studentID StudentIDString, bookID BookIDString, now time.Time, policy Policy) Eligibility {
	book, ok := ledger.Book(bookID)
	if !ok || !book.CanBeBorrowed() {
		return notEligible(ErrBookNotAvailableNow())
	}

	student, ok := ledger.Student(studentID)
	if !ok {
		return notEligible(ErrAccountInactiveWith(AccountInactive))
	}

	if student.AccountStatus != AccountActive {
		return notEligible(ErrAccountInactiveWith(student.AccountStatus))
	}

	transactions := ledger.TransactionsOfStudent(studentID)

	open, overdue := 0, 0
	var sameBook *Transaction

	for i, t := range transactions {
		if t.IsOpen() {
			open++

			if t.BookID == bookID && sameBook == nil {
				sameBook = &transactions[i]
			}
		}

		if t.IsOverdue(now) {
			overdue++
		}
	}

	if limit := student.EffectiveBorrowingLimit(policy); open >= limit {
		return notEligible(ErrBorrowingLimitExceededWith(limit))
	}

	if overdue > 0 {
		return notEligible(ErrHasOverdueBooksWith(overdue))
	}

	if total, count := ledger.UnpaidFinesTotal(studentID); count > 0 {
		return notEligible(ErrHasUnpaidFinesWith(total.StringFixed(2)))
	}

	if sameBook != nil {
		return notEligible(ErrAlreadyBorrowedWith(sameBook.Status))
	}

	return eligible()
}
