package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies business errors. Callers map kinds to user facing responses.
type ErrorKind string

const (
	KindValidation             ErrorKind = "VALIDATION_ERROR"
	KindNotFound               ErrorKind = "NOT_FOUND"
	KindBookNotFound           ErrorKind = "BOOK_NOT_FOUND"
	KindForbidden              ErrorKind = "FORBIDDEN"
	KindInvalidStatus          ErrorKind = "INVALID_STATUS"
	KindBookNotAvailable       ErrorKind = "BOOK_NOT_AVAILABLE"
	KindAccountInactive        ErrorKind = "ACCOUNT_INACTIVE"
	KindBorrowingLimitExceeded ErrorKind = "BORROWING_LIMIT_EXCEEDED"
	KindHasOverdueBooks        ErrorKind = "HAS_OVERDUE_BOOKS"
	KindHasUnpaidFines         ErrorKind = "HAS_UNPAID_FINES"
	KindAlreadyBorrowed        ErrorKind = "ALREADY_BORROWED"
	KindMaxRenewalsReached     ErrorKind = "MAX_RENEWALS_REACHED"
	KindBookReserved           ErrorKind = "BOOK_RESERVED"
	KindAlreadyReserved        ErrorKind = "ALREADY_RESERVED"
)

// Sentinels for errors.Is checks. They carry no message.
var (
	ErrValidation             = &BusinessError{Kind: KindValidation}
	ErrNotFound               = &BusinessError{Kind: KindNotFound}
	ErrBookNotFound           = &BusinessError{Kind: KindBookNotFound}
	ErrForbidden              = &BusinessError{Kind: KindForbidden}
	ErrInvalidStatus          = &BusinessError{Kind: KindInvalidStatus}
	ErrBookNotAvailable       = &BusinessError{Kind: KindBookNotAvailable}
	ErrAccountInactive        = &BusinessError{Kind: KindAccountInactive}
	ErrBorrowingLimitExceeded = &BusinessError{Kind: KindBorrowingLimitExceeded}
	ErrHasOverdueBooks        = &BusinessError{Kind: KindHasOverdueBooks}
	ErrHasUnpaidFines         = &BusinessError{Kind: KindHasUnpaidFines}
	ErrAlreadyBorrowed        = &BusinessError{Kind: KindAlreadyBorrowed}
	ErrMaxRenewalsReached     = &BusinessError{Kind: KindMaxRenewalsReached}
	ErrBookReserved           = &BusinessError{Kind: KindBookReserved}
	ErrAlreadyReserved        = &BusinessError{Kind: KindAlreadyReserved}
)

// BusinessError is a violated business rule or malformed input. It is never retryable without changed input.
// Infrastructure failures are plain (joined) errors and never a BusinessError.
type BusinessError struct {
	Kind    ErrorKind
	Message string
}

// NewBusinessError creates a BusinessError with a formatted, user facing message.
func NewBusinessError(kind ErrorKind, format string, args ...any) *BusinessError {
	return &BusinessError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *BusinessError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return string(e.Kind) + ": " + e.Message
}

// Is matches any BusinessError of the same kind. BOOK_NOT_FOUND also matches NOT_FOUND.
func (e *BusinessError) Is(target error) bool {
	var t *BusinessError
	if !errors.As(target, &t) {
		return false
	}

	if t.Kind == e.Kind {
		return true
	}

	return e.Kind == KindBookNotFound && t.Kind == KindNotFound
}

// KindOf returns the kind of the first BusinessError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr.Kind
	}

	return ""
}

// IsBusinessError tells business rule violations apart from infrastructure failures.
func IsBusinessError(err error) bool {
	var businessErr *BusinessError

	return errors.As(err, &businessErr)
}

/*** Actionable messages ***/

// ErrValidationf creates a VALIDATION_ERROR with a formatted message.
func ErrValidationf(format string, args ...any) error {
	return NewBusinessError(KindValidation, format, args...)
}

// ErrBookNotFoundFor creates a BOOK_NOT_FOUND error for bookRef (an ID or a barcode).
func ErrBookNotFoundFor(bookRef string) error {
	return NewBusinessError(KindBookNotFound, "The book %s could not be found", bookRef)
}

func ErrStudentNotFoundFor(studentID StudentIDString) error {
	return NewBusinessError(KindNotFound, "The student %s could not be found", studentID)
}

func ErrTransactionNotFoundFor(transactionID TransactionIDString) error {
	return NewBusinessError(KindNotFound, "The transaction %s could not be found", transactionID)
}

func ErrFineNotFoundFor(fineID FineIDString) error {
	return NewBusinessError(KindNotFound, "The fine %s could not be found", fineID)
}

func ErrReservationNotFoundFor(reservationID ReservationIDString) error {
	return NewBusinessError(KindNotFound, "The reservation %s could not be found", reservationID)
}

// ErrStaffOnly creates a FORBIDDEN error for operations reserved to staff.
func ErrStaffOnly(operation string) error {
	return NewBusinessError(KindForbidden, "Only library staff may %s", operation)
}

// ErrNotOwner creates a FORBIDDEN error for acting on another student's records.
func ErrNotOwner(what string) error {
	return NewBusinessError(KindForbidden, "You may only act on your own %s", what)
}

// ErrInvalidStatusFor creates an INVALID_STATUS error, e.g. "Cannot approve: the transaction is ACTIVE".
func ErrInvalidStatusFor(operation string, what string, current string) error {
	return NewBusinessError(KindInvalidStatus, "Cannot %s: the %s is %s", operation, what, current)
}

func ErrBookNotAvailableNow() error {
	return NewBusinessError(KindBookNotAvailable, "This book is currently not available for borrowing")
}

func ErrAccountInactiveWith(status AccountStatus) error {
	return NewBusinessError(KindAccountInactive, "Your account is %s; please contact the library staff", status)
}

func ErrBorrowingLimitExceededWith(limit int) error {
	return NewBusinessError(KindBorrowingLimitExceeded, "You have reached your borrowing limit (%d books)", limit)
}

func ErrHasOverdueBooksWith(count int) error {
	return NewBusinessError(KindHasOverdueBooks, "You have %d overdue book(s); please return them first", count)
}

func ErrHasUnpaidFinesWith(total string) error {
	return NewBusinessError(KindHasUnpaidFines, "You have unpaid fines of %s; please settle them first", total)
}

// ErrAlreadyBorrowedWith creates an ALREADY_BORROWED error whose message depends on the status found.
func ErrAlreadyBorrowedWith(status TransactionStatus) error {
	if status == TransactionStatusPending {
		return NewBusinessError(KindAlreadyBorrowed, "You already have a pending request for this book")
	}

	return NewBusinessError(KindAlreadyBorrowed, "You are currently borrowing this book")
}

func ErrMaxRenewalsReachedWith(maxRenewals int) error {
	return NewBusinessError(KindMaxRenewalsReached, "This loan has already been renewed the maximum number of times (%d)", maxRenewals)
}

func ErrBookReservedByOthers(queueLength int) error {
	return NewBusinessError(KindBookReserved, "This book is reserved by %d other student(s)", queueLength)
}

func ErrAlreadyReservedByStudent() error {
	return NewBusinessError(KindAlreadyReserved, "You already have a pending reservation for this book")
}
