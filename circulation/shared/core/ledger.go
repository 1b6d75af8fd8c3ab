package core

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the current state projected from an event history: the Inventory Ledger, the
// transactions, the Fine Ledger, the reservations and the students.
//
// A history selected by a Filter is usually partial, e.g. it contains approvals of other students'
// transactions for a book without their creation. Apply tolerates that: inventory effects always
// apply, transaction effects only for transactions it has seen being created.
type Ledger struct {
	books        map[BookIDString]*BookCopy
	students     map[StudentIDString]*Student
	transactions map[TransactionIDString]*Transaction
	fines        map[FineIDString]*Fine
	reservations map[ReservationIDString]*Reservation
}

// NewLedger returns an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		books:        make(map[BookIDString]*BookCopy),
		students:     make(map[StudentIDString]*Student),
		transactions: make(map[TransactionIDString]*Transaction),
		fines:        make(map[FineIDString]*Fine),
		reservations: make(map[ReservationIDString]*Reservation),
	}
}

// ProjectLedger folds history, in order, into a new Ledger.
func ProjectLedger(history DomainEvents) *Ledger {
	l := NewLedger()
	l.Apply(history...)

	return l
}

// Apply folds events into the ledger. Unknown event types are ignored.
func (l *Ledger) Apply(events ...DomainEvent) { //nolint:gocyclo,funlen // one case per event type
	for _, event := range events {
		switch e := event.(type) {
		case BookCopyAddedToCirculation:
			if _, ok := l.books[e.BookID]; ok {
				continue
			}

			l.books[e.BookID] = &BookCopy{
				BookID:            e.BookID,
				Barcode:           e.Barcode,
				ISBN:              e.ISBN,
				Title:             e.Title,
				Authors:           e.Authors,
				TotalQuantity:     e.Quantity,
				AvailableQuantity: e.Quantity,
				Status:            BookStatusAvailable,
				AddedAt:           e.OccurredAt,
			}

		case BookCopyStatusOverridden:
			if b, ok := l.books[e.BookID]; ok {
				b.Status = e.Status
			}

		case BookHistoryNoted:
			if b, ok := l.books[e.BookID]; ok {
				b.History = append(b.History, BookHistoryEntry{
					TransactionID: e.TransactionID,
					StudentID:     e.StudentID,
					Condition:     e.Condition,
					Note:          e.Note,
					NotedAt:       e.OccurredAt,
				})
			}

		case StudentRegistered:
			if _, ok := l.students[e.StudentID]; ok {
				continue
			}

			l.students[e.StudentID] = &Student{
				StudentID:      e.StudentID,
				Name:           e.Name,
				AccountStatus:  AccountActive,
				BorrowingLimit: e.BorrowingLimit,
				RegisteredAt:   e.OccurredAt,
			}

		case StudentAccountStatusChanged:
			if s, ok := l.students[e.StudentID]; ok {
				s.AccountStatus = e.AccountStatus
			}

		case BorrowRequestCreated:
			if _, ok := l.transactions[e.TransactionID]; ok {
				continue
			}

			l.transactions[e.TransactionID] = &Transaction{
				TransactionID: e.TransactionID,
				BookID:        e.BookID,
				StudentID:     e.StudentID,
				Status:        TransactionStatusPending,
				RequestedDays: e.RequestedDays,
				DueDate:       e.DueDate,
				BorrowedAt:    e.OccurredAt,
				Notes:         e.Notes,
				RequestedBy:   e.RequestedBy,
			}

		case BorrowRequestApproved:
			if b, ok := l.books[e.BookID]; ok {
				b.consumeCopy()
			}

			if t, ok := l.transactions[e.TransactionID]; ok {
				t.Status = TransactionStatusActive
				t.ApprovedAt = e.OccurredAt
				t.DueDate = e.DueDate
				t.ApprovedBy = e.ApprovedBy
				t.addNotes(e.Notes)
			}

		case BorrowRequestRejected:
			if t, ok := l.transactions[e.TransactionID]; ok {
				t.Status = TransactionStatusRejected
				t.RejectedAt = e.OccurredAt
				t.RejectionReason = e.Reason
				t.RejectedBy = e.RejectedBy
				t.addNotes(e.Notes)
			}

		case LoanRenewed:
			if t, ok := l.transactions[e.TransactionID]; ok {
				t.DueDate = e.NewDueDate
				t.RenewalCount = e.RenewalCount
				t.addNotes(e.Notes)
			}

		case BookCopyReturned:
			if b, ok := l.books[e.BookID]; ok {
				b.receiveCopy(e.Condition)
			}

			if t, ok := l.transactions[e.TransactionID]; ok {
				t.Status = TransactionStatusReturned
				t.ReturnedAt = e.OccurredAt
				t.Condition = e.Condition
				t.ReturnedBy = e.ReceivedBy
				t.addNotes(e.Notes)
			}

		case FineIssued:
			if _, ok := l.fines[e.FineID]; ok {
				continue
			}

			l.fines[e.FineID] = &Fine{
				FineID:        e.FineID,
				TransactionID: e.TransactionID,
				BookID:        e.BookID,
				StudentID:     e.StudentID,
				Amount:        e.Amount,
				DaysOverdue:   e.DaysOverdue,
				Reason:        e.Reason,
				Status:        FineStatusUnpaid,
				IssuedAt:      e.OccurredAt,
			}

		case FinePaid:
			if f, ok := l.fines[e.FineID]; ok {
				f.Status = FineStatusPaid
				f.PaidAt = e.OccurredAt
			}

		case FineWaived:
			if f, ok := l.fines[e.FineID]; ok {
				f.Status = FineStatusWaived
				f.WaivedAt = e.OccurredAt
				f.WaiverReason = e.Reason
			}

		case BookReserved:
			if _, ok := l.reservations[e.ReservationID]; ok {
				continue
			}

			l.reservations[e.ReservationID] = &Reservation{
				ReservationID: e.ReservationID,
				BookID:        e.BookID,
				StudentID:     e.StudentID,
				Status:        ReservationStatusPending,
				ReservedAt:    e.OccurredAt,
				ExpiresAt:     e.ExpiresAt,
			}

		case ReservationCancelled:
			if r, ok := l.reservations[e.ReservationID]; ok {
				r.Status = ReservationStatusCancelled
				r.ClosedAt = e.OccurredAt
			}

		case ReservationFulfilled:
			if r, ok := l.reservations[e.ReservationID]; ok {
				r.Status = ReservationStatusFulfilled
				r.ClosedAt = e.OccurredAt
				r.TransactionID = e.TransactionID
			}
		}
	}
}

/*** Lookups ***/

func (l *Ledger) Book(bookID BookIDString) (BookCopy, bool) {
	b, ok := l.books[bookID]
	if !ok {
		return BookCopy{}, false
	}

	return *b, true
}

func (l *Ledger) Student(studentID StudentIDString) (Student, bool) {
	s, ok := l.students[studentID]
	if !ok {
		return Student{}, false
	}

	return *s, true
}

func (l *Ledger) Transaction(transactionID TransactionIDString) (Transaction, bool) {
	t, ok := l.transactions[transactionID]
	if !ok {
		return Transaction{}, false
	}

	return *t, true
}

func (l *Ledger) Fine(fineID FineIDString) (Fine, bool) {
	f, ok := l.fines[fineID]
	if !ok {
		return Fine{}, false
	}

	return *f, true
}

// FineForTransaction returns the fine issued for a transaction, if any.
func (l *Ledger) FineForTransaction(transactionID TransactionIDString) (Fine, bool) {
	return l.Fine(FineIDFor(transactionID))
}

func (l *Ledger) Reservation(reservationID ReservationIDString) (Reservation, bool) {
	r, ok := l.reservations[reservationID]
	if !ok {
		return Reservation{}, false
	}

	return *r, true
}

// Books returns all books ordered by BookID.
func (l *Ledger) Books() []BookCopy {
	books := make([]BookCopy, 0, len(l.books))
	for _, b := range l.books {
		books = append(books, *b)
	}

	slices.SortFunc(books, func(a, b BookCopy) int { return cmp.Compare(a.BookID, b.BookID) })

	return books
}

// Transactions returns all transactions ordered by creation time.
func (l *Ledger) Transactions() []Transaction {
	return l.transactionsWhere(func(Transaction) bool { return true })
}

// TransactionsOfStudent returns the student's transactions ordered by creation time.
func (l *Ledger) TransactionsOfStudent(studentID StudentIDString) []Transaction {
	return l.transactionsWhere(func(t Transaction) bool { return t.StudentID == studentID })
}

// OverdueTransactions returns all loans overdue at now, most overdue first.
func (l *Ledger) OverdueTransactions(now time.Time) []Transaction {
	overdue := l.transactionsWhere(func(t Transaction) bool { return t.IsOverdue(now) })

	slices.SortStableFunc(overdue, func(a, b Transaction) int { return a.DueDate.Compare(b.DueDate) })

	return overdue
}

func (l *Ledger) transactionsWhere(match func(Transaction) bool) []Transaction {
	transactions := make([]Transaction, 0)

	for _, t := range l.transactions {
		if match(*t) {
			transactions = append(transactions, *t)
		}
	}

	slices.SortFunc(transactions, func(a, b Transaction) int {
		if c := a.BorrowedAt.Compare(b.BorrowedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.TransactionID, b.TransactionID)
	})

	return transactions
}

// FinesOfStudent returns the student's fines ordered by issue time.
func (l *Ledger) FinesOfStudent(studentID StudentIDString) []Fine {
	fines := make([]Fine, 0)

	for _, f := range l.fines {
		if f.StudentID == studentID {
			fines = append(fines, *f)
		}
	}

	slices.SortFunc(fines, func(a, b Fine) int {
		if c := a.IssuedAt.Compare(b.IssuedAt); c != 0 {
			return c
		}

		return cmp.Compare(a.FineID, b.FineID)
	})

	return fines
}

// UnpaidFinesTotal sums the UNPAID fines of a student and counts them.
func (l *Ledger) UnpaidFinesTotal(studentID StudentIDString) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0

	for _, f := range l.fines {
		if f.StudentID == studentID && f.Status == FineStatusUnpaid {
			total = total.Add(f.Amount)
			count++
		}
	}

	return total, count
}
