package overduetransactions

import (
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// ProjectOverdueTransactions implements the query projection logic for overdue loans.
//
// Query Logic:
//
//	GIVEN: all transactions, books and students
//	WHEN: the overdue loans at the query time are requested
//	THEN: every ACTIVE loan with a due date before the query time is listed, most overdue first
//	INCLUDES: days overdue (started days count) and the fine the current policy would charge
//	EXCLUDES: PENDING, RETURNED and REJECTED transactions, fines already issued
func ProjectOverdueTransactions(history core.DomainEvents, query Query, policy core.Policy) OverdueTransactions {
	ledger := core.ProjectLedger(history)
	overdue := ledger.OverdueTransactions(query.At)

	result := OverdueTransactions{
		Loans:               make([]OverdueLoan, 0, len(overdue)),
		TotalProjectedFines: decimal.Zero,
	}

	for _, t := range overdue {
		daysOverdue := core.DaysOverdue(t.DueDate, query.At)
		fine := core.ComputeFine(daysOverdue, policy)

		loan := OverdueLoan{
			TransactionID: t.TransactionID,
			BookID:        t.BookID,
			StudentID:     t.StudentID,
			DueDate:       t.DueDate,
			DaysOverdue:   daysOverdue,
			ProjectedFine: fine,
		}

		if book, ok := ledger.Book(t.BookID); ok {
			loan.Title = book.Title
		}

		if student, ok := ledger.Student(t.StudentID); ok {
			loan.StudentName = student.Name
		}

		result.Loans = append(result.Loans, loan)
		result.TotalProjectedFines = result.TotalProjectedFines.Add(fine)
	}

	result.Count = len(result.Loans)

	return result
}

// BuildEventFilter selects all transaction lifecycle events plus the catalog and student records
// used to label them.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOfAll(shell.TransactionEventTypes).
		OrMatching().
		AnyEventTypeOf(
			core.BookCopyAddedToCirculationEventType,
			core.StudentRegisteredEventType,
		).
		Finalize()
}
