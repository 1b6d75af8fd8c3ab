package studenttransactions

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// ProjectStudentTransactions implements the query projection logic for a student's transactions.
//
// Query Logic:
//
//	GIVEN: a student
//	WHEN: the student's transactions are requested at the query time
//	THEN: every transaction the student ever created is listed, oldest first
//	INCLUDES: PENDING, ACTIVE, OVERDUE, RETURNED and REJECTED transactions
//	EXCLUDES: transactions of other students
func ProjectStudentTransactions(history core.DomainEvents, query Query) StudentTransactions {
	ledger := core.ProjectLedger(history)
	transactions := ledger.TransactionsOfStudent(query.StudentID)

	result := StudentTransactions{
		StudentID:    query.StudentID,
		Transactions: make([]TransactionInfo, 0, len(transactions)),
	}

	for _, t := range transactions {
		status := t.DisplayStatus(query.At)

		info := TransactionInfo{
			TransactionID:   t.TransactionID,
			BookID:          t.BookID,
			Status:          status,
			RequestedDays:   t.RequestedDays,
			DueDate:         t.DueDate,
			RenewalCount:    t.RenewalCount,
			BorrowedAt:      t.BorrowedAt,
			ApprovedAt:      t.ApprovedAt,
			ReturnedAt:      t.ReturnedAt,
			RejectionReason: t.RejectionReason,
			Condition:       t.Condition,
		}

		switch status {
		case core.TransactionStatusPending:
			result.Counts.Pending++
		case core.TransactionStatusActive:
			result.Counts.Active++
		case core.TransactionStatusOverdue:
			result.Counts.Overdue++
			info.DaysOverdue = core.DaysOverdue(t.DueDate, query.At)
		case core.TransactionStatusReturned:
			result.Counts.Returned++
		case core.TransactionStatusRejected:
			result.Counts.Rejected++
		}

		result.Transactions = append(result.Transactions, info)
	}

	result.Count = len(result.Transactions)

	return result
}

// BuildEventFilter selects the lifecycle events of all transactions of the student.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOfAll(shell.TransactionEventTypes).
		AndAnyPredicateOf(eventstore.P("StudentID", studentID)).
		Finalize()
}
