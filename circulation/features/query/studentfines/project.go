package studentfines

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// ProjectStudentFines implements the query projection logic for a student's fines.
//
// Query Logic:
//
//	GIVEN: a student
//	WHEN: the student's fines are requested
//	THEN: every fine ever issued to the student is listed, oldest first
//	INCLUDES: UNPAID, PAID and WAIVED fines, the total still UNPAID
//	EXCLUDES: projected fines of loans that are overdue but not returned yet
func ProjectStudentFines(history core.DomainEvents, query Query) StudentFines {
	ledger := core.ProjectLedger(history)
	fines := ledger.FinesOfStudent(query.StudentID)
	unpaidTotal, unpaidCount := ledger.UnpaidFinesTotal(query.StudentID)

	result := StudentFines{
		StudentID:   query.StudentID,
		Fines:       make([]FineInfo, 0, len(fines)),
		UnpaidCount: unpaidCount,
		UnpaidTotal: unpaidTotal,
	}

	for _, f := range fines {
		info := FineInfo{
			FineID:        f.FineID,
			TransactionID: f.TransactionID,
			BookID:        f.BookID,
			Amount:        f.Amount,
			DaysOverdue:   f.DaysOverdue,
			Reason:        f.Reason,
			Status:        f.Status,
			IssuedAt:      f.IssuedAt,
			WaiverReason:  f.WaiverReason,
		}

		switch f.Status {
		case core.FineStatusPaid:
			info.SettledAt = f.PaidAt
		case core.FineStatusWaived:
			info.SettledAt = f.WaivedAt
		}

		result.Fines = append(result.Fines, info)
	}

	return result
}

// BuildEventFilter selects the fine events of the student.
func BuildEventFilter(studentID core.StudentIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.FineIssuedEventType,
			core.FinePaidEventType,
			core.FineWaivedEventType,
		).
		AndAnyPredicateOf(eventstore.P("StudentID", studentID)).
		Finalize()
}
