package settlefine

import (
	"strings"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// Decide implements the business logic of settling a fine.
//
// Business Rules:
//
//	GIVEN: an UNPAID fine
//	WHEN: SettleFine with Pay is received
//	THEN: FinePaid over the full amount
//	WHEN: SettleFine with Waive is received
//	THEN: FineWaived
//	ERROR: FORBIDDEN if the actor is not staff
//	ERROR: NOT_FOUND if the fine does not exist
//	ERROR: INVALID_STATUS if the fine is already PAID or WAIVED
//	ERROR: VALIDATION_ERROR if a waiver has no reason
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if !command.Actor.IsStaff() {
		return core.ErrorDecision(core.ErrStaffOnly("settle fines"))
	}

	fine, ok := core.ProjectLedger(history).Fine(command.FineID)
	if !ok {
		return core.ErrorDecision(core.ErrFineNotFoundFor(command.FineID))
	}

	if fine.Status != core.FineStatusUnpaid {
		return core.ErrorDecision(core.ErrInvalidStatusFor(command.Settlement.settlementKind(), "fine", string(fine.Status)))
	}

	switch settlement := command.Settlement.(type) {
	case Pay:
		return core.SuccessDecision(
			core.BuildFinePaid(fine.FineID, fine.TransactionID, fine.StudentID, fine.Amount, command.Actor.UserID, command.OccurredAt),
		)
	case Waive:
		if strings.TrimSpace(settlement.Reason) == "" {
			return core.ErrorDecision(core.ErrValidationf("A reason is required to waive a fine"))
		}

		return core.SuccessDecision(
			core.BuildFineWaived(fine.FineID, fine.TransactionID, fine.StudentID, settlement.Reason, command.Actor.UserID, command.OccurredAt),
		)
	default:
		return core.ErrorDecision(core.ErrValidationf("Unknown settlement of a fine"))
	}
}

// BuildEventFilter selects the lifecycle events of the fine.
func BuildEventFilter(fineID core.FineIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.FineIssuedEventType, core.FinePaidEventType, core.FineWaivedEventType).
		AndAnyPredicateOf(eventstore.P("FineID", fineID)).
		Finalize()
}
