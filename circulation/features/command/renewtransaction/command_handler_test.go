package renewtransaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/renewtransaction"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/policy"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

type auditRecorder struct {
	entries []audit.Entry
}

func (r *auditRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, FixtureBookAdded(bookID, 1, FakeClock.Add(-30*24*time.Hour)))
	GivenEventsWereAppended(t, es, givenActiveLoan()...)

	recorder := &auditRecorder{}
	handler := renewtransaction.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()), renewtransaction.WithAuditSink(recorder, nil))

	// act
	result, err := handler.Handle(context.Background(), renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.TransactionStatusActive, result.Transaction.Status)
	assert.Equal(t, 1, result.Transaction.RenewalCount)
	assert.Equal(t, approvedAt.Add(21*24*time.Hour), result.Transaction.DueDate)

	book, _ := ProjectStore(t, es).Book(bookID)
	assert.Equal(t, 0, book.AvailableQuantity, "a renewal must not touch the inventory")

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionLoanRenewed, recorder.entries[0].Action)
}

// Scenario F: a loan renewed twice cannot be renewed again under MAX_RENEWALS=2.
func Test_CommandHandler_Handle_MaxRenewalsReached(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenActiveLoan()...)

	handler := renewtransaction.NewCommandHandler(es, policy.NewStore(policy.NewStaticProvider(map[string]string{
		core.SettingMaxRenewals: "2",
	})))

	ctx := context.Background()
	for range 2 {
		_, err := handler.Handle(ctx, renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock))
		require.NoError(t, err)
	}

	eventsBefore := CountEvents(t, es)

	// act
	_, err := handler.Handle(ctx, renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrMaxRenewalsReached)
	assert.ErrorContains(t, err, "(2)")
	assert.Equal(t, eventsBefore, CountEvents(t, es))
}

func Test_CommandHandler_Handle_PolicyChangeAppliesToTheNextRenewal(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenActiveLoan()...)

	provider := policy.NewStaticProvider(map[string]string{core.SettingMaxRenewals: "2"})
	handler := renewtransaction.NewCommandHandler(es, policy.NewStore(provider))

	ctx := context.Background()
	_, err := handler.Handle(ctx, renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock))
	require.NoError(t, err)

	provider.Set(core.SettingMaxRenewals, "1")

	// act
	_, err = handler.Handle(ctx, renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrMaxRenewalsReached)
}

func Test_CommandHandler_Handle_BlockedByReservation(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenActiveLoan()...)
	GivenEventsWereAppended(t, es, FixtureReserved("res-1", bookID, otherStudent, 7, FakeClock.Add(-time.Hour)))
	eventsBefore := CountEvents(t, es)

	handler := renewtransaction.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	// act
	_, err := handler.Handle(context.Background(), renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 7, "", FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrBookReserved)
	assert.Equal(t, eventsBefore, CountEvents(t, es))
}

func Test_CommandHandler_Handle_ValidationError(t *testing.T) {
	// arrange
	es := GivenEventStore()
	handler := renewtransaction.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	// act
	_, err := handler.Handle(context.Background(), renewtransaction.BuildCommand(core.StudentActor(studentID), transactionID, 120, "", FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
