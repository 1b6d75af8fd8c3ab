package returntransaction_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/returntransaction"
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

// Scenario C: a copy returned 3 days late in good condition.
func Test_CommandHandler_Handle_OverdueGoodReturn(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenLoanDueAt(FakeClock.Add(-3*day))...)

	recorder := &auditRecorder{}
	handler := returntransaction.NewCommandHandler(
		es,
		policy.NewStore(policy.NewStaticProvider(map[string]string{core.SettingFinePerDay: "2.50"})),
		returntransaction.WithAuditSink(recorder, nil),
	)

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.ReturnGood))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.TransactionStatusReturned, result.Transaction.Status)
	assert.Equal(t, FakeClock, result.Transaction.ReturnedAt)

	require.NotNil(t, result.Fine)
	assert.Equal(t, "7.50", result.Fine.Amount.StringFixed(2))
	assert.Equal(t, core.FineStatusUnpaid, result.Fine.Status)

	ledger := ProjectStore(t, es)
	book, _ := ledger.Book(bookID)
	assert.Equal(t, 1, book.AvailableQuantity)
	assert.Equal(t, core.BookStatusAvailable, book.Status)

	fine, ok := ledger.FineForTransaction(transactionID)
	require.True(t, ok)
	assert.Equal(t, result.Fine.FineID, fine.FineID)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionBookCopyReturned, recorder.entries[0].Action)
	assert.Contains(t, recorder.entries[0].Description, "issued a fine of 7.50")
}

// Scenario D: a lost copy does not come back into circulation.
func Test_CommandHandler_Handle_LostReturn(t *testing.T) {
	testCases := []struct {
		name         string
		dueDate      func() core.DomainEvents
		expectedFine bool
	}{
		{name: "on time", dueDate: func() core.DomainEvents { return givenLoanDueAt(FakeClock.Add(day)) }},
		{name: "overdue", dueDate: func() core.DomainEvents { return givenLoanDueAt(FakeClock.Add(-day)) }, expectedFine: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			es := GivenEventStore()
			GivenEventsWereAppended(t, es, tc.dueDate()...)
			handler := returntransaction.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

			result, err := handler.Handle(context.Background(), givenCommand(core.ReturnLost))

			require.NoError(t, err)
			assert.Equal(t, core.TransactionStatusReturned, result.Transaction.Status)
			assert.Equal(t, core.ReturnLost, result.Transaction.Condition)
			assert.Equal(t, tc.expectedFine, result.Fine != nil)

			book, _ := ProjectStore(t, es).Book(bookID)
			assert.Equal(t, 0, book.AvailableQuantity)
			assert.Equal(t, core.BookStatusLost, book.Status)
			require.Len(t, book.History, 1)
			assert.Equal(t, core.ReturnLost, book.History[0].Condition)
		})
	}
}

func Test_CommandHandler_Handle_SecondReturnFails(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenLoanDueAt(FakeClock.Add(-3*day))...)
	handler := returntransaction.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	_, err := handler.Handle(context.Background(), givenCommand(core.ReturnGood))
	require.NoError(t, err)
	eventsBefore := CountEvents(t, es)

	// act
	_, err = handler.Handle(context.Background(), givenCommand(core.ReturnGood))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
	assert.Equal(t, eventsBefore, CountEvents(t, es))

	book, _ := ProjectStore(t, es).Book(bookID)
	assert.Equal(t, 1, book.AvailableQuantity, "available must never exceed total")
	assert.Len(t, ProjectStore(t, es).FinesOfStudent(studentID), 1)
}

func Test_CommandHandler_Handle_InvalidCondition(t *testing.T) {
	// arrange
	es := GivenEventStore()
	handler := returntransaction.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	// act
	_, err := handler.Handle(context.Background(), givenCommand("SOGGY"))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, 0, CountEvents(t, es))
}
