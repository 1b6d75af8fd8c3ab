package createborrowrequest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/createborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/policy"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/library-circulation-go/testutil/spies"
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
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)

	recorder := &auditRecorder{}
	handler := createborrowrequest.NewCommandHandler(
		es,
		shell.StaticPolicy(core.DefaultPolicy()),
		createborrowrequest.WithAuditSink(recorder, nil),
	)

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID), 14))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, core.TransactionStatusPending, result.Transaction.Status)
	assert.Equal(t, FakeClock.Add(14*24*time.Hour), result.Transaction.DueDate)
	assert.Equal(t, FakeClock, result.Transaction.BorrowedAt)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionBorrowRequestCreated, recorder.entries[0].Action)
	assert.Equal(t, transactionID, recorder.entries[0].TransactionID)

	book, _ := ProjectStore(t, es).Book(bookID)
	assert.Equal(t, 1, book.AvailableQuantity, "a request must not touch the inventory")
}

func Test_CommandHandler_Handle_ResolvesBarcode(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	handler := createborrowrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	command := createborrowrequest.BuildCommand(core.StudentActor(studentID), transactionID, studentID, "", BarcodeOf(bookID), 7, "", FakeClock)

	// act
	result, err := handler.Handle(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, bookID, result.Transaction.BookID)
	assert.Equal(t, 7, result.Transaction.RequestedDays)
}

func Test_CommandHandler_Handle_UnknownBarcode(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	handler := createborrowrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	command := createborrowrequest.BuildCommand(core.StudentActor(studentID), transactionID, studentID, "", "bc-unknown", 7, "", FakeClock)

	// act
	_, err := handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotFound)
	assert.Equal(t, 2, CountEvents(t, es))
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	handler := createborrowrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	_, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID), 14))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID), 14))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, transactionID, result.Transaction.TransactionID)
	assert.Equal(t, 3, CountEvents(t, es))
}

func Test_CommandHandler_Handle_ValidationErrors(t *testing.T) {
	es := GivenEventStore()
	handler := createborrowrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	testCases := []struct {
		name          string
		requestedDays int
		bookID        string
		barcode       string
	}{
		{name: "negative days", requestedDays: -1, bookID: bookID},
		{name: "more than 90 days", requestedDays: 91, bookID: bookID},
		{name: "neither book ID nor barcode", requestedDays: 14},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			command := createborrowrequest.BuildCommand(
				core.StudentActor(studentID), transactionID, studentID, tc.bookID, tc.barcode, tc.requestedDays, "", FakeClock,
			)

			result, err := handler.Handle(context.Background(), command)

			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Equal(t, "business_error", result.LastErrorType)
			assert.Equal(t, 0, CountEvents(t, es))
		})
	}
}

// Scenario E: a 4th request beyond a borrowing limit of 3 fails and appends nothing.
func Test_CommandHandler_Handle_BorrowingLimitExceeded(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	for i, id := range []string{"b-2", "b-3", "b-4"} {
		GivenEventsWereAppended(t, es,
			FixtureBookAdded(id, 1, FakeClock.Add(-40*time.Hour)),
			FixtureRequested("open-"+id, id, studentID, 14, FakeClock.Add(-time.Duration(10-i)*time.Hour)),
		)
	}

	eventsBefore := CountEvents(t, es)
	handler := createborrowrequest.NewCommandHandler(es, policy.NewStore(policy.NewStaticProvider(nil)))

	// act
	_, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID), 14))

	// assert
	assert.ErrorIs(t, err, core.ErrBorrowingLimitExceeded)
	assert.ErrorContains(t, err, "You have reached your borrowing limit (3 books)")
	assert.Equal(t, eventsBefore, CountEvents(t, es))
}

func Test_CommandHandler_Handle_AuditFailureDoesNotFailTheCommand(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	logger := spies.NewContextualLoggerSpy()

	handler := createborrowrequest.NewCommandHandler(
		es,
		shell.StaticPolicy(core.DefaultPolicy()),
		createborrowrequest.WithAuditSink(audit.MultiSink{failingAuditSink{}}, logger),
	)

	// act
	_, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID), 14))

	// assert
	require.NoError(t, err)
	assert.True(t, logger.HasErrorLog("audit sink failed"))
}

type failingAuditSink struct{}

func (failingAuditSink) Record(context.Context, audit.Entry) error {
	return assert.AnError
}
