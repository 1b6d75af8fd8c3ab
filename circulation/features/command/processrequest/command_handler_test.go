package processrequest_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/createborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/processrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

type auditRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *auditRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)

	return nil
}

// Scenario A: request then approve hands out the only copy.
func Test_CommandHandler_Handle_RequestThenApprove(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := GivenEventStore()
	GivenEventsWereAppended(t, es,
		FixtureBookAdded(bookID, 1, FakeClock.Add(-48*time.Hour)),
		FixtureStudentRegistered(studentID, 3, FakeClock.Add(-47*time.Hour)),
	)
	policies := shell.StaticPolicy(core.DefaultPolicy())
	recorder := &auditRecorder{}

	created, err := createborrowrequest.NewCommandHandler(es, policies).Handle(ctx,
		createborrowrequest.BuildCommand(core.StudentActor(studentID), transactionID, studentID, bookID, "", 14, "", FakeClock))
	require.NoError(t, err)
	require.Equal(t, core.TransactionStatusPending, created.Transaction.Status)

	approvedAt := FakeClock.Add(time.Hour)
	handler := processrequest.NewCommandHandler(es, policies, processrequest.WithAuditSink(recorder, nil))

	// act
	result, err := handler.Handle(ctx, processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", approvedAt))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.TransactionStatusActive, result.Transaction.Status)
	assert.Equal(t, approvedAt.Add(14*24*time.Hour), result.Transaction.DueDate)
	assert.Equal(t, approvedAt, result.Transaction.ApprovedAt)

	book, _ := ProjectStore(t, es).Book(bookID)
	assert.Equal(t, 0, book.AvailableQuantity)
	assert.Equal(t, core.BookStatusBorrowed, book.Status)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionBorrowRequestApproved, recorder.entries[0].Action)
	assert.Equal(t, StaffID, recorder.entries[0].ActorID)
}

// Scenario B: rejecting an already approved transaction fails and appends nothing.
func Test_CommandHandler_Handle_RejectAfterApprove(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenPendingRequest(1)...)
	handler := processrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	_, err := handler.Handle(ctx, processrequest.BuildApproveCommand(core.StaffActor(StaffID), transactionID, "", FakeClock))
	require.NoError(t, err)
	eventsBefore := CountEvents(t, es)

	// act
	_, err = handler.Handle(ctx, processrequest.BuildRejectCommand(core.StaffActor(StaffID), transactionID, "too late", "", FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
	assert.ErrorContains(t, err, "Cannot reject: the transaction is ACTIVE")
	assert.Equal(t, eventsBefore, CountEvents(t, es))
}

func Test_CommandHandler_Handle_Reject(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenPendingRequest(1)...)
	recorder := &auditRecorder{}
	handler := processrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()), processrequest.WithAuditSink(recorder, nil))

	// act
	result, err := handler.Handle(context.Background(),
		processrequest.BuildRejectCommand(core.StaffActor(StaffID), transactionID, "reference copy only", "", FakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.TransactionStatusRejected, result.Transaction.Status)
	assert.Equal(t, "reference copy only", result.Transaction.RejectionReason)

	book, _ := ProjectStore(t, es).Book(bookID)
	assert.Equal(t, 1, book.AvailableQuantity, "a rejection must not touch the inventory")

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionBorrowRequestRejected, recorder.entries[0].Action)
}

func Test_CommandHandler_Handle_UnknownTransaction(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenPendingRequest(1)...)
	handler := processrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	// act
	_, err := handler.Handle(context.Background(),
		processrequest.BuildApproveCommand(core.StaffActor(StaffID), "tx-unknown", "", FakeClock))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 3, CountEvents(t, es))
}

func Test_CommandHandler_Handle_MissingDecision(t *testing.T) {
	// arrange
	es := GivenEventStore()
	handler := processrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))

	// act
	_, err := handler.Handle(context.Background(), processrequest.Command{
		Actor:         core.StaffActor(StaffID),
		TransactionID: transactionID,
		OccurredAt:    FakeClock,
	})

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}

// Concurrent approvals of different requests for the last copy: exactly one wins.
func Test_CommandHandler_Handle_ConcurrentApprovalsForTheLastCopy(t *testing.T) {
	// arrange
	const contenders = 8

	es := GivenEventStore()
	GivenEventsWereAppended(t, es, FixtureBookAdded(bookID, 1, FakeClock.Add(-48*time.Hour)))

	for i := range contenders {
		student := fmt.Sprintf("student-%d", i)
		GivenEventsWereAppended(t, es,
			FixtureStudentRegistered(student, 3, FakeClock.Add(-47*time.Hour)),
			FixtureRequested(fmt.Sprintf("tx-%d", i), bookID, student, 14, FakeClock.Add(-time.Duration(contenders-i)*time.Minute)),
		)
	}

	handler := processrequest.NewCommandHandler(
		es,
		shell.StaticPolicy(core.DefaultPolicy()),
		processrequest.WithRetryOptions(shell.WithMaxAttempts(contenders+1), shell.WithBaseDelay(time.Millisecond)),
	)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)

	// act
	for i := range contenders {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := handler.Handle(context.Background(),
				processrequest.BuildApproveCommand(core.StaffActor(StaffID), fmt.Sprintf("tx-%d", i), "", FakeClock))

			mu.Lock()
			defer mu.Unlock()

			if err == nil {
				successes++
				return
			}

			failures = append(failures, err)
		}(i)
	}

	wg.Wait()

	// assert
	assert.Equal(t, 1, successes)
	require.Len(t, failures, contenders-1)

	for _, err := range failures {
		assert.ErrorIs(t, err, core.ErrBookNotAvailable)
	}

	book, _ := ProjectStore(t, es).Book(bookID)
	assert.Equal(t, 0, book.AvailableQuantity)
}
