package settlefine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/createborrowrequest"
	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/settlefine"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

type auditRecorder struct {
	entries []audit.Entry
}

func (r *auditRecorder) Record(_ context.Context, entry audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func Test_CommandHandler_Handle_PaidFineNoLongerBlocksBorrowing(t *testing.T) {
	// arrange
	ctx := context.Background()
	es := GivenEventStore()
	GivenEventsWereAppended(t, es,
		FixtureBookAdded("book-2", 1, FakeClock.Add(-48*time.Hour)),
		FixtureStudentRegistered(studentID, 3, FakeClock.Add(-47*time.Hour)),
	)
	GivenEventsWereAppended(t, es, givenUnpaidFine()...)

	borrow := createborrowrequest.NewCommandHandler(es, shell.StaticPolicy(core.DefaultPolicy()))
	_, err := borrow.Handle(ctx, createborrowrequest.BuildCommand(core.StudentActor(studentID), "tx-2", studentID, "book-2", "", 7, "", FakeClock))
	require.ErrorIs(t, err, core.ErrHasUnpaidFines)

	recorder := &auditRecorder{}
	handler := settlefine.NewCommandHandler(es, settlefine.WithAuditSink(recorder, nil))

	// act
	result, err := handler.Handle(ctx, settlefine.BuildPayCommand(core.StaffActor(StaffID), fineID, FakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.FineStatusPaid, result.Fine.Status)
	assert.Equal(t, FakeClock, result.Fine.PaidAt)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionFinePaid, recorder.entries[0].Action)

	_, err = borrow.Handle(ctx, createborrowrequest.BuildCommand(core.StudentActor(studentID), "tx-2", studentID, "book-2", "", 7, "", FakeClock.Add(time.Minute)))
	assert.NoError(t, err)
}

func Test_CommandHandler_Handle_MissingSettlement(t *testing.T) {
	// arrange
	handler := settlefine.NewCommandHandler(GivenEventStore())

	// act
	_, err := handler.Handle(context.Background(), settlefine.Command{Actor: core.StaffActor(StaffID), FineID: fineID, OccurredAt: FakeClock})

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
