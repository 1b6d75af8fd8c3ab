package studentfines_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/query/studentfines"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

const day = 24 * time.Hour

func Test_QueryHandler_Handle_ListsFinesAndTheUnpaidTotal(t *testing.T) {
	// arrange
	studentID := "student-1"
	es := GivenEventStore()
	GivenEventsWereAppended(
		t,
		es,
		FixtureFineIssued("tx-1", "book-1", studentID, "10.00", 2, FakeClock.Add(-20*day)),
		FixtureFineIssued("tx-2", "book-2", studentID, "2.50", 1, FakeClock.Add(-10*day)),
		FixtureFineIssued("tx-3", "book-3", studentID, "7.50", 3, FakeClock.Add(-5*day)),
		FixtureFineIssued("tx-4", "book-3", "student-2", "99.00", 20, FakeClock.Add(-5*day)),
		FixtureFinePaid("tx-1", studentID, "10.00", FakeClock.Add(-15*day)),
		core.BuildFineWaived(core.FineIDFor("tx-2"), "tx-2", studentID, "first offence", StaffID, FakeClock.Add(-9*day)),
	)

	handler := studentfines.NewQueryHandler(es)

	// act
	result, err := handler.Handle(context.Background(), studentfines.BuildQuery(studentID))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Fines, 3)

	assert.Equal(t, core.FineStatusPaid, result.Fines[0].Status)
	assert.Equal(t, FakeClock.Add(-15*day), result.Fines[0].SettledAt)

	assert.Equal(t, core.FineStatusWaived, result.Fines[1].Status)
	assert.Equal(t, "first offence", result.Fines[1].WaiverReason)

	assert.Equal(t, core.FineStatusUnpaid, result.Fines[2].Status)
	assert.True(t, result.Fines[2].SettledAt.IsZero())
	assert.Equal(t, "Returned 3 days late", result.Fines[2].Reason)

	assert.Equal(t, 1, result.UnpaidCount)
	assert.Equal(t, "7.50", result.UnpaidTotal.StringFixed(2))
}

func Test_QueryHandler_Handle_NoFines(t *testing.T) {
	// arrange
	es := GivenEventStore()
	handler := studentfines.NewQueryHandler(es)

	// act
	result, err := handler.Handle(context.Background(), studentfines.BuildQuery("student-1"))

	// assert
	require.NoError(t, err)
	assert.Empty(t, result.Fines)
	assert.Equal(t, 0, result.UnpaidCount)
	assert.True(t, result.UnpaidTotal.IsZero())
}
