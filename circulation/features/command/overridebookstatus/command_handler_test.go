package overridebookstatus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/overridebookstatus"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_MaintenanceBlocksBorrowing(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBook()...)
	handler := overridebookstatus.NewCommandHandler(es)

	// act
	result, err := handler.Handle(context.Background(),
		overridebookstatus.BuildCommand(core.StaffActor(StaffID), bookID, core.BookStatusMaintenance, "rebinding", FakeClock))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BookStatusMaintenance, result.Book.Status)
	assert.Equal(t, 2, result.Book.AvailableQuantity, "an override never touches the counters")
	assert.False(t, result.Book.CanBeBorrowed())
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBook()...)
	handler := overridebookstatus.NewCommandHandler(es)

	// act
	result, err := handler.Handle(context.Background(),
		overridebookstatus.BuildCommand(core.StaffActor(StaffID), bookID, core.BookStatusAvailable, "inventory check", FakeClock))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 1, CountEvents(t, es))
}

func Test_CommandHandler_Handle_ValidationErrors(t *testing.T) {
	es := GivenEventStore()
	handler := overridebookstatus.NewCommandHandler(es)

	testCases := []struct {
		name   string
		status core.BookStatus
		reason string
	}{
		{name: "unknown status", status: "MISSING", reason: "stocktaking"},
		{name: "missing reason", status: core.BookStatusLost},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(),
				overridebookstatus.BuildCommand(core.StaffActor(StaffID), bookID, tc.status, tc.reason, FakeClock))

			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}
