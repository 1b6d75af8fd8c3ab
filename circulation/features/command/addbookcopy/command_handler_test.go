package addbookcopy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/addbookcopy"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
	"github.com/AntonStoeckl/library-circulation-go/testutil/spies"
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	es := GivenEventStore()
	logger := spies.NewContextualLoggerSpy()
	handler := addbookcopy.NewCommandHandler(es, addbookcopy.WithAuditSink(audit.NewSlogSink(logger), nil))

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.StaffActor(StaffID), bookID, "bc-1", 2))

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.Equal(t, 2, result.Book.TotalQuantity)
	assert.Equal(t, 2, result.Book.AvailableQuantity)
	assert.Equal(t, core.BookStatusAvailable, result.Book.Status)
	assert.True(t, logger.HasInfoLog("audit: Added 2 copies of \"The Linux Command Line\" (book book-1, barcode bc-1)"))
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// arrange
	es := GivenEventStore()
	handler := addbookcopy.NewCommandHandler(es)

	_, err := handler.Handle(context.Background(), givenCommand(core.StaffActor(StaffID), bookID, "bc-1", 2))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.StaffActor(StaffID), bookID, "bc-1", 2))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 2, result.Book.TotalQuantity)
	assert.Equal(t, 1, CountEvents(t, es))
}

func Test_CommandHandler_Handle_ValidationErrors(t *testing.T) {
	es := GivenEventStore()
	handler := addbookcopy.NewCommandHandler(es)

	testCases := []struct {
		name    string
		command addbookcopy.Command
	}{
		{name: "zero copies", command: givenCommand(core.StaffActor(StaffID), bookID, "bc-1", 0)},
		{name: "missing barcode", command: givenCommand(core.StaffActor(StaffID), bookID, "", 1)},
		{name: "missing book ID", command: givenCommand(core.StaffActor(StaffID), "", "bc-1", 1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tc.command)

			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Equal(t, 0, CountEvents(t, es))
		})
	}
}
