package placereservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/features/command/placereservation"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/policy"
	. "github.com/AntonStoeckl/library-circulation-go/testutil/helper" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	handler := placereservation.NewCommandHandler(es, policy.NewStore(policy.NewStaticProvider(map[string]string{
		core.SettingReservationExpiryDays: "2",
	})))

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID)))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.ReservationStatusPending, result.Reservation.Status)
	assert.Equal(t, FakeClock.Add(2*24*time.Hour), result.Reservation.ExpiresAt)

	queue := ProjectStore(t, es).PendingReservations(bookID, FakeClock)
	require.Len(t, queue, 1)
	assert.Equal(t, reservationID, queue[0].ReservationID)
}

func Test_CommandHandler_Handle_Idempotent(t *testing.T) {
	// arrange
	es := GivenEventStore()
	GivenEventsWereAppended(t, es, givenBookAndStudent()...)
	handler := placereservation.NewCommandHandler(es, policy.NewStore(policy.NewStaticProvider(nil)))

	_, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID)))
	require.NoError(t, err)

	// act
	result, err := handler.Handle(context.Background(), givenCommand(core.StudentActor(studentID)))

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, 3, CountEvents(t, es))
}
