package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	occurredAt := time.Unix(0, 0).UTC()
	validPayloadJSON := []byte(`{"BookID": "b-1"}`)
	validMetadataJSON := []byte(`{"MessageID": "m-1"}`)

	testCases := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{"invalid payload JSON", []byte(`{"BookID": b-1}`), validMetadataJSON, eventstore.ErrInvalidPayloadJSON},
		{"empty payload JSON", []byte(``), validMetadataJSON, eventstore.ErrInvalidPayloadJSON},
		{"invalid metadata JSON", validPayloadJSON, []byte(`{"MessageID":`), eventstore.ErrInvalidMetadataJSON},
		{"empty metadata JSON", validPayloadJSON, []byte(``), eventstore.ErrInvalidMetadataJSON},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			event, err := eventstore.BuildStorableEvent("BookCopyReturned", occurredAt, tc.payloadJSON, tc.metadataJSON)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, eventstore.StorableEvent{}, event)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	// arrange
	occurredAt := time.Unix(0, 0).UTC()
	payloadJSON := []byte(`{"BookID": "b-1"}`)
	metadataJSON := []byte(`{"MessageID": "m-1"}`)

	// act
	event, err := eventstore.BuildStorableEvent("BookCopyReturned", occurredAt, payloadJSON, metadataJSON)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "BookCopyReturned", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.Equal(t, payloadJSON, event.PayloadJSON)
	assert.Equal(t, metadataJSON, event.MetadataJSON)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("FinePaid", time.Unix(0, 0).UTC(), []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}

func Test_GetConsistencyLevel(t *testing.T) {
	ctx := t.Context()

	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(ctx))
	assert.Equal(t, eventstore.EventualConsistency, eventstore.GetConsistencyLevel(eventstore.WithEventualConsistency(ctx)))
	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(eventstore.WithStrongConsistency(ctx)))
	assert.Equal(t, "eventual", eventstore.EventualConsistency.String())
}
