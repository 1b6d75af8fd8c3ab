package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.BookCopyAddedToCirculationEventType:
		return unmarshalInto[core.BookCopyAddedToCirculation](payload)

	case core.BookCopyStatusOverriddenEventType:
		return unmarshalInto[core.BookCopyStatusOverridden](payload)

	case core.BookHistoryNotedEventType:
		return unmarshalInto[core.BookHistoryNoted](payload)

	case core.StudentRegisteredEventType:
		return unmarshalInto[core.StudentRegistered](payload)

	case core.StudentAccountStatusChangedEventType:
		return unmarshalInto[core.StudentAccountStatusChanged](payload)

	case core.BorrowRequestCreatedEventType:
		return unmarshalInto[core.BorrowRequestCreated](payload)

	case core.BorrowRequestApprovedEventType:
		return unmarshalInto[core.BorrowRequestApproved](payload)

	case core.BorrowRequestRejectedEventType:
		return unmarshalInto[core.BorrowRequestRejected](payload)

	case core.LoanRenewedEventType:
		return unmarshalInto[core.LoanRenewed](payload)

	case core.BookCopyReturnedEventType:
		return unmarshalInto[core.BookCopyReturned](payload)

	case core.FineIssuedEventType:
		return unmarshalInto[core.FineIssued](payload)

	case core.FinePaidEventType:
		return unmarshalInto[core.FinePaid](payload)

	case core.FineWaivedEventType:
		return unmarshalInto[core.FineWaived](payload)

	case core.BookReservedEventType:
		return unmarshalInto[core.BookReserved](payload)

	case core.ReservationCancelledEventType:
		return unmarshalInto[core.ReservationCancelled](payload)

	case core.ReservationFulfilledEventType:
		return unmarshalInto[core.ReservationFulfilled](payload)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

// unmarshalInto decodes the payload into the value type E. Events are values, so the
// decoded struct is returned by value, never as a pointer.
func unmarshalInto[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var payload E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return payload, nil
}
