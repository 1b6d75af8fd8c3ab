package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/testutil/spies"
)

type mockCommand struct{}

func (c mockCommand) CommandType() string {
	return "TestCommand"
}

type mockResult struct {
	shell.HandlerResult
	Payload string
}

type mockCoreHandler struct {
	result mockResult
	err    error
	calls  int
}

func (h *mockCoreHandler) Handle(_ context.Context, _ mockCommand) (mockResult, error) {
	h.calls++

	return h.result, h.err
}

func givenWrappedHandler(
	t *testing.T,
	result mockResult,
	err error,
) (*observable.CommandWrapper[mockCommand, mockResult], *mockCoreHandler, *spies.MetricsCollectorSpy, *spies.TracingCollectorSpy, *spies.ContextualLoggerSpy) {

	t.Helper()

	handler := &mockCoreHandler{result: result, err: err}
	metricsCollector := spies.NewMetricsCollectorSpy()
	tracingCollector := spies.NewTracingCollectorSpy()
	contextualLogger := spies.NewContextualLoggerSpy()

	wrapper, wrapErr := observable.NewCommandWrapper[mockCommand, mockResult](
		handler,
		observable.WithCommandMetrics[mockCommand, mockResult](metricsCollector),
		observable.WithCommandTracing[mockCommand, mockResult](tracingCollector),
		observable.WithCommandContextualLogging[mockCommand, mockResult](contextualLogger),
	)
	require.NoError(t, wrapErr)

	return wrapper, handler, metricsCollector, tracingCollector, contextualLogger
}

func Test_CommandWrapper_Handle_Success_NonIdempotent(t *testing.T) {
	// arrange
	expected := mockResult{HandlerResult: shell.HandlerResult{RetryAttempts: 1, LastErrorType: "none"}, Payload: "tx-1"}
	wrapper, handler, metricsCollector, tracingCollector, logger := givenWrappedHandler(t, expected, nil)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, expected, result, "result must be passed through unchanged")
	assert.Equal(t, 1, handler.calls)

	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel("command_type", "TestCommand").
		WithStatus("success").
		Assert())
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithStatus("success").
		Assert())
	assert.True(t, tracingCollector.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusSuccess))
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandStarted))
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_Success_Idempotent(t *testing.T) {
	// arrange
	expected := mockResult{HandlerResult: shell.HandlerResult{Idempotent: true, RetryAttempts: 1}}
	wrapper, _, metricsCollector, tracingCollector, _ := givenWrappedHandler(t, expected, nil)

	// act
	_, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerIdempotentMetric).
		WithLabel("command_type", "TestCommand").
		Assert())
	assert.True(t, tracingCollector.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusIdempotent))
}

func Test_CommandWrapper_Handle_BusinessError(t *testing.T) {
	// arrange
	businessErr := core.ErrBookNotAvailableNow()
	wrapper, _, metricsCollector, tracingCollector, logger := givenWrappedHandler(t, mockResult{}, businessErr)

	// act
	_, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrBookNotAvailable)
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerBusinessErrorMetric).
		WithLabel("error_kind", "BOOK_NOT_AVAILABLE").
		Assert())
	assert.True(t, tracingCollector.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusBusinessError))
	assert.True(t, logger.HasInfoLog(shell.LogMsgCommandRejected), "business errors are expected outcomes")
	assert.False(t, logger.HasErrorLog(shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_ErrorClassification(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus string
		expectedMetric string
	}{
		{
			name:           "storage error",
			err:            errors.Join(eventstore.ErrAppendingEventFailed, errors.New("connection reset")),
			expectedStatus: shell.StatusError,
		},
		{
			name:           "canceled",
			err:            context.Canceled,
			expectedStatus: shell.StatusCanceled,
			expectedMetric: shell.CommandHandlerCanceledMetric,
		},
		{
			name:           "timeout",
			err:            context.DeadlineExceeded,
			expectedStatus: shell.StatusTimeout,
			expectedMetric: shell.CommandHandlerTimeoutMetric,
		},
		{
			name:           "concurrency conflict",
			err:            eventstore.ErrConcurrencyConflict,
			expectedStatus: shell.StatusConcurrencyConflict,
			expectedMetric: shell.CommandHandlerConcurrencyConflictMetric,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			wrapper, _, metricsCollector, tracingCollector, logger := givenWrappedHandler(t, mockResult{}, tc.err)

			// act
			_, err := wrapper.Handle(context.Background(), mockCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
				WithStatus(tc.expectedStatus).
				Assert())
			if tc.expectedMetric != "" {
				assert.Equal(t, 1, metricsCollector.CountCounterRecordsForMetric(tc.expectedMetric))
			}
			assert.True(t, tracingCollector.HasFinishedSpan(shell.SpanNameCommandHandle, tc.expectedStatus))
			assert.True(t, logger.HasErrorLog(shell.LogMsgCommandFailed))
		})
	}
}

func Test_CommandWrapper_Handle_RecordsRetryMetadata(t *testing.T) {
	// arrange
	expected := mockResult{HandlerResult: shell.HandlerResult{
		RetryAttempts:    6,
		LastErrorType:    "concurrency_conflict",
		RetriesExhausted: true,
	}}
	wrapper, _, metricsCollector, _, _ := givenWrappedHandler(t, expected, eventstore.ErrConcurrencyConflict)

	// act
	_, _ = wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.True(t, metricsCollector.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel("attempt_number", "5").
		WithLabel("error_type", "concurrency_conflict").
		Assert())
	assert.True(t, metricsCollector.HasDurationRecordForMetric(shell.CommandHandlerRetryDelayMetric).
		WithLabel("command_type", "TestCommand").
		Assert())
	assert.Equal(t, 1, metricsCollector.CountCounterRecordsForMetric(shell.CommandHandlerMaxRetriesReachedMetric))
}

func Test_CommandWrapper_Handle_WithoutOptions(t *testing.T) {
	// arrange
	handler := &mockCoreHandler{result: mockResult{Payload: "ok"}}
	wrapper, err := observable.NewCommandWrapper[mockCommand, mockResult](handler)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "ok", result.Payload)
}
