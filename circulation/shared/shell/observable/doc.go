// Package observable provides wrappers that instrument command and query handlers with
// metrics, tracing and logging while the handlers themselves stay free of observability code.
//
// Wrapping happens explicitly at wiring time:
//
//	coreHandler := processrequest.NewCommandHandler(eventStore, policyProvider)
//
//	handler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithCommandMetrics[processrequest.Command, processrequest.Result](metricsCollector),
//		observable.WithCommandTracing[processrequest.Command, processrequest.Result](tracingCollector),
//		observable.WithCommandContextualLogging[processrequest.Command, processrequest.Result](logger),
//	)
//
//	result, err := handler.Handle(ctx, command)
//
// Outcomes are classified as success, idempotent, business_error, canceled, timeout,
// concurrency_conflict or error. Business errors are expected outcomes: they are counted per
// error kind and logged at info level.
package observable
