// Package shell provides the imperative shell around the circulation core:
// conversion between domain events and storable events, event metadata, retry with exponential
// backoff, command validation and the shared observability helpers.
//
// Subpackages provide the policy store, the audit sink, configuration, a Prometheus metrics adapter
// and the observable handler wrappers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
