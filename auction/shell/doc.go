// Package shell contains the imperative shell shared by the auction features:
// mapping between domain events and storable events, event metadata, retry with exponential backoff,
// value transfers as append side effects, the clock, and observability helpers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' or 'adapter' layer.
package shell
