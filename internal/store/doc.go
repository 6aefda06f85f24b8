// Package store defines the persistence contracts used by the rest of the
// application. It contains the store interfaces, the shared sentinel errors
// returned by their implementations, and helpers for running operations
// inside a database transaction.
package store
