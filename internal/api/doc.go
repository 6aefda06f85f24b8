// Package api implements the HTTP handlers for the collections catalog and
// the task polling endpoint, including request validation, response
// serialization, and the mapping of internal errors to HTTP status codes.
package api
