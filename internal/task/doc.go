// Package task implements the in-process asynchronous task subsystem: an
// in-memory registry tracking the lifecycle and progress of long-running
// operations, and a job queue plus dispatcher that run those operations
// independently of the originating HTTP request.
//
// Tasks live only in process memory. They do not survive a restart, cannot
// be cancelled once scheduled, and are never deleted by this package.
package task
