// Package db is the client surface of sqlbridge: per-driver connect entry
// points over one pooled handle, tag-driven row decoding, and classified
// errors.
//
// Every operation takes a context.Context and blocks until the underlying
// I/O completes; callers that want concurrency run operations in their own
// goroutines. Operations on the same checked-out connection execute in
// issue order; operations on different pool connections carry no ordering
// guarantee relative to each other.
package db
