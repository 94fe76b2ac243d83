// Package storage defines the key-value persistence boundary for
// loginguard and ships a Redis-backed implementation for production and
// an in-memory implementation for tests and ephemeral use.
//
// The interface is deliberately small: the guard's record stores layer
// encryption and JSON encoding on top of plain string values, so a Store
// only moves opaque strings. There is no transactional primitive; writes
// are last-writer-wins across concurrent callers.
package storage
