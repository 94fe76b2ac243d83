// Package stores layers the guard's record types over the raw key-value
// storage boundary: the encrypted attempt log, the TTL-and-size-capped
// token blacklist, and the session token material.
//
// Read paths are fail-open: a missing, unreadable, or foreign-ciphertext
// value loads as empty and is logged, so a corrupted store never locks a
// user out or strands a stale session check. Write paths return their
// errors; the guard decides which of those are security-relevant enough
// to escalate.
package stores
