// Package loginguard provides client-side login security bookkeeping: a
// time-windowed login attempt tracker with lockout, password strength
// evaluation, encrypted session and token storage with a rolling idle
// timeout, and verified logout cleanup backed by a token blacklist.
//
// The package is a library consumed by a UI layer. It does not talk to an
// identity provider: credentials are submitted elsewhere, and loginguard
// only validates input, gates attempts, and records outcomes on the
// client's behalf. All state lives in an injected key-value [storage.Store]
// (Redis in production, in-memory for tests).
//
// # Architecture boundaries
//
// loginguard is the public surface. It exposes [Guard], [Builder],
// [Config], and value types (CleanupReport, DeviceProfile, audit events).
// Record stores, the cipher layer, and the address resolver live under
// internal/ and are never exported. The [password] and [storage]
// subpackages are public because their types appear in the Guard API.
//
// # Trust model
//
// Persisted values are encrypted with a key derived from the device
// profile. Anything that can read the same device signals can re-derive
// that key, so the ciphertext is obfuscation against casual inspection,
// not confidentiality against a co-resident attacker. Deployments holding
// a real secret should set Config.Crypto.KeyMaterial instead.
//
// # Consistency
//
// Stored state is read-then-written without a transactional primitive.
// Concurrent writers (multiple tabs in the original deployment) get
// last-writer-wins semantics; corrupted or unreadable state degrades to
// "no records" on read paths rather than failing the caller.
package loginguard
