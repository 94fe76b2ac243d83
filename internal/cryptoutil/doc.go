// Package cryptoutil holds the primitives the guard's stores build on:
// hex sha256 digests for token fingerprints, AES-GCM sealing for
// persisted state, device-profile key derivation, and the small helpers
// (nonces, constant-time compare, log obfuscation) the login flows use.
package cryptoutil
