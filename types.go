package loginguard

import (
	"context"
	"encoding/json"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
)

// DeviceProfile defines a public type used by loginguard APIs.
//
// DeviceProfile instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DeviceProfile struct {
	UserAgent        string `json:"user_agent"`
	Language         string `json:"language"`
	Platform         string `json:"platform"`
	ScreenResolution string `json:"screen_resolution"`
	Timezone         string `json:"timezone"`
}

// Signature returns the canonical JSON form of the profile. Used both as
// the blacklist device annotation and as key-derivation material, so the
// field order is fixed by the struct definition.
func (p DeviceProfile) Signature() string {
	data, err := json.Marshal(p)
	if err != nil {
		// Marshal of a flat string struct cannot fail; keep a stable
		// fallback anyway so key derivation never panics.
		return p.UserAgent + "|" + p.Platform
	}
	return string(data)
}

// Fingerprint returns the sha256 hex digest of the signature.
func (p DeviceProfile) Fingerprint() string {
	return cryptoutil.Hash(p.Signature())
}

// CleanupReport defines a public type used by loginguard APIs.
//
// CleanupReport instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CleanupReport struct {
	// Attempts is how many scrub-verify passes ran.
	Attempts int
	// Verified means the post-conditions held: every target key and
	// cookie is gone and the blacklist entry was written.
	Verified bool
	// Forced means verification never succeeded and the whole store was
	// wiped, blacklist included. The caller is still logged out.
	Forced bool
}

// RevocationNotifier reports a retired token to a remote revocation
// endpoint. Best effort only: local cleanup never waits on it and
// proceeds regardless of the outcome.
type RevocationNotifier interface {
	NotifyRevoked(ctx context.Context, token, reason string) error
}

// NoOpNotifier defines a public type used by loginguard APIs.
//
// NoOpNotifier instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type NoOpNotifier struct{}

// NotifyRevoked describes the notifyrevoked operation and its observable behavior.
func (NoOpNotifier) NotifyRevoked(context.Context, string, string) error { return nil }

// threatReport is the pure output of threat detection over a window of
// attempt records; the audit side effect is applied by the caller.
type threatReport struct {
	distinctAddresses  int
	distinctSignatures int
}
