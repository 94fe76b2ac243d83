package loginguard

import (
	"errors"
	"time"

	"github.com/hewenyu/loginguard/internal/stores"
)

// Config defines a public type used by loginguard APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Attempts  AttemptsConfig
	Session   SessionConfig
	Blacklist BlacklistConfig
	Cleanup   CleanupConfig
	Resolver  ResolverConfig
	Crypto    CryptoConfig
	Audit     AuditConfig
	Storage   StorageConfig
}

/*
====================================
ATTEMPTS CONFIG
====================================
*/

// AttemptsConfig defines a public type used by loginguard APIs.
//
// AttemptsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AttemptsConfig struct {
	// MaxAttempts within BlockDuration triggers a block on the identifier.
	MaxAttempts   int
	BlockDuration time.Duration
	// Retention bounds how long attempt records survive before pruning.
	Retention time.Duration

	// Threat detection: distinct source addresses / client signatures
	// observed for one identifier inside ThreatWindow before a warning
	// event is emitted. Warnings never change block state.
	ThreatWindow        time.Duration
	MaxSourceAddresses  int
	MaxClientSignatures int
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by loginguard APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// IdleTimeout is the rolling inactivity window; any observed activity
	// pushes the expiry out by this much.
	IdleTimeout time.Duration
	// CapToTokenExpiry trims the stored expiry to the token's own exp
	// claim when the token parses as a JWT.
	CapToTokenExpiry bool
}

/*
====================================
BLACKLIST CONFIG
====================================
*/

// BlacklistConfig defines a public type used by loginguard APIs.
//
// BlacklistConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BlacklistConfig struct {
	EntryTTL   time.Duration
	MaxEntries int
}

/*
====================================
CLEANUP CONFIG
====================================
*/

// CleanupConfig defines a public type used by loginguard APIs.
//
// CleanupConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CleanupConfig struct {
	// Retries caps the blacklist-scrub-verify loop. The loop always
	// terminates: after Retries failures the store is wiped outright.
	Retries int
	// TargetKeys are overwritten with random data and deleted on logout.
	TargetKeys []string
	// OverwriteLength is the minimum random overwrite size in bytes.
	OverwriteLength int
}

/*
====================================
RESOLVER CONFIG
====================================
*/

// ResolverConfig defines a public type used by loginguard APIs.
//
// ResolverConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResolverConfig struct {
	// Endpoint is an ipify-style service returning {"ip": "..."}.
	// Empty disables resolution; attempts record "unknown".
	Endpoint string
	Timeout  time.Duration
}

/*
====================================
CRYPTO CONFIG
====================================
*/

// CryptoConfig defines a public type used by loginguard APIs.
//
// CryptoConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CryptoConfig struct {
	// KeyMaterial, when set, replaces the device-profile-derived key.
	// Must be 32 bytes. The derived default is reconstructible by anything
	// reading the same device signals; see the package trust model.
	KeyMaterial   []byte
	KDFIterations int
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by loginguard APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by loginguard APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	RedisPrefix string
}

func defaultConfig() Config {
	return Config{
		Attempts: AttemptsConfig{
			MaxAttempts:         5,
			BlockDuration:       300 * time.Second,
			Retention:           24 * time.Hour,
			ThreatWindow:        time.Hour,
			MaxSourceAddresses:  3,
			MaxClientSignatures: 2,
		},
		Session: SessionConfig{
			IdleTimeout:      30 * time.Minute,
			CapToTokenExpiry: true,
		},
		Blacklist: BlacklistConfig{
			EntryTTL:   24 * time.Hour,
			MaxEntries: 1000,
		},
		Cleanup: CleanupConfig{
			Retries: 3,
			TargetKeys: []string{
				stores.KeyToken,
				stores.KeyExpiration,
				stores.KeyRefreshToken,
				stores.KeyAttempts,
				"remember_me",
				"auth_state",
				"session_id",
				"user",
			},
			OverwriteLength: 32,
		},
		Resolver: ResolverConfig{
			Endpoint: "https://api.ipify.org?format=json",
			Timeout:  3 * time.Second,
		},
		Crypto: CryptoConfig{
			KDFIterations: 4096,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Cleanup.TargetKeys = append([]string(nil), cfg.Cleanup.TargetKeys...)
	out.Crypto.KeyMaterial = append([]byte(nil), cfg.Crypto.KeyMaterial...)
	return out
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.Attempts.MaxAttempts <= 0 {
		return errors.New("Attempts MaxAttempts must be positive")
	}
	if c.Attempts.BlockDuration <= 0 {
		return errors.New("Attempts BlockDuration must be positive")
	}
	if c.Attempts.Retention < c.Attempts.BlockDuration {
		return errors.New("Attempts Retention must cover BlockDuration")
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.New("Session IdleTimeout must be positive")
	}
	if c.Blacklist.MaxEntries <= 0 {
		return errors.New("Blacklist MaxEntries must be positive")
	}
	if c.Blacklist.EntryTTL <= 0 {
		return errors.New("Blacklist EntryTTL must be positive")
	}
	if c.Cleanup.Retries < 1 {
		return errors.New("Cleanup Retries must be at least 1")
	}
	if len(c.Cleanup.TargetKeys) == 0 {
		return errors.New("Cleanup TargetKeys must not be empty")
	}
	if len(c.Crypto.KeyMaterial) != 0 && len(c.Crypto.KeyMaterial) != 32 {
		return errors.New("Crypto KeyMaterial must be 32 bytes when set")
	}
	return nil
}
