package loginguard

import (
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
	"github.com/hewenyu/loginguard/internal/netinfo"
	"github.com/hewenyu/loginguard/internal/stores"
	"github.com/hewenyu/loginguard/storage"
)

// kdfSalt namespaces the derived storage key; not a secret.
var kdfSalt = []byte("loginguard.storage.v1")

// Builder defines a public type used by loginguard APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config  Config
	redis   redis.UniversalClient
	store   storage.Store
	cookies storage.CookieJar

	logger   *zap.Logger
	sink     Sink
	notifier RevocationNotifier

	device    DeviceProfile
	deviceSet bool

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithStore overrides the storage backend directly. Takes precedence
// over WithRedis; intended for tests and embedded deployments.
func (b *Builder) WithStore(store storage.Store) *Builder {
	b.store = store
	return b
}

// WithCookies describes the withcookies operation and its observable behavior.
func (b *Builder) WithCookies(jar storage.CookieJar) *Builder {
	b.cookies = jar
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
func (b *Builder) WithAuditSink(sink Sink) *Builder {
	b.sink = sink
	return b
}

// WithDeviceProfile describes the withdeviceprofile operation and its observable behavior.
func (b *Builder) WithDeviceProfile(profile DeviceProfile) *Builder {
	b.device = profile
	b.deviceSet = true
	return b
}

// WithRevocationNotifier describes the withrevocationnotifier operation and its observable behavior.
func (b *Builder) WithRevocationNotifier(n RevocationNotifier) *Builder {
	b.notifier = n
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Guard, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		if b.redis == nil {
			return nil, ErrStorageRequired
		}
		store = storage.NewRedisStore(b.redis, cfg.Storage.RedisPrefix)
	}

	cookies := b.cookies
	if cookies == nil {
		cookies = storage.NewMemoryJar()
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	device := b.device
	if !b.deviceSet {
		device = defaultDeviceProfile()
	}

	key := cfg.Crypto.KeyMaterial
	if len(key) == 0 {
		key = cryptoutil.DeriveKey(device.Signature(), kdfSalt, cfg.Crypto.KDFIterations)
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = NoOpNotifier{}
	}

	g := &Guard{
		config:    cfg,
		store:     store,
		cookies:   cookies,
		device:    device,
		log:       logger,
		notifier:  notifier,
		attempts:  stores.NewAttemptStore(store, key, logger),
		blacklist: stores.NewBlacklistStore(store, key, cfg.Blacklist.EntryTTL, cfg.Blacklist.MaxEntries, logger),
		session:   stores.NewSessionStore(store, key, logger),
		resolver:  netinfo.New(cfg.Resolver.Endpoint, cfg.Resolver.Timeout, store, logger),
		audit:     newAuditDispatcher(cfg.Audit, b.sink),
		now:       time.Now,
	}

	b.built = true

	return g, nil
}

func defaultDeviceProfile() DeviceProfile {
	hostname, _ := os.Hostname()
	return DeviceProfile{
		UserAgent: "loginguard/" + runtime.Version(),
		Language:  os.Getenv("LANG"),
		Platform:  runtime.GOOS + "/" + hostname,
		Timezone:  time.Now().Location().String(),
	}
}
