package stores

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
	"github.com/hewenyu/loginguard/storage"
)

// SessionStore persists the single session's token material. Tokens are
// stored encrypted; the expiry is a plaintext RFC 3339 timestamp so a
// validity check never needs the encryption key.
type SessionStore struct {
	store storage.Store
	key   []byte
	log   *zap.Logger
}

// NewSessionStore creates a new session store over the given backend.
func NewSessionStore(store storage.Store, key []byte, log *zap.Logger) *SessionStore {
	return &SessionStore{store: store, key: key, log: log}
}

// Save encrypts and persists the token material and the expiry. A
// refresh token is optional; an empty one clears any previous value.
func (s *SessionStore) Save(ctx context.Context, token, refreshToken string, expiresAt time.Time) error {
	sealed, err := cryptoutil.Encrypt(token, s.key)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyToken, sealed); err != nil {
		return err
	}

	if refreshToken != "" {
		sealedRefresh, err := cryptoutil.Encrypt(refreshToken, s.key)
		if err != nil {
			return err
		}
		if err := s.store.Set(ctx, KeyRefreshToken, sealedRefresh); err != nil {
			return err
		}
	} else if err := s.store.Delete(ctx, KeyRefreshToken); err != nil {
		return err
	}

	return s.store.Set(ctx, KeyExpiration, expiresAt.Format(time.RFC3339))
}

// Token returns the decrypted access token. Absent or undecryptable
// values mean "no session"; the failure is logged, never surfaced.
func (s *SessionStore) Token(ctx context.Context) (string, bool) {
	return s.decryptKey(ctx, KeyToken)
}

// RefreshToken returns the decrypted refresh token, if one was stored.
func (s *SessionStore) RefreshToken(ctx context.Context) (string, bool) {
	return s.decryptKey(ctx, KeyRefreshToken)
}

// ExpiresAt returns the stored expiry, if present and parseable.
func (s *SessionStore) ExpiresAt(ctx context.Context) (time.Time, bool) {
	raw, ok, err := s.store.Get(ctx, KeyExpiration)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn("session expiry read failed", zap.Error(err))
		}
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.log.Warn("session expiry unparseable", zap.Error(err))
		return time.Time{}, false
	}
	return t, true
}

// Touch advances the expiry without touching the token material. Returns
// false when no session exists to extend.
func (s *SessionStore) Touch(ctx context.Context, expiresAt time.Time) bool {
	if _, ok, err := s.store.Get(ctx, KeyExpiration); err != nil || !ok {
		return false
	}
	if err := s.store.Set(ctx, KeyExpiration, expiresAt.Format(time.RFC3339)); err != nil {
		s.log.Warn("session touch failed", zap.Error(err))
		return false
	}
	return true
}

// Clear removes the token, refresh token, and expiry entries.
func (s *SessionStore) Clear(ctx context.Context) error {
	for _, key := range []string{KeyToken, KeyRefreshToken, KeyExpiration} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *SessionStore) decryptKey(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn("session read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	plain, err := cryptoutil.Decrypt(raw, s.key)
	if err != nil {
		s.log.Warn("session decrypt failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return plain, true
}
