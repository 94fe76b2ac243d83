package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
	"github.com/hewenyu/loginguard/storage"
)

// AttemptStore persists the encrypted attempt log under KeyAttempts.
type AttemptStore struct {
	store storage.Store
	key   []byte
	log   *zap.Logger
}

// NewAttemptStore creates a new attempt store over the given backend.
func NewAttemptStore(store storage.Store, key []byte, log *zap.Logger) *AttemptStore {
	return &AttemptStore{store: store, key: key, log: log}
}

// Load returns every recorded attempt. Missing, unreadable, or corrupted
// state loads as empty: availability wins over strict lockout here, and
// the degradation is logged rather than surfaced.
func (s *AttemptStore) Load(ctx context.Context) []AttemptRecord {
	raw, ok, err := s.store.Get(ctx, KeyAttempts)
	if err != nil {
		s.log.Warn("attempt log read failed, treating as empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	plain, err := cryptoutil.Decrypt(raw, s.key)
	if err != nil {
		s.log.Warn("attempt log decrypt failed, treating as empty", zap.Error(err))
		return nil
	}

	var records []AttemptRecord
	if err := json.Unmarshal([]byte(plain), &records); err != nil {
		s.log.Warn("attempt log unmarshal failed, treating as empty", zap.Error(err))
		return nil
	}
	return records
}

// Append adds one record to the log and persists the whole array
// (read-then-write, last-writer-wins).
func (s *AttemptStore) Append(ctx context.Context, record AttemptRecord) error {
	records := append(s.Load(ctx), record)
	return s.save(ctx, records)
}

// Prune drops records older than cutoff. Housekeeping only; callers
// tolerate failure.
func (s *AttemptStore) Prune(ctx context.Context, cutoff time.Time) error {
	records := s.Load(ctx)
	kept := records[:0]
	for _, r := range records {
		if r.Timestamp >= cutoff.UnixMilli() {
			kept = append(kept, r)
		}
	}
	return s.save(ctx, kept)
}

// Reset removes the attempt log entirely (successful login path).
func (s *AttemptStore) Reset(ctx context.Context) error {
	return s.store.Delete(ctx, KeyAttempts)
}

func (s *AttemptStore) save(ctx context.Context, records []AttemptRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode attempt log: %w", err)
	}
	sealed, err := cryptoutil.Encrypt(string(data), s.key)
	if err != nil {
		return fmt.Errorf("seal attempt log: %w", err)
	}
	return s.store.Set(ctx, KeyAttempts, sealed)
}
