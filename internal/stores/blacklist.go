package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
	"github.com/hewenyu/loginguard/storage"
)

// BlacklistStore persists retired token fingerprints under KeyBlacklist.
// Unlike the attempt log, Add propagates write failures: losing a
// revocation record during logout is security-relevant and feeds the
// cleanup retry loop.
type BlacklistStore struct {
	store      storage.Store
	key        []byte
	entryTTL   time.Duration
	maxEntries int
	log        *zap.Logger
}

// NewBlacklistStore creates a new blacklist store over the given backend.
func NewBlacklistStore(store storage.Store, key []byte, entryTTL time.Duration, maxEntries int, log *zap.Logger) *BlacklistStore {
	return &BlacklistStore{
		store:      store,
		key:        key,
		entryTTL:   entryTTL,
		maxEntries: maxEntries,
		log:        log,
	}
}

// Load returns the current blacklist, fail-open on read.
func (s *BlacklistStore) Load(ctx context.Context) []BlacklistEntry {
	raw, ok, err := s.store.Get(ctx, KeyBlacklist)
	if err != nil {
		s.log.Warn("blacklist read failed, treating as empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	plain, err := cryptoutil.Decrypt(raw, s.key)
	if err != nil {
		s.log.Warn("blacklist decrypt failed, treating as empty", zap.Error(err))
		return nil
	}

	var entries []BlacklistEntry
	if err := json.Unmarshal([]byte(plain), &entries); err != nil {
		s.log.Warn("blacklist unmarshal failed, treating as empty", zap.Error(err))
		return nil
	}
	return entries
}

// Add appends entry, evicts entries older than the TTL, trims to the size
// cap newest-first, and persists.
func (s *BlacklistStore) Add(ctx context.Context, entry BlacklistEntry, now time.Time) error {
	entries := append(s.Load(ctx), entry)
	entries = s.evict(entries, now)

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode blacklist: %w", err)
	}
	sealed, err := cryptoutil.Encrypt(string(data), s.key)
	if err != nil {
		return fmt.Errorf("seal blacklist: %w", err)
	}
	return s.store.Set(ctx, KeyBlacklist, sealed)
}

// Contains reports whether tokenHash is currently blacklisted. Uses a
// constant-time comparison so lookups cannot leak fingerprint prefixes.
func (s *BlacklistStore) Contains(ctx context.Context, tokenHash string, now time.Time) bool {
	for _, e := range s.evict(s.Load(ctx), now) {
		if cryptoutil.ConstantTimeEquals(e.TokenHash, tokenHash) {
			return true
		}
	}
	return false
}

func (s *BlacklistStore) evict(entries []BlacklistEntry, now time.Time) []BlacklistEntry {
	cutoff := now.Add(-s.entryTTL).UnixMilli()

	kept := entries[:0]
	for _, e := range entries {
		if e.Timestamp >= cutoff {
			kept = append(kept, e)
		}
	}

	if s.maxEntries > 0 && len(kept) > s.maxEntries {
		sort.Slice(kept, func(i, j int) bool { return kept[i].Timestamp > kept[j].Timestamp })
		kept = kept[:s.maxEntries]
	}
	return kept
}
