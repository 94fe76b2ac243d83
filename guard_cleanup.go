package loginguard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
	"github.com/hewenyu/loginguard/internal/stores"
)

// PerformFullCleanup retires token and erases all session-related state:
// the token fingerprint is blacklisted, every cleanup target key is
// overwritten with random data and deleted, cookies are overwritten and
// expired, and the result is verified. The whole pass retries up to the
// configured cap; when verification still fails the store is wiped
// outright and ErrCleanupDegraded is returned alongside the report. The
// caller is logged out locally on every path.
//
// Remote revocation runs in the background and never blocks or fails
// local cleanup.
func (g *Guard) PerformFullCleanup(ctx context.Context, token, reason string) (CleanupReport, error) {
	go g.notifyRemote(token, reason)

	report := CleanupReport{}
	for attempt := 1; attempt <= g.config.Cleanup.Retries; attempt++ {
		report.Attempts = attempt

		blacklisted := true
		if err := g.blacklistToken(ctx, token, reason); err != nil {
			blacklisted = false
			g.log.Warn("blacklist write failed during cleanup",
				zap.Int("attempt", attempt), zap.Error(err))
		}

		g.scrubStorage(ctx)
		g.scrubCookies()

		if blacklisted && g.verifyCleanup(ctx) {
			report.Verified = true
			g.emit(ctx, Event{
				EventType: EventCleanupComplete,
				Detail:    reason,
			})
			return report, nil
		}
	}

	// Retries exhausted: wipe everything, blacklist included. Losing the
	// revocation record is the accepted cost of guaranteeing the local
	// logout completes.
	report.Forced = true
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error("forced storage wipe failed", zap.Error(err))
	}
	g.scrubCookies()

	g.emit(ctx, Event{
		EventType: EventCleanupForced,
		Detail:    reason,
	})
	return report, ErrCleanupDegraded
}

// IsTokenRevoked reports whether token's fingerprint is on the
// blacklist. Entries past their TTL do not count.
func (g *Guard) IsTokenRevoked(ctx context.Context, token string) bool {
	return g.blacklist.Contains(ctx, cryptoutil.Hash(token), g.now())
}

func (g *Guard) blacklistToken(ctx context.Context, token, reason string) error {
	entry := stores.BlacklistEntry{
		ID:           uuid.NewString(),
		TokenHash:    cryptoutil.Hash(token),
		Timestamp:    g.now().UnixMilli(),
		DeviceInfo:   g.device.Signature(),
		LogoutReason: reason,
	}
	return g.blacklist.Add(ctx, entry, g.now())
}

// scrubStorage overwrites each target key with random data at least as
// long as the stored value, then deletes it, so the previous value is
// not the last write the backend saw. Individual failures are logged;
// verification decides whether the pass counted.
func (g *Guard) scrubStorage(ctx context.Context) {
	for _, key := range g.config.Cleanup.TargetKeys {
		size := g.config.Cleanup.OverwriteLength
		if val, ok, err := g.store.Get(ctx, key); err == nil && ok && len(val) > size {
			size = len(val)
		}

		filler, err := cryptoutil.RandomHex(size)
		if err == nil {
			if err := g.store.Set(ctx, key, filler); err != nil {
				g.log.Warn("cleanup overwrite failed", zap.String("key", key), zap.Error(err))
			}
		}
		if err := g.store.Delete(ctx, key); err != nil {
			g.log.Warn("cleanup delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (g *Guard) scrubCookies() {
	past := time.Unix(0, 0)
	for _, name := range g.cookies.Names() {
		if filler, err := cryptoutil.RandomHex(g.config.Cleanup.OverwriteLength); err == nil {
			g.cookies.Set(name, filler, time.Time{})
		}
		g.cookies.Set(name, "", past)
	}
}

// verifyCleanup checks the post-conditions: every target key absent and
// no cookies left.
func (g *Guard) verifyCleanup(ctx context.Context) bool {
	for _, key := range g.config.Cleanup.TargetKeys {
		_, ok, err := g.store.Get(ctx, key)
		if err != nil || ok {
			return false
		}
	}
	return len(g.cookies.Names()) == 0
}

func (g *Guard) notifyRemote(token, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.notifier.NotifyRevoked(ctx, token, reason); err != nil {
		g.log.Warn("remote revocation notify failed", zap.Error(err))
	}
}
