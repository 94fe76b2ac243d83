package loginguard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hewenyu/loginguard/storage"
)

func TestPerformFullCleanup_Verified(t *testing.T) {
	g, clock, sink, store, jar := newTestGuard(t)
	ctx := context.Background()

	if err := g.SetSession(ctx, "tok123", "refresh123"); err != nil {
		t.Fatalf("set session failed: %v", err)
	}
	g.AddAttempt(ctx, "alice")
	jar.Set("session_id", "abc", clock.Now().Add(time.Hour))
	jar.Set("remember_me", "1", clock.Now().Add(time.Hour))

	report, err := g.PerformFullCleanup(ctx, "tok123", "user logout")
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if !report.Verified || report.Forced {
		t.Fatalf("expected a verified report, got %+v", report)
	}
	if report.Attempts != 1 {
		t.Fatalf("expected success on the first pass, got %d", report.Attempts)
	}

	for _, key := range g.config.Cleanup.TargetKeys {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Fatalf("target key %q survived cleanup", key)
		}
	}
	if names := jar.Names(); len(names) != 0 {
		t.Fatalf("cookies survived cleanup: %v", names)
	}
	if g.SessionValid(ctx) {
		t.Fatal("session must not be valid after cleanup")
	}

	if !g.IsTokenRevoked(ctx, "tok123") {
		t.Fatal("cleaned-up token must be revoked")
	}
	if g.IsTokenRevoked(ctx, "other-token") {
		t.Fatal("unrelated token must not be revoked")
	}

	ev := waitForEvent(t, sink, EventCleanupComplete)
	if ev.Detail != "user logout" {
		t.Fatalf("expected the logout reason in the event, got %q", ev.Detail)
	}
}

func TestPerformFullCleanup_ForcedWipe(t *testing.T) {
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.Resolver.Endpoint = ""

	sticky := &stickyStore{
		MemoryStore: storage.NewMemoryStore(),
		stickyKey:   cfg.Cleanup.TargetKeys[0],
	}
	jar := storage.NewMemoryJar()
	sink := NewChannelSink(64)

	g, err := New().
		WithConfig(cfg).
		WithStore(sticky).
		WithCookies(jar).
		WithDeviceProfile(testProfile).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(g.Close)

	if err := g.SetSession(ctx, "tok123", ""); err != nil {
		t.Fatalf("set session failed: %v", err)
	}

	report, err := g.PerformFullCleanup(ctx, "tok123", "user logout")
	if !errors.Is(err, ErrCleanupDegraded) {
		t.Fatalf("expected ErrCleanupDegraded, got %v", err)
	}
	if report.Verified || !report.Forced {
		t.Fatalf("expected a forced report, got %+v", report)
	}
	if report.Attempts != cfg.Cleanup.Retries {
		t.Fatalf("expected %d passes before the wipe, got %d", cfg.Cleanup.Retries, report.Attempts)
	}

	// The wipe takes everything, the sticky key and the blacklist alike.
	// Local logout outranks keeping the revocation record.
	if _, ok, _ := sticky.Get(ctx, sticky.stickyKey); ok {
		t.Fatal("forced wipe must remove the undeletable key")
	}
	if g.IsTokenRevoked(ctx, "tok123") {
		t.Fatal("forced wipe drops the blacklist too")
	}
	if g.SessionValid(ctx) {
		t.Fatal("session must not be valid after a forced wipe")
	}

	waitForEvent(t, sink, EventCleanupForced)
}

func TestPerformFullCleanup_NotifiesRemote(t *testing.T) {
	ctx := context.Background()

	cfg := defaultConfig()
	cfg.Resolver.Endpoint = ""

	notifier := &recordingNotifier{calls: make(chan [2]string, 1)}
	g, err := New().
		WithConfig(cfg).
		WithStore(storage.NewMemoryStore()).
		WithCookies(storage.NewMemoryJar()).
		WithDeviceProfile(testProfile).
		WithRevocationNotifier(notifier).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(g.Close)

	if _, err := g.PerformFullCleanup(ctx, "tok123", "session expired"); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	select {
	case call := <-notifier.calls:
		if call[0] != "tok123" || call[1] != "session expired" {
			t.Fatalf("unexpected revocation call: %v", call)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remote revocation was never attempted")
	}
}

func TestIsTokenRevoked_ExpiresWithTTL(t *testing.T) {
	g, clock, _, _, _ := newTestGuard(t)
	ctx := context.Background()

	if _, err := g.PerformFullCleanup(ctx, "tok123", "user logout"); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if !g.IsTokenRevoked(ctx, "tok123") {
		t.Fatal("expected the token to be revoked")
	}

	clock.advance(25 * time.Hour)
	if g.IsTokenRevoked(ctx, "tok123") {
		t.Fatal("revocation must lapse with the entry TTL")
	}
}

// stickyStore refuses to delete one key, simulating a backend that
// silently keeps a value around.
type stickyStore struct {
	*storage.MemoryStore
	stickyKey string
}

func (s *stickyStore) Delete(ctx context.Context, key string) error {
	if key == s.stickyKey {
		return nil
	}
	return s.MemoryStore.Delete(ctx, key)
}

type recordingNotifier struct {
	calls chan [2]string
}

func (n *recordingNotifier) NotifyRevoked(ctx context.Context, token, reason string) error {
	n.calls <- [2]string{token, reason}
	return nil
}
