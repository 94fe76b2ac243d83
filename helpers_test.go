package loginguard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hewenyu/loginguard/storage"
)

var testProfile = DeviceProfile{
	UserAgent:        "test-agent/1.0",
	Language:         "en-US",
	Platform:         "test",
	ScreenResolution: "1920x1080",
	Timezone:         "UTC",
}

// testClock is safe for concurrent reads through Now; advance is only
// called from the test goroutine.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestGuard builds a guard over in-memory backends with a controlled
// clock and a channel audit sink. The resolver endpoint is cleared so
// tests never touch the network; attempts record "unknown".
func newTestGuard(t *testing.T) (*Guard, *testClock, *ChannelSink, *storage.MemoryStore, *storage.MemoryJar) {
	t.Helper()

	cfg := defaultConfig()
	cfg.Resolver.Endpoint = ""

	sink := NewChannelSink(64)
	store := storage.NewMemoryStore()
	jar := storage.NewMemoryJar()

	g, err := New().
		WithConfig(cfg).
		WithStore(store).
		WithCookies(jar).
		WithDeviceProfile(testProfile).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(g.Close)

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	g.now = clock.Now

	return g, clock, sink, store, jar
}

// waitForEvent drains the sink until an event of the wanted type arrives
// or the timeout elapses.
func waitForEvent(t *testing.T, sink *ChannelSink, eventType string) Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-sink.Events():
			if ev.EventType == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s event", eventType)
		}
	}
}

func mustNotBlock(t *testing.T, g *Guard, identifier string) {
	t.Helper()
	if g.ShouldBlock(context.Background(), identifier) {
		t.Fatalf("%s unexpectedly blocked", identifier)
	}
}
