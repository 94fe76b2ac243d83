package loginguard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/netinfo"
	"github.com/hewenyu/loginguard/internal/stores"
	"github.com/hewenyu/loginguard/storage"
)

// Guard defines a public type used by loginguard APIs.
//
// Guard instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Guard struct {
	config  Config
	store   storage.Store
	cookies storage.CookieJar
	device  DeviceProfile

	attempts  *stores.AttemptStore
	blacklist *stores.BlacklistStore
	session   *stores.SessionStore
	resolver  *netinfo.Resolver

	audit    *auditDispatcher
	notifier RevocationNotifier
	log      *zap.Logger

	// now is replaceable in tests; everything time-windowed reads it.
	now func() time.Time
}

// Close flushes and stops the audit dispatcher. The guard must not be
// used after Close.
func (g *Guard) Close() {
	g.audit.close()
}

// DroppedAuditEvents reports how many audit events were discarded because
// the dispatch buffer was full.
func (g *Guard) DroppedAuditEvents() uint64 {
	return g.audit.droppedCount()
}

func (g *Guard) emit(ctx context.Context, event Event) {
	event.Timestamp = g.now()
	g.audit.emit(ctx, event)
}
