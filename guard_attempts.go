package loginguard

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/cryptoutil"
	"github.com/hewenyu/loginguard/internal/stores"
)

// AddAttempt records one authentication attempt for identifier and runs
// threat detection over the recent window. Persistence failures are
// logged and swallowed: attempt bookkeeping must never break the login
// flow it observes. Threat warnings are emitted as audit events and do
// not change block state.
func (g *Guard) AddAttempt(ctx context.Context, identifier string) {
	now := g.now()

	record := stores.AttemptRecord{
		ID:         uuid.NewString(),
		Timestamp:  now.UnixMilli(),
		Identifier: identifier,
		SourceAddr: g.resolver.Address(ctx),
		ClientSig:  g.device.UserAgent,
		GeoHint:    g.resolver.GeoHint(ctx),
	}

	if err := g.attempts.Append(ctx, record); err != nil {
		g.log.Warn("attempt record write failed",
			zap.String("identifier", cryptoutil.ObfuscateSensitive(identifier)),
			zap.Error(err))
	}

	g.emit(ctx, Event{
		EventType:  EventAttemptRecorded,
		Identifier: cryptoutil.ObfuscateSensitive(identifier),
		SourceAddr: record.SourceAddr,
	})

	report := detectThreats(
		g.attempts.Load(ctx), identifier, now,
		g.config.Attempts.ThreatWindow,
	)
	if report.distinctAddresses > g.config.Attempts.MaxSourceAddresses {
		g.emit(ctx, Event{
			EventType:  EventThreatAddresses,
			Identifier: cryptoutil.ObfuscateSensitive(identifier),
			Detail:     "login attempts from multiple source addresses",
			Metadata:   map[string]string{"distinct_addresses": strconv.Itoa(report.distinctAddresses)},
		})
	}
	if report.distinctSignatures > g.config.Attempts.MaxClientSignatures {
		g.emit(ctx, Event{
			EventType:  EventThreatDevices,
			Identifier: cryptoutil.ObfuscateSensitive(identifier),
			Detail:     "login attempts from multiple devices",
			Metadata:   map[string]string{"distinct_devices": strconv.Itoa(report.distinctSignatures)},
		})
	}
}

// ShouldBlock reports whether identifier has reached the attempt limit
// inside the block window. A corrupted or unreadable attempt log counts
// as no attempts (fail-open, see package doc).
func (g *Guard) ShouldBlock(ctx context.Context, identifier string) bool {
	return g.recentAttemptCount(ctx, identifier) >= g.config.Attempts.MaxAttempts
}

// RemainingBlockTime returns how many seconds of block remain for
// identifier, zero when not blocked. Partial seconds round up.
func (g *Guard) RemainingBlockTime(ctx context.Context, identifier string) int {
	if !g.ShouldBlock(ctx, identifier) {
		return 0
	}

	var latest int64
	for _, r := range g.attempts.Load(ctx) {
		if r.Identifier == identifier && r.Timestamp > latest {
			latest = r.Timestamp
		}
	}
	if latest == 0 {
		return 0
	}

	elapsed := float64(g.now().UnixMilli()-latest) / 1000
	remaining := g.config.Attempts.BlockDuration.Seconds() - elapsed
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining))
}

// ResetAttempts clears the attempt log, the successful-login path.
func (g *Guard) ResetAttempts(ctx context.Context) error {
	return g.attempts.Reset(ctx)
}

// CleanupAttempts prunes records older than the retention window. Safe
// to call opportunistically; failures are logged and swallowed.
func (g *Guard) CleanupAttempts(ctx context.Context) {
	cutoff := g.now().Add(-g.config.Attempts.Retention)
	if err := g.attempts.Prune(ctx, cutoff); err != nil {
		g.log.Warn("attempt log prune failed", zap.Error(err))
	}
}

func (g *Guard) recentAttemptCount(ctx context.Context, identifier string) int {
	cutoff := g.now().Add(-g.config.Attempts.BlockDuration).UnixMilli()
	count := 0
	for _, r := range g.attempts.Load(ctx) {
		if r.Identifier == identifier && r.Timestamp >= cutoff {
			count++
		}
	}
	return count
}

// detectThreats counts distinct source addresses and client signatures
// for identifier inside the window ending at now. Pure; the audit side
// effect belongs to the caller.
func detectThreats(records []stores.AttemptRecord, identifier string, now time.Time, window time.Duration) threatReport {
	cutoff := now.Add(-window).UnixMilli()

	addrs := make(map[string]struct{})
	sigs := make(map[string]struct{})
	for _, r := range records {
		if r.Identifier != identifier || r.Timestamp < cutoff {
			continue
		}
		addrs[r.SourceAddr] = struct{}{}
		sigs[r.ClientSig] = struct{}{}
	}

	return threatReport{
		distinctAddresses:  len(addrs),
		distinctSignatures: len(sigs),
	}
}
