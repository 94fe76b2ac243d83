// Package netinfo resolves the client's public network address through a
// single external lookup, cached in storage for the life of the session.
package netinfo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/loginguard/internal/stores"
	"github.com/hewenyu/loginguard/storage"
)

// UnknownAddress is the sentinel recorded when resolution fails. Attempt
// bookkeeping must never block on the network, so every failure path
// degrades to this value.
const UnknownAddress = "unknown"

const maxResponseBytes = 4 << 10

// Resolver performs the one-shot address lookup with a short timeout.
type Resolver struct {
	endpoint string
	client   *http.Client
	store    storage.Store
	log      *zap.Logger
}

// New creates a resolver against the given ipify-style endpoint.
func New(endpoint string, timeout time.Duration, store storage.Store, log *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		store:    store,
		log:      log,
	}
}

// Address returns the cached public address, resolving it on first use.
func (r *Resolver) Address(ctx context.Context) string {
	if cached, ok, err := r.store.Get(ctx, stores.KeyCachedIP); err == nil && ok && cached != "" && cached != UnknownAddress {
		return cached
	}

	addr := r.lookup(ctx)
	if addr != UnknownAddress {
		if err := r.store.Set(ctx, stores.KeyCachedIP, addr); err != nil {
			r.log.Warn("address cache write failed", zap.Error(err))
		}
	}
	return addr
}

// GeoHint returns the cached geo hint, or empty when none was recorded.
// The hint is populated out of band; the resolver only reads the cache.
func (r *Resolver) GeoHint(ctx context.Context) string {
	hint, ok, err := r.store.Get(ctx, stores.KeyCachedGeo)
	if err != nil || !ok {
		return ""
	}
	return hint
}

func (r *Resolver) lookup(ctx context.Context) string {
	if r.endpoint == "" {
		return UnknownAddress
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		r.log.Warn("address lookup request failed", zap.Error(err))
		return UnknownAddress
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn("address lookup failed", zap.Error(err))
		return UnknownAddress
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Warn("address lookup rejected", zap.Int("status", resp.StatusCode))
		return UnknownAddress
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		r.log.Warn("address lookup read failed", zap.Error(err))
		return UnknownAddress
	}

	var payload struct {
		IP string `json:"ip"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.IP == "" {
		r.log.Warn("address lookup payload unusable", zap.Error(err))
		return UnknownAddress
	}
	return payload.IP
}
