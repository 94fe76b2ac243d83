package loginguard

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SetSession stores the encrypted token material with an expiry of
// now + IdleTimeout. When the token parses as a JWT carrying an exp
// claim inside that window, the stored expiry is capped to the claim so
// the local session never outlives the token itself. Opaque tokens are
// stored as-is. refreshToken may be empty.
func (g *Guard) SetSession(ctx context.Context, token, refreshToken string) error {
	now := g.now()
	expiresAt := now.Add(g.config.Session.IdleTimeout)

	if g.config.Session.CapToTokenExpiry {
		if exp, ok := tokenExpiry(token); ok && exp.After(now) && exp.Before(expiresAt) {
			expiresAt = exp
		}
	}

	if err := g.session.Save(ctx, token, refreshToken, expiresAt); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionWrite, err)
	}

	g.emit(ctx, Event{EventType: EventSessionCreated})
	return nil
}

// Token returns the decrypted access token, or false when no valid
// session material exists. Decryption failures are logged inside the
// store and reported here as absence, never as an error.
func (g *Guard) Token(ctx context.Context) (string, bool) {
	return g.session.Token(ctx)
}

// RefreshToken returns the decrypted refresh token, if one was stored.
func (g *Guard) RefreshToken(ctx context.Context) (string, bool) {
	return g.session.RefreshToken(ctx)
}

// RequireSession returns the access token of the current valid session,
// or ErrNoSession when none exists or the session has expired. The
// one-call form for request paths that must be authenticated.
func (g *Guard) RequireSession(ctx context.Context) (string, error) {
	if !g.SessionValid(ctx) {
		return "", ErrNoSession
	}
	token, ok := g.session.Token(ctx)
	if !ok {
		return "", ErrNoSession
	}
	return token, nil
}

// SessionValid reports whether a stored expiry exists and lies in the
// future. It does not decrypt the token.
func (g *Guard) SessionValid(ctx context.Context) bool {
	expiresAt, ok := g.session.ExpiresAt(ctx)
	return ok && expiresAt.After(g.now())
}

// Touch pushes the session expiry out by the idle timeout. Called on
// observed user activity; a no-op when no session exists.
func (g *Guard) Touch(ctx context.Context) {
	g.session.Touch(ctx, g.now().Add(g.config.Session.IdleTimeout))
}

// ClearSession removes the token, refresh token, and expiry entries.
func (g *Guard) ClearSession(ctx context.Context) error {
	if err := g.session.Clear(ctx); err != nil {
		return err
	}
	g.emit(ctx, Event{EventType: EventSessionCleared})
	return nil
}

// ObserveActivity drives the rolling idle timeout from a stream of
// activity signals (mouse, key, scroll, touch in the original UI).
// Blocks until ctx is done or the channel closes; run it on its own
// goroutine.
func (g *Guard) ObserveActivity(ctx context.Context, activity <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-activity:
			if !ok {
				return
			}
			g.Touch(ctx)
		}
	}
}

// tokenExpiry extracts the exp claim from a JWT without verifying its
// signature. Verification is the remote API's job; locally the claim is
// only a hint to avoid holding a session past its token.
func tokenExpiry(token string) (t time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
