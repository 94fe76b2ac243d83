package storage

import (
	"sync"
	"time"
)

// CookieJar abstracts the browser cookie surface the logout cleanup has to
// scrub. A jar implementation backed by a real cookie store should apply
// Set with a past expiry as deletion, mirroring document.cookie semantics.
type CookieJar interface {
	// Names lists the names of all live cookies.
	Names() []string
	// Get returns the cookie value and whether the cookie exists.
	Get(name string) (string, bool)
	// Set writes a cookie. A zero expiry means session-scoped; an expiry
	// in the past removes the cookie.
	Set(name, value string, expires time.Time)
}

type memoryCookie struct {
	value   string
	expires time.Time
}

// MemoryJar defines a public type used by loginguard APIs.
//
// MemoryJar instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryJar struct {
	mu      sync.RWMutex
	cookies map[string]memoryCookie
}

// NewMemoryJar describes the newmemoryjar operation and its observable behavior.
//
// NewMemoryJar may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryJar does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{cookies: make(map[string]memoryCookie)}
}

// Names describes the names operation and its observable behavior.
func (j *MemoryJar) Names() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	names := make([]string, 0, len(j.cookies))
	for name, c := range j.cookies {
		if c.expired() {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Get describes the get operation and its observable behavior.
func (j *MemoryJar) Get(name string) (string, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	c, ok := j.cookies[name]
	if !ok || c.expired() {
		return "", false
	}
	return c.value, true
}

// Set describes the set operation and its observable behavior.
func (j *MemoryJar) Set(name, value string, expires time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !expires.IsZero() && expires.Before(time.Now()) {
		delete(j.cookies, name)
		return
	}
	j.cookies[name] = memoryCookie{value: value, expires: expires}
}

func (c memoryCookie) expired() bool {
	return !c.expires.IsZero() && c.expires.Before(time.Now())
}
