// Package service implements the in-memory session key cache. Plaintext KEKs
// and DEKs live only here, only between unlock and expiry or eviction, and
// are zeroed the moment they leave the cache.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/ledgerlock/ledgerlock/internal/crypto/domain"
	apperrors "github.com/ledgerlock/ledgerlock/internal/errors"
	sessionDomain "github.com/ledgerlock/ledgerlock/internal/session/domain"
)

// KeyFunc produces key material on a cache miss. It runs at most once per
// in-flight cache key regardless of how many callers miss concurrently.
type KeyFunc func(ctx context.Context) ([]byte, error)

// KeyCache caches derived KEKs per session and unwrapped DEKs per tenant,
// each under its own TTL. The KEK TTL bounds how long a session stays
// unlocked; the shorter DEK TTL bounds how long the content key itself sits
// in memory between re-unwraps.
//
// Returned key slices are caller-owned copies: the caller zeroes its copy
// when the operation is done. The cache keeps its own copy and zeroes it on
// expiry and eviction, so an eviction can never wipe a key out from under an
// operation that is still using it.
type KeyCache interface {
	// Unlock derives and caches the session KEK. It always runs derive, so a
	// wrong passphrase can never ride on a previously cached key; concurrent
	// unlocks of the same session collapse into one derivation.
	Unlock(ctx context.Context, sessionID string, tenantID uuid.UUID, derive KeyFunc) ([]byte, error)

	// SessionKek returns the cached KEK and tenant for an unlocked session.
	// Unknown and expired sessions both return ErrSessionExpired.
	SessionKek(sessionID string) ([]byte, uuid.UUID, error)

	// Status reports the session's unlock window and DEK cache state.
	Status(sessionID string) (*sessionDomain.SessionStatus, error)

	// GetOrUnwrapDek returns the tenant DEK, running unwrap on a miss or
	// after expiry. Concurrent misses for the same tenant collapse into one
	// unwrap.
	GetOrUnwrapDek(ctx context.Context, tenantID uuid.UUID, unwrap KeyFunc) ([]byte, error)

	// PutDek caches a DEK the caller already holds, taking ownership of the
	// slice. A previously cached DEK for the tenant is zeroed and replaced.
	PutDek(tenantID uuid.UUID, dek []byte)

	// EvictSession removes and zeroes the session KEK. Idempotent.
	EvictSession(sessionID string)

	// EvictTenantDek removes and zeroes the tenant DEK. Idempotent.
	EvictTenantDek(tenantID uuid.UUID)
}

type kekEntry struct {
	tenantID   uuid.UUID
	kek        []byte
	unlockedAt time.Time
	expiresAt  time.Time
}

type dekEntry struct {
	dek       []byte
	expiresAt time.Time
}

type keyCache struct {
	kekTTL time.Duration
	dekTTL time.Duration
	now    func() time.Time

	group singleflight.Group

	mu   sync.Mutex
	keks map[string]*kekEntry
	deks map[uuid.UUID]*dekEntry
}

// Unlock derives the session KEK and caches it with a fresh TTL.
func (c *keyCache) Unlock(
	ctx context.Context,
	sessionID string,
	tenantID uuid.UUID,
	derive KeyFunc,
) ([]byte, error) {
	result, err, _ := c.group.Do("unlock:"+sessionID, func() (any, error) {
		// The flight outcome is shared with every collapsed caller, so one
		// caller's cancellation must not fail the rest.
		ctx := context.WithoutCancel(ctx)

		kek, err := derive(ctx)
		if err != nil {
			return nil, err
		}

		now := c.now()
		entry := &kekEntry{
			tenantID:   tenantID,
			kek:        kek,
			unlockedAt: now,
			expiresAt:  now.Add(c.kekTTL),
		}

		c.mu.Lock()
		if old, ok := c.keks[sessionID]; ok {
			cryptoDomain.Zero(old.kek)
		}
		c.keks[sessionID] = entry
		c.mu.Unlock()

		return kek, nil
	})
	if err != nil {
		return nil, err
	}
	return c.copyOut(result.([]byte)), nil
}

// copyOut hands out a caller-owned copy of cache-held key material. The copy
// is made under the cache lock so it cannot observe a concurrent zeroing
// halfway through.
func (c *keyCache) copyOut(key []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]byte, len(key))
	copy(out, key)
	return out
}

func (c *keyCache) SessionKek(sessionID string) ([]byte, uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.keks[sessionID]
	if !ok {
		return nil, uuid.Nil, apperrors.ErrSessionExpired
	}
	if !c.now().Before(entry.expiresAt) {
		cryptoDomain.Zero(entry.kek)
		delete(c.keks, sessionID)
		return nil, uuid.Nil, apperrors.ErrSessionExpired
	}

	kek := make([]byte, len(entry.kek))
	copy(kek, entry.kek)
	return kek, entry.tenantID, nil
}

func (c *keyCache) Status(sessionID string) (*sessionDomain.SessionStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.keks[sessionID]
	if !ok {
		return nil, apperrors.ErrSessionExpired
	}
	now := c.now()
	if !now.Before(entry.expiresAt) {
		cryptoDomain.Zero(entry.kek)
		delete(c.keks, sessionID)
		return nil, apperrors.ErrSessionExpired
	}

	status := &sessionDomain.SessionStatus{
		SessionID:  sessionID,
		TenantID:   entry.tenantID,
		UnlockedAt: entry.unlockedAt,
		ExpiresAt:  entry.expiresAt,
	}
	if dek, ok := c.deks[entry.tenantID]; ok && now.Before(dek.expiresAt) {
		status.DekCached = true
		expiresAt := dek.expiresAt
		status.DekExpiresAt = &expiresAt
	}
	return status, nil
}

func (c *keyCache) GetOrUnwrapDek(
	ctx context.Context,
	tenantID uuid.UUID,
	unwrap KeyFunc,
) ([]byte, error) {
	c.mu.Lock()
	if entry, ok := c.deks[tenantID]; ok {
		if c.now().Before(entry.expiresAt) {
			dek := make([]byte, len(entry.dek))
			copy(dek, entry.dek)
			c.mu.Unlock()
			return dek, nil
		}
		cryptoDomain.Zero(entry.dek)
		delete(c.deks, tenantID)
	}
	c.mu.Unlock()

	result, err, _ := c.group.Do("dek:"+tenantID.String(), func() (any, error) {
		// Shared with every collapsed caller; detach from the winning
		// caller's cancellation.
		ctx := context.WithoutCancel(ctx)

		// Another caller may have filled the entry while this one waited for
		// the flight slot.
		c.mu.Lock()
		if entry, ok := c.deks[tenantID]; ok && c.now().Before(entry.expiresAt) {
			dek := entry.dek
			c.mu.Unlock()
			return dek, nil
		}
		c.mu.Unlock()

		dek, err := unwrap(ctx)
		if err != nil {
			return nil, err
		}
		c.PutDek(tenantID, dek)
		return dek, nil
	})
	if err != nil {
		return nil, err
	}
	return c.copyOut(result.([]byte)), nil
}

func (c *keyCache) PutDek(tenantID uuid.UUID, dek []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.deks[tenantID]; ok {
		cryptoDomain.Zero(old.dek)
	}
	c.deks[tenantID] = &dekEntry{
		dek:       dek,
		expiresAt: c.now().Add(c.dekTTL),
	}
}

func (c *keyCache) EvictSession(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.keks[sessionID]; ok {
		cryptoDomain.Zero(entry.kek)
		delete(c.keks, sessionID)
	}
}

func (c *keyCache) EvictTenantDek(tenantID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.deks[tenantID]; ok {
		cryptoDomain.Zero(entry.dek)
		delete(c.deks, tenantID)
	}
}

// NewKeyCache creates a key cache with the given KEK and DEK TTLs.
func NewKeyCache(kekTTL, dekTTL time.Duration) KeyCache {
	return newKeyCacheWithClock(kekTTL, dekTTL, time.Now)
}

func newKeyCacheWithClock(kekTTL, dekTTL time.Duration, now func() time.Time) *keyCache {
	return &keyCache{
		kekTTL: kekTTL,
		dekTTL: dekTTL,
		now:    now,
		keks:   make(map[string]*kekEntry),
		deks:   make(map[uuid.UUID]*dekEntry),
	}
}
