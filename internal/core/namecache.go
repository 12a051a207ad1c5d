package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mixtape-backend-go/internal/db"
)

const (
	// nameCacheTTL is how long a resolved name is served without I/O.
	nameCacheTTL = 5 * time.Minute
	// nameRefetchGuard suppresses repeat lookups for the same identity
	// issued in quick succession. Lookups for the same identity from
	// different callers outside this window may still overlap; both
	// converge to the same cache write.
	nameRefetchGuard = 1 * time.Second

	// unknownUserName is the batch-resolution fallback when no caller
	// fallback is available.
	unknownUserName = "Unknown User"
)

type nameEntry struct {
	name      string
	fetchedAt time.Time
}

// NameCache implements NameResolver with a TTL-keyed in-memory map over
// the profile repository. It is shared process-wide across every component
// that renders a user's name. Entries are only replaced on read after TTL
// expiry; identities never read again are never reclaimed, which is
// acceptable since cardinality is bounded by distinct identities seen
// in-session.
type NameCache struct {
	profiles db.ProfileRepository
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	entries     map[string]nameEntry
	lastAttempt map[string]time.Time
}

// NewNameCache creates a NameCache over the given profile repository.
func NewNameCache(profiles db.ProfileRepository, logger *zap.Logger) *NameCache {
	if profiles == nil {
		panic("NameCache requires a non-nil ProfileRepository")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameCache{
		profiles:    profiles,
		logger:      logger,
		now:         time.Now,
		entries:     make(map[string]nameEntry),
		lastAttempt: make(map[string]time.Time),
	}
}

// Resolve returns the display name for identityID. A cache entry younger
// than the TTL is returned with no I/O; otherwise one profile lookup is
// performed and its result cached. A missing profile or empty nickname
// resolves to fallback, which is cached like any other result.
func (c *NameCache) Resolve(ctx context.Context, identityID, fallback string) (string, error) {
	if identityID == "" {
		return fallback, nil
	}

	now := c.now()

	c.mu.Lock()
	if entry, ok := c.entries[identityID]; ok && now.Sub(entry.fetchedAt) < nameCacheTTL {
		c.mu.Unlock()
		return entry.name, nil
	}
	if last, ok := c.lastAttempt[identityID]; ok && now.Sub(last) < nameRefetchGuard {
		// A lookup for this identity just ran; serve whatever we have
		// rather than issuing another read.
		if entry, ok := c.entries[identityID]; ok {
			c.mu.Unlock()
			return entry.name, nil
		}
		c.mu.Unlock()
		return fallback, nil
	}
	c.lastAttempt[identityID] = now
	c.mu.Unlock()

	name := fallback
	profile, err := c.profiles.Get(ctx, identityID)
	switch {
	case err == nil:
		if profile.Nickname != "" {
			name = profile.Nickname
		}
	case errors.Is(err, db.ErrNotFound):
		// No profile document yet; the fallback is the answer.
	default:
		c.logger.Warn("Profile lookup failed, using fallback name",
			zap.String("identityID", identityID), zap.Error(err))
		return fallback, fmt.Errorf("failed to resolve name for '%s': %w", identityID, err)
	}

	c.mu.Lock()
	c.entries[identityID] = nameEntry{name: name, fetchedAt: now}
	c.mu.Unlock()
	return name, nil
}

// ResolveMany resolves a batch of ids into one mapping. Requested ids are
// deduplicated, fresh cache entries are served without I/O, and the
// remaining lookups run concurrently. Ids without a caller-supplied
// fallback resolve to "Unknown User" when no nickname exists.
func (c *NameCache) ResolveMany(ctx context.Context, identityIDs []string, fallbacks map[string]string) map[string]string {
	results := make(map[string]string, len(identityIDs))
	now := c.now()

	var pending []string
	seen := make(map[string]struct{}, len(identityIDs))
	c.mu.Lock()
	for _, id := range identityIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if entry, ok := c.entries[id]; ok && now.Sub(entry.fetchedAt) < nameCacheTTL {
			results[id] = entry.name
			continue
		}
		pending = append(pending, id)
	}
	c.mu.Unlock()

	if len(pending) == 0 {
		return results
	}

	var wg sync.WaitGroup
	var resMu sync.Mutex
	for _, id := range pending {
		fallback := fallbacks[id]
		if fallback == "" {
			fallback = unknownUserName
		}
		wg.Add(1)
		go func(id, fallback string) {
			defer wg.Done()
			name, err := c.Resolve(ctx, id, fallback)
			if err != nil {
				name = fallback
			}
			resMu.Lock()
			results[id] = name
			resMu.Unlock()
		}(id, fallback)
	}
	wg.Wait()

	return results
}

// Set overwrites the cached name for identityID immediately, used right
// after a local nickname save so the new name is visible before the TTL
// would otherwise allow a stale read.
func (c *NameCache) Set(identityID, name string) {
	if identityID == "" {
		return
	}
	c.mu.Lock()
	c.entries[identityID] = nameEntry{name: name, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate removes the cached entry for identityID.
func (c *NameCache) Invalidate(identityID string) {
	c.mu.Lock()
	delete(c.entries, identityID)
	delete(c.lastAttempt, identityID)
	c.mu.Unlock()
}
