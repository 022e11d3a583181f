package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

// DefaultCleanupInterval is how often the in-memory cache sweeps expired entries
const DefaultCleanupInterval = 5 * time.Minute

type idEntry struct {
	customer  *customer.Customer
	expiresAt time.Time
}

type emailEntry struct {
	id        uuid.UUID
	expiresAt time.Time
}

// InMemoryCustomerCache implements CustomerCache in process memory.
// Entries are not shared across instances.
type InMemoryCustomerCache struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]idEntry
	byEmail   map[string]emailEntry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCustomerCache creates a cache and starts a goroutine that sweeps
// expired entries every cleanupInterval. A zero interval disables sweeping.
func NewInMemoryCustomerCache(ttl, cleanupInterval time.Duration) *InMemoryCustomerCache {
	c := &InMemoryCustomerCache{
		byID:     make(map[uuid.UUID]idEntry),
		byEmail:  make(map[string]emailEntry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	if cleanupInterval > 0 {
		c.wg.Add(1)
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get returns the cached customer for id
func (c *InMemoryCustomerCache) Get(_ context.Context, id uuid.UUID) (*customer.Customer, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byID[id]
	if !ok || c.expired(e.expiresAt) {
		return nil, false, nil
	}
	return e.customer, true, nil
}

// LookupEmail returns the ID cached for email
func (c *InMemoryCustomerCache) LookupEmail(_ context.Context, email string) (uuid.UUID, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byEmail[valueobject.NormalizeEmail(email)]
	if !ok || c.expired(e.expiresAt) {
		return uuid.Nil, false, nil
	}
	return e.id, true, nil
}

// Set stores the customer and its email index
func (c *InMemoryCustomerCache) Set(_ context.Context, cust *customer.Customer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp := c.expiry()
	c.byID[cust.ID()] = idEntry{customer: cust, expiresAt: exp}
	c.byEmail[cust.Email().Value()] = emailEntry{id: cust.ID(), expiresAt: exp}
	return nil
}

// Invalidate removes the customer entry and the given email index entries
func (c *InMemoryCustomerCache) Invalidate(_ context.Context, id uuid.UUID, emails ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byID, id)
	for _, e := range emails {
		delete(c.byEmail, valueobject.NormalizeEmail(e))
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryCustomerCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Len returns the number of customer entries, expired ones included
func (c *InMemoryCustomerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

func (c *InMemoryCustomerCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *InMemoryCustomerCache) expired(at time.Time) bool {
	return !at.IsZero() && !c.now().Before(at)
}

func (c *InMemoryCustomerCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryCustomerCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, e := range c.byID {
		if c.expired(e.expiresAt) {
			delete(c.byID, id)
		}
	}
	for email, e := range c.byEmail {
		if c.expired(e.expiresAt) {
			delete(c.byEmail, email)
		}
	}
}

var _ CustomerCache = (*InMemoryCustomerCache)(nil)
