package cache

import (
	"sync"
	"time"
)

// PageSessionCache holds one value per page session id. Entries idle longer
// than ttl are dropped by Sweep.
type PageSessionCache[T any] struct {
	mu       sync.RWMutex
	sessions map[string]*pageEntry[T]
	ttl      time.Duration
	newValue func() T
	now      func() time.Time
}

type pageEntry[T any] struct {
	value    T
	lastSeen time.Time
}

func NewPageSessionCache[T any](ttl time.Duration, newValue func() T) *PageSessionCache[T] {
	return &PageSessionCache[T]{
		sessions: make(map[string]*pageEntry[T]),
		ttl:      ttl,
		newValue: newValue,
		now:      time.Now,
	}
}

// GetOrCreate returns the session's value, creating it on first use.
func (c *PageSessionCache[T]) GetOrCreate(id string) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if e, ok := c.sessions[id]; ok {
		e.lastSeen = now
		return e.value
	}
	e := &pageEntry[T]{value: c.newValue(), lastSeen: now}
	c.sessions[id] = e
	return e.value
}

func (c *PageSessionCache[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.sessions[id]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *PageSessionCache[T]) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

func (c *PageSessionCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (c *PageSessionCache[T]) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for id, e := range c.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}
