package bench

import (
	"sync"
)

// CleanupLedger records every object key successfully written by this run, so the cleanup phase can deterministically
// remove only what the run created. Safe for concurrent appends.
type CleanupLedger struct {
	lock    sync.Mutex
	keys    []string
	seen    map[string]struct{}
	drained bool
}

// NewCleanupLedger returns a new, empty ledger.
func NewCleanupLedger() *CleanupLedger {
	return &CleanupLedger{seen: make(map[string]struct{})}
}

// Append records the given key. Keys are UUID based so collisions are practically impossible, duplicates are still
// discarded defensively. Appends after the ledger has been drained are discarded.
func (c *CleanupLedger) Append(key string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.drained {
		return
	}

	if _, ok := c.seen[key]; ok {
		return
	}

	c.seen[key] = struct{}{}
	c.keys = append(c.keys, key)
}

// Len returns the number of keys recorded so far.
func (c *CleanupLedger) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.keys)
}

// Drain returns the recorded keys, clearing the ledger; subsequent calls return <nil>.
func (c *CleanupLedger) Drain() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.drained {
		return nil
	}

	keys := c.keys

	c.keys, c.seen, c.drained = nil, nil, true

	return keys
}
