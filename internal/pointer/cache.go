// Package pointer tracks the server's cursor cache and the client-visible
// pointer state (position, visibility, current image).
package pointer

import (
	"sync"

	"github.com/rcarmo/rdpauto/internal/rdperr"
)

// maxCacheEntries caps the cache regardless of what the server negotiates,
// matching the largest cache size any RDP server in practice requests.
const maxCacheEntries = 25

// Entry is one decoded cursor image (MS-RDPBCGR 2.2.9.1.1.4.4).
type Entry struct {
	Width, Height      int
	HotspotX, HotspotY int
	RGBA               []byte
}

// Cache is the fixed-capacity pointer cache plus the scalar cursor state
// (MS-RDPBCGR 2.2.9.1.1.4). It is mutated only by the session's receive
// loop; reads (for a UI or automation snapshot) take the same lock.
type Cache struct {
	mu sync.Mutex

	capacity int
	entries  []*Entry

	position     struct{ x, y int }
	visible      bool
	currentIndex int
}

// NewCache creates a pointer cache with the default 25-entry capacity.
// Capacity is narrowed by SetCapacity once the Pointer capability set is
// negotiated with the server.
func NewCache() *Cache {
	return &Cache{
		capacity: maxCacheEntries,
		entries:  make([]*Entry, maxCacheEntries),
	}
}

// SetCapacity narrows the cache to min(negotiated, 25) slots. Existing
// entries beyond the new capacity are dropped.
func (c *Cache) SetCapacity(negotiated int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	capacity := negotiated
	if capacity > maxCacheEntries {
		capacity = maxCacheEntries
	}
	if capacity < 1 {
		capacity = 1
	}

	entries := make([]*Entry, capacity)
	copy(entries, c.entries)

	c.capacity = capacity
	c.entries = entries
}

// New stores entry at index, unconditionally replacing any prior occupant,
// and makes it the current, visible pointer.
func (c *Cache) New(index int, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.entries) {
		return rdperr.Capability("pointer cache index %d out of range [0,%d)", index, len(c.entries))
	}

	c.entries[index] = &entry
	c.currentIndex = index
	c.visible = true

	return nil
}

// Cached selects a previously-stored entry as the current pointer image.
// Referencing an empty slot is a protocol error (spec invariant).
func (c *Cache) Cached(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.entries) || c.entries[index] == nil {
		return rdperr.Protocol("pointer cache index %d is empty", index)
	}

	c.currentIndex = index
	c.visible = true

	return nil
}

// Position updates the cursor position without touching the cached image.
func (c *Cache) Position(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.position.x, c.position.y = x, y
}

// SystemNull hides the pointer.
func (c *Cache) SystemNull() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = false
}

// SystemDefault shows the platform's default pointer, clearing any cached
// custom cursor selection.
func (c *Cache) SystemDefault() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = true
	c.currentIndex = -1
}

// Snapshot is a copy-on-read view of the cursor state for a consumer that
// wants to render or report the current pointer.
type Snapshot struct {
	X, Y    int
	Visible bool
	Current *Entry
}

// Snapshot returns the current cursor position, visibility and image.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{X: c.position.x, Y: c.position.y, Visible: c.visible}

	if c.currentIndex >= 0 && c.currentIndex < len(c.entries) {
		snap.Current = c.entries[c.currentIndex]
	}

	return snap
}
