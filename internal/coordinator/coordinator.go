// Package coordinator owns the state that must be shared and synchronized
// across every translation unit processed in a run: the single monotonic
// mutation-id counter and the set of files already visited (spec.md §4.E).
package coordinator

import (
	"fmt"
	"sync"

	"github.com/dredd-go/dredd/internal/mutation"
)

// IDCounter is the atomically-claimed global mutation-id space. Every
// translation unit's tree.AssignIDs pass claims its descriptors' id blocks
// from the same Counter, so ids are contiguous and unique across the whole
// run regardless of how many files are processed concurrently (spec.md §5,
// §8 invariant 1).
type IDCounter struct {
	mu   sync.Mutex
	next int
}

// NewIDCounter returns a counter starting at 0.
func NewIDCounter() *IDCounter {
	return &IDCounter{}
}

// Claim reserves the next `count` contiguous ids and returns them as a
// half-open range. A file that claims zero ids (no descriptors survived)
// still participates safely: Claim(0) returns an empty range without
// advancing the counter.
func (c *IDCounter) Claim(count int) mutation.IDRange {
	if count == 0 {
		return mutation.IDRange{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lo := c.next
	c.next += count

	return mutation.IDRange{Lo: lo, Hi: lo + count}
}

// Total reports how many ids have been claimed so far.
func (c *IDCounter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.next
}

// FileGuard tracks which main files have already been processed in this
// run. A compilation database can legitimately list the same source more
// than once (e.g. under two slightly different command lines); the second
// visit is a skip, not an error, since re-mutating an already-rewritten
// file would double-count its ids (spec.md §4.E, §7).
type FileGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewFileGuard returns an empty guard.
func NewFileGuard() *FileGuard {
	return &FileGuard{seen: make(map[string]bool)}
}

// Visit registers filename as processed and reports whether this is the
// first visit. Callers should skip processing (and log a warning) when it
// returns false.
func (g *FileGuard) Visit(filename string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seen[filename] {
		return false
	}
	g.seen[filename] = true

	return true
}

// RepeatVisitWarning formats the diagnostic text for a skipped repeat
// visit, grounded on the phrasing of
// original_source/src/libdredd/src/dredd.cc's duplicate-source handling.
func RepeatVisitWarning(filename string) string {
	return fmt.Sprintf("skipping %s: already processed as the main file of an earlier compile command", filename)
}
