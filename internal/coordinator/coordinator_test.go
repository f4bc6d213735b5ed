package coordinator_test

import (
	"sync"
	"testing"

	"github.com/dredd-go/dredd/internal/coordinator"
)

func TestIDCounter_ClaimIsContiguousAndSequential(t *testing.T) {
	c := coordinator.NewIDCounter()

	r1 := c.Claim(3)
	r2 := c.Claim(2)

	if r1.Lo != 0 || r1.Hi != 3 {
		t.Fatalf("got first range %+v", r1)
	}
	if r2.Lo != 3 || r2.Hi != 5 {
		t.Fatalf("got second range %+v", r2)
	}
	if c.Total() != 5 {
		t.Fatalf("got total %d, want 5", c.Total())
	}
}

func TestIDCounter_ClaimZeroDoesNotAdvance(t *testing.T) {
	c := coordinator.NewIDCounter()
	c.Claim(0)
	r := c.Claim(1)
	if r.Lo != 0 {
		t.Fatalf("expected Claim(0) to leave the counter at 0, got %+v", r)
	}
}

func TestIDCounter_ConcurrentClaimsNeverOverlap(t *testing.T) {
	c := coordinator.NewIDCounter()
	const n = 200

	var wg sync.WaitGroup
	results := make([]struct{ lo, hi int }, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := c.Claim(2)
			results[i] = struct{ lo, hi int }{r.Lo, r.Hi}
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, r := range results {
		for id := r.lo; id < r.hi; id++ {
			if seen[id] {
				t.Fatalf("id %d claimed twice", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != n*2 {
		t.Fatalf("got %d distinct ids, want %d", len(seen), n*2)
	}
}

func TestFileGuard_SecondVisitIsRejected(t *testing.T) {
	g := coordinator.NewFileGuard()

	if !g.Visit("a.cc") {
		t.Fatalf("expected the first visit to succeed")
	}
	if g.Visit("a.cc") {
		t.Fatalf("expected the second visit to be rejected")
	}
	if !g.Visit("b.cc") {
		t.Fatalf("expected a different filename to succeed")
	}
}
