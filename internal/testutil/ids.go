package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates UUID-shaped identifiers with an increasing
// suffix: 00000000-0000-7000-8000-000000000001, ...000002, and so on.
//
// Unlike license.FixedGenerator it never runs out, which suits tests that
// create an unknown number of attachments.
//
// Thread-safety: SequentialIDs is safe for concurrent use.
type SequentialIDs struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next identifier.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-7000-8000-%012d", g.n)
}
