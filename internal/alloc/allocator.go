package alloc

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// Error reports a failed allocation.
type Error struct {
	Size     uint64
	Site     string
	Injected bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("out of memory (could not allocate %d bytes) (%s)", e.Size, e.Site)
}

// Allocator charges allocations against an optional budget.
type Allocator struct {
	mu sync.Mutex

	// limit is the budget in bytes, 0 for unlimited
	limit uint64

	// inUse is the total charged so far
	inUse uint64

	// failAt is the 1-based index of the allocation that is forced to fail
	failAt uint64

	sites map[string]*SiteStats
	stats Stats
}

// SiteStats aggregates the allocations made at one call site.
type SiteStats struct {
	Site  string
	Count uint64
	Bytes uint64
}

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64 // Number of successful allocations
	TotalBytesAlloc  uint64 // Total bytes charged
	LargestAlloc     uint64 // Largest single allocation
	Failures         uint64 // Allocations refused
}

// New creates an allocator with the given budget in bytes. A limit of 0
// means unlimited.
func New(limit uint64) *Allocator {
	return &Allocator{
		limit: limit,
		sites: make(map[string]*SiteStats),
	}
}

// Site returns "file:line" of the caller skip frames above Site.
func Site(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// Alloc charges size bytes made at site.
func (a *Allocator) Alloc(size uint64, site string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	index := a.stats.TotalAllocations + a.stats.Failures + 1
	if a.failAt != 0 && index == a.failAt {
		a.stats.Failures++
		return &Error{Size: size, Site: site, Injected: true}
	}
	if a.limit != 0 && a.inUse+size > a.limit {
		a.stats.Failures++
		return &Error{Size: size, Site: site}
	}

	a.inUse += size

	s, ok := a.sites[site]
	if !ok {
		s = &SiteStats{Site: site}
		a.sites[site] = s
	}
	s.Count++
	s.Bytes += size

	a.stats.TotalAllocations++
	a.stats.TotalBytesAlloc += size
	if size > a.stats.LargestAlloc {
		a.stats.LargestAlloc = size
	}
	return nil
}

// AllocHere charges size bytes to the caller's call site.
func (a *Allocator) AllocHere(size uint64) error {
	return a.Alloc(size, Site(1))
}

// FailAt forces the n-th allocation attempt (counting from 1, including
// earlier failures) to fail. 0 disables fault injection.
func (a *Allocator) FailAt(n uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failAt = n
}

// Limit returns the budget in bytes, 0 for unlimited.
func (a *Allocator) Limit() uint64 {
	return a.limit
}

// InUse returns the number of bytes charged so far.
func (a *Allocator) InUse() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Sites returns the per-site totals, largest first.
func (a *Allocator) Sites() []SiteStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]SiteStats, 0, len(a.sites))
	for _, s := range a.sites {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Bytes != result[j].Bytes {
			return result[i].Bytes > result[j].Bytes
		}
		return result[i].Site < result[j].Site
	})
	return result
}

// Reset clears all charges, statistics and fault injection.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.inUse = 0
	a.failAt = 0
	a.sites = make(map[string]*SiteStats)
	a.stats = Stats{}
}
