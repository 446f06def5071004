package watcher

import (
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ChangeFilter tells real content changes apart from touch-only writes.
// Editors and some tools rewrite files byte-identically; reconfiguring on
// those would churn for nothing.
type ChangeFilter struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewChangeFilter creates an empty filter.
func NewChangeFilter() *ChangeFilter {
	return &ChangeFilter{hashes: make(map[string]uint64)}
}

// Changed reports whether the file's content differs from the last time it
// was seen. Unreadable files count as changed so removals still trigger.
func (f *ChangeFilter) Changed(path string) bool {
	data, err := os.ReadFile(path) // #nosec G304 -- watched project file
	if err != nil {
		f.mu.Lock()
		_, known := f.hashes[path]
		delete(f.hashes, path)
		f.mu.Unlock()
		return known
	}

	sum := xxhash.Sum64(data)
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, known := f.hashes[path]
	f.hashes[path] = sum
	return !known || prev != sum
}

// Prime records the current content of the given files without reporting
// them as changed, so the first save after priming is judged against the
// on-disk state at configure time.
func (f *ChangeFilter) Prime(paths []string) {
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- watched project file
		if err != nil {
			continue
		}
		sum := xxhash.Sum64(data)
		f.mu.Lock()
		f.hashes[path] = sum
		f.mu.Unlock()
	}
}

// Reset forgets all recorded hashes.
func (f *ChangeFilter) Reset() {
	f.mu.Lock()
	f.hashes = make(map[string]uint64)
	f.mu.Unlock()
}
