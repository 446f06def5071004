package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *batchRecorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *batchRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	rec := &batchRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Add("/p/CMakeLists.txt")
	d.Add("/p/cmake/opts.cmake")
	d.Add("/p/CMakeLists.txt")

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.batches[0], 2)
	assert.ElementsMatch(t, []string{"/p/CMakeLists.txt", "/p/cmake/opts.cmake"}, rec.batches[0])
}

func TestDebouncerAddResetsWindow(t *testing.T) {
	rec := &batchRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.record)

	d.Add("/p/a.cmake")
	time.Sleep(25 * time.Millisecond)
	d.Add("/p/b.cmake")
	time.Sleep(25 * time.Millisecond)

	// The second Add restarted the window, so nothing fired yet.
	assert.Equal(t, 0, rec.count())

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerFlushDeliversSynchronously(t *testing.T) {
	rec := &batchRecorder{}
	d := NewDebouncer(time.Hour, rec.record)

	d.Add("/p/CMakeLists.txt")
	d.Flush()

	assert.Equal(t, 1, rec.count())
}

func TestDebouncerFlushWithNothingPending(t *testing.T) {
	rec := &batchRecorder{}
	d := NewDebouncer(time.Hour, rec.record)

	d.Flush()
	assert.Equal(t, 0, rec.count())
}
