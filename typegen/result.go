package typegen

import (
	"sort"
	"sync"
)

// Result records the outcome of one generation run.
// Safe for concurrent use by emission workers.
type Result struct {
	// RunID identifies the run in logs
	RunID string

	// Output is the directory the run wrote to
	Output string

	// Declarations is the number of resolved declarations
	Declarations int

	// Clients is the number of rendered API clients
	Clients int

	mu      sync.Mutex
	written []string
	failed  map[string]error
	removed []string
}

// NewResult creates an empty result for a run
func NewResult(runID string) *Result {
	return &Result{
		RunID:  runID,
		failed: make(map[string]error),
	}
}

// AddWritten records a successfully written file
func (r *Result) AddWritten(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = append(r.written, path)
}

// AddFailed records a file that could not be written; the run continues
func (r *Result) AddFailed(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[path] = err
}

// AddRemoved records a stale file removed during cleaning
func (r *Result) AddRemoved(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
}

// Written returns written paths, sorted
func (r *Result) Written() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedCopy(r.written)
}

// Removed returns removed paths, sorted
func (r *Result) Removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedCopy(r.removed)
}

// Failed returns a copy of the per-file failures
func (r *Result) Failed() map[string]error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]error, len(r.failed))
	for k, v := range r.failed {
		out[k] = v
	}
	return out
}

// HasFailures reports whether any file failed
func (r *Result) HasFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failed) > 0
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
