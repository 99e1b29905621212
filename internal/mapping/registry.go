// Package mapping turns per-entry proposals into the final, collision-free
// path mapping: one claimed-name registry per parent directory, and a total
// original→final table built before any output is written.
package mapping

import (
	"fmt"

	"github.com/bianoble/export-tidy/internal/tree"
)

// ExistsFunc reports whether parent/name is already taken at the
// destination. Used when merging into a pre-populated directory so
// generated names never overwrite unrelated files.
type ExistsFunc func(parent, name string) bool

// Registry assigns injective final names. One namespace per final parent
// directory, scoped to a single pipeline run.
type Registry struct {
	claimed map[string]map[string]bool
	exists  ExistsFunc // nil when the destination starts empty
}

// NewRegistry creates an empty registry. exists may be nil.
func NewRegistry(exists ExistsFunc) *Registry {
	return &Registry{claimed: make(map[string]map[string]bool), exists: exists}
}

// Reserve claims a final name under parent. The first caller proposing a
// name keeps it; later callers get "name (k)" with the smallest free k.
// Deterministic given call order.
func (r *Registry) Reserve(parent, name string) string {
	used := r.claimed[parent]
	if used == nil {
		used = make(map[string]bool)
		r.claimed[parent] = used
	}

	if r.free(parent, used, name) {
		used[name] = true
		return name
	}

	stem, ext := tree.SplitExt(name)
	for k := 1; ; k++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, k, ext)
		if r.free(parent, used, candidate) {
			used[candidate] = true
			return candidate
		}
	}
}

func (r *Registry) free(parent string, used map[string]bool, name string) bool {
	if used[name] {
		return false
	}
	if r.exists != nil && r.exists(parent, name) {
		return false
	}
	return true
}
