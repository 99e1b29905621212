package mapping

import (
	"context"
	"sort"
	"time"

	"github.com/bianoble/export-tidy/internal/rename"
	"github.com/bianoble/export-tidy/internal/tree"
)

// Proposer supplies collision-unaware proposals; satisfied by
// *rename.Renamer.
type Proposer interface {
	Propose(ctx context.Context, original string, isDir bool) rename.Proposal
}

// Resolved is the final position of one original path.
type Resolved struct {
	Path       string
	Created    *time.Time
	LastEdited *time.Time
}

// Collision records a proposed name that more than one entry wanted.
type Collision struct {
	FinalName     string // parent-qualified contested name
	OriginalPaths []string
}

// FinalMapping maps every original path to its final path. Entries resolve
// on demand, ancestors first and each exactly once, so the table stays
// injective per parent and reproducible for a given enumeration order.
// Resolving a path not seen during enumeration (a stray link target)
// synthesizes a mapping through the same proposer and registry.
type FinalMapping struct {
	proposer Proposer
	registry *Registry
	dirs     map[string]bool // original paths known to be directories

	entries   map[string]Resolved
	claimants map[string][]string // finalParent + "\x00" + proposed name -> originals
}

// New creates an empty mapping for one run. dirs is the original-tree
// directory snapshot, used to classify on-demand ancestors.
func New(proposer Proposer, registry *Registry, dirs map[string]bool) *FinalMapping {
	if dirs == nil {
		dirs = map[string]bool{}
	}
	return &FinalMapping{
		proposer:  proposer,
		registry:  registry,
		dirs:      dirs,
		entries:   make(map[string]Resolved),
		claimants: make(map[string][]string),
	}
}

// Resolve returns the final position of original, computing and recording
// it on first use. The tree root maps to itself.
func (m *FinalMapping) Resolve(ctx context.Context, original string) Resolved {
	original = tree.Normalize(original)
	if original == "" {
		return Resolved{}
	}
	if r, ok := m.entries[original]; ok {
		return r
	}

	p := m.proposer.Propose(ctx, original, m.dirs[original])
	parent := m.Resolve(ctx, p.Parent)
	assigned := m.registry.Reserve(parent.Path, p.Name)

	key := parent.Path + "\x00" + p.Name
	m.claimants[key] = append(m.claimants[key], original)

	r := Resolved{
		Path:       tree.Join(parent.Path, assigned),
		Created:    p.Created,
		LastEdited: p.LastEdited,
	}
	m.entries[original] = r
	return r
}

// Lookup returns the recorded position of original without extending the
// mapping.
func (m *FinalMapping) Lookup(original string) (Resolved, bool) {
	r, ok := m.entries[tree.Normalize(original)]
	return r, ok
}

// Len reports how many original paths have been resolved.
func (m *FinalMapping) Len() int { return len(m.entries) }

// Collisions lists every proposed name that was claimed by two or more
// entries, sorted by contested name for stable output.
func (m *FinalMapping) Collisions() []Collision {
	var out []Collision
	for key, originals := range m.claimants {
		if len(originals) < 2 {
			continue
		}
		parent, name := splitKey(key)
		out = append(out, Collision{
			FinalName:     tree.Join(parent, name),
			OriginalPaths: append([]string(nil), originals...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinalName < out[j].FinalName })
	return out
}

func splitKey(key string) (parent, name string) {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}
