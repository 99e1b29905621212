// Package rename proposes cleaned names for exported entries: it strips the
// trailing 32-hex object identifier from each path segment, optionally folds
// in provider metadata (true title, icon glyph, timestamps), and sanitizes
// the result. Proposals ignore sibling collisions; those are settled later
// by the mapping package.
package rename

import (
	"context"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/bianoble/export-tidy/internal/enrich"
	"github.com/bianoble/export-tidy/internal/tree"
)

// idSuffix matches "<text> <32 hex chars>" at the end of a base-name.
// The separator is a single space; the hex is case-insensitive.
var idSuffix = regexp.MustCompile(`(?i)^(.+) ([0-9a-f]{32})$`)

// Proposal is the renamed position of one entry, computed without regard to
// sibling collisions. Parent is the entry's parent in *original* path terms;
// the final parent is whatever that path resolves to.
type Proposal struct {
	Parent    string // original path of the parent directory
	Name      string // proposed leaf segment, extension included
	Relocated bool   // leaf moved inside its same-named folder

	// Enrichment timestamps. When set they supersede the source timestamp
	// for output metadata.
	Created    *time.Time
	LastEdited *time.Time
}

// Truncation records a cleaned name that exceeded the length cap.
type Truncation struct {
	Path         string // original path of the over-long entry
	OriginalName string // the original segment name
	Length       int    // rune length before the cap applied
}

// Renamer computes proposals. It memoizes per original path, so repeated
// invocations (e.g. triggered from multiple incoming links) always yield the
// identical proposed name, and each identifier is looked up at most once.
type Renamer struct {
	provider    enrich.Provider
	policy      enrich.RetryPolicy
	folderIndex bool
	sourceDirs  map[string]bool // original relative directory paths

	memo      map[string]segment
	truncated []Truncation
}

type segment struct {
	name       string
	created    *time.Time
	lastEdited *time.Time
}

// New creates a Renamer for one pipeline run. sourceDirs is the snapshot of
// every original directory path in the source tree; folderIndex enables the
// move-into-matching-folder rule for markdown leaves.
func New(provider enrich.Provider, policy enrich.RetryPolicy, folderIndex bool, sourceDirs map[string]bool) *Renamer {
	if sourceDirs == nil {
		sourceDirs = map[string]bool{}
	}
	return &Renamer{
		provider:    provider,
		policy:      policy,
		folderIndex: folderIndex,
		sourceDirs:  sourceDirs,
		memo:        make(map[string]segment),
	}
}

// Propose computes the proposal for one original path. isDir distinguishes
// directory entries, which never relocate.
func (r *Renamer) Propose(ctx context.Context, original string, isDir bool) Proposal {
	original = tree.Normalize(original)
	parent := tree.DirOf(original)
	base := path.Base(original)
	seg := r.proposeSegment(ctx, original)

	p := Proposal{
		Parent:     parent,
		Name:       seg.name,
		Created:    seg.created,
		LastEdited: seg.lastEdited,
	}

	// A markdown page whose same-named folder exists in the source tree
	// moves inside that folder as "!index": the page body lives alongside
	// its child pages.
	stem, ext := tree.SplitExt(base)
	if !isDir && r.folderIndex && strings.EqualFold(ext, ".md") {
		if dir := tree.Join(parent, stem); r.sourceDirs[dir] {
			p.Parent = dir
			p.Name = "!index" + ext
			p.Relocated = true
		}
	}
	return p
}

// Truncations returns the "name too long" diagnostics recorded so far.
func (r *Renamer) Truncations() []Truncation {
	out := make([]Truncation, len(r.truncated))
	copy(out, r.truncated)
	return out
}

// proposeSegment cleans the leaf segment of original. Memoized by the full
// original path so ancestor segments rename consistently everywhere.
func (r *Renamer) proposeSegment(ctx context.Context, original string) segment {
	if seg, ok := r.memo[original]; ok {
		return seg
	}

	base := path.Base(original)
	stem, ext := tree.SplitExt(base)

	var seg segment
	if m := idSuffix.FindStringSubmatch(stem); m != nil {
		stripped, id := m[1], m[2]
		newStem := stripped

		// Enrichment is best-effort: any failure leaves the stripped name.
		if meta := enrich.Lookup(ctx, r.provider, r.policy, id); meta != nil {
			if meta.Title != "" {
				newStem = meta.Title
			}
			seg.created = meta.Created
			seg.lastEdited = meta.LastEdited
			if meta.Icon != "" && enrich.IsSingleEmoji(meta.Icon) {
				newStem = meta.Icon + " " + newStem
			}
		}
		seg.name = r.sanitize(original, base, newStem) + ext
	} else {
		seg.name = r.sanitize(original, base, stem) + ext
	}

	r.memo[original] = seg
	return seg
}

func (r *Renamer) sanitize(original, originalName, stem string) string {
	clean, cut := Sanitize(stem)
	if cut {
		r.truncated = append(r.truncated, Truncation{
			Path:         original,
			OriginalName: originalName,
			Length:       len([]rune(stem)),
		})
	}
	return clean
}
