// Package enrich looks up richer metadata (title, icon, timestamps) for the
// 32-hex object identifiers embedded in exported names. Lookups are
// best-effort: the pipeline treats every failure as "no metadata".
package enrich

import (
	"context"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Metadata is what a provider knows about one object identifier.
// Title may be empty and the remaining fields are optional.
type Metadata struct {
	Title      string
	Icon       string // icon glyph, usually an emoji
	Created    *time.Time
	LastEdited *time.Time
}

// Provider maps a 32-hex identifier to metadata. A nil Metadata with a nil
// error means the identifier is simply unknown.
type Provider interface {
	Lookup(ctx context.Context, id string) (*Metadata, error)
}

// RetryPolicy bounds how a fallible provider call is retried.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy matches the upstream client defaults: five attempts
// with exponential backoff between one and ten seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, InitialBackoff: time.Second, MaxBackoff: 10 * time.Second}
}

var idRE = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// ValidID reports whether id is a 32-character hex identifier.
func ValidID(id string) bool {
	return idRE.MatchString(id)
}

// Lookup calls p.Lookup under the retry policy and swallows every failure.
// It never returns an error: once the attempts are exhausted the result is
// simply nil, and the caller proceeds without enrichment.
func Lookup(ctx context.Context, p Provider, policy RetryPolicy, id string) *Metadata {
	if p == nil || !ValidID(id) {
		return nil
	}

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	bo := backoff.NewExponentialBackOff()
	if policy.InitialBackoff > 0 {
		bo.InitialInterval = policy.InitialBackoff
	}
	if policy.MaxBackoff > 0 {
		bo.MaxInterval = policy.MaxBackoff
	}
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	meta, err := backoff.RetryWithData(func() (*Metadata, error) {
		return p.Lookup(ctx, id)
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(attempts-1)), ctx))
	if err != nil {
		return nil
	}
	return meta
}
