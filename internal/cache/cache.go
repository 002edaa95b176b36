// Package cache stores search responses by term so repeated queries skip the network.
package cache

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"photogrid/internal/domain"
)

// DefaultTTL is how long a response stays valid; the search API asks clients
// to keep results for a day.
const DefaultTTL = 24 * time.Hour

// Kinds accepted by Open
const (
	KindNone   = "none"
	KindMemory = "memory"
	KindBolt   = "bolt"
)

// ErrUnknownKind is returned by Open for an unsupported cache kind
var ErrUnknownKind = errors.New("cache: unknown kind")

// Cache stores the photos returned for a term
type Cache interface {
	Get(term string) ([]domain.Photo, bool)
	Put(term string, photos []domain.Photo)
	Close() error
}

// Options configures Open
type Options struct {
	Kind string
	Size int
	TTL  time.Duration
	Path string
}

// Open creates the cache described by opts
func Open(opts Options) (Cache, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	switch strings.ToLower(opts.Kind) {
	case "", KindMemory:
		return NewMemory(opts.Size, opts.TTL), nil
	case KindBolt:
		return OpenBolt(opts.Path, opts.TTL)
	case KindNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

// Key returns the cache key for a term. Lookups are case-insensitive.
func Key(term string) string {
	return strings.ToLower(domain.NormalizeTerm(term))
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]domain.Photo, bool) { return nil, false }
func (Nop) Put(string, []domain.Photo)        {}
func (Nop) Close() error                      { return nil }

func clonePhotos(photos []domain.Photo) []domain.Photo {
	out := make([]domain.Photo, len(photos))
	copy(out, photos)
	return out
}
