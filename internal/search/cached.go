package search

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"photogrid/internal/cache"
	"photogrid/internal/domain"
)

// CachedSearcher answers repeated terms from a cache and collapses identical
// concurrent misses into a single upstream request.
type CachedSearcher struct {
	next  Searcher
	cache cache.Cache
	group singleflight.Group
	log   zerolog.Logger
}

// NewCachedSearcher wraps next with c
func NewCachedSearcher(next Searcher, c cache.Cache, log zerolog.Logger) *CachedSearcher {
	if c == nil {
		c = cache.Nop{}
	}
	return &CachedSearcher{
		next:  next,
		cache: c,
		log:   log.With().Str("component", "search-cache").Logger(),
	}
}

func (s *CachedSearcher) Search(ctx context.Context, term string) ([]domain.Photo, error) {
	if photos, ok := s.cache.Get(term); ok {
		s.log.Debug().Str("term", term).Msg("cache hit")
		return photos, nil
	}

	// The shared request outlives any one caller. Callers that join it stop
	// waiting on their own ctx; the upstream client timeout bounds the call.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(cache.Key(term), func() (interface{}, error) {
		photos, err := s.next.Search(shared, term)
		if err != nil {
			return nil, err
		}
		s.cache.Put(term, photos)
		return photos, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]domain.Photo), nil
	}
}
