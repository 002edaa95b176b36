// Package imageloader fetches result images off the UI loop, keeps recently
// used ones in memory, and renders them as terminal thumbnails.
package imageloader

import (
	"context"
	"errors"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"

	"photogrid/internal/domain"
	"photogrid/internal/eventbus"
)

var (
	ErrFetch  = errors.New("image fetch failed")
	ErrDecode = errors.New("image decode failed")
	ErrClosed = errors.New("image loader closed")
)

const (
	DefaultCacheSize = 256
	DefaultPoolSize  = 4
	DefaultMaxPixels = 40_000_000
	maxImageBytes    = 10 << 20
)

// Loader loads images by URL. Safe for concurrent use.
type Loader struct {
	httpClient *http.Client
	cache      *lru.Cache[string, image.Image]
	cacheSize  int
	poolSize   int
	maxPixels  int
	group      singleflight.Group
	pool       *ants.Pool
	bus        eventbus.EventBus
	log        zerolog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

// Option configures a Loader
type Option func(*Loader) error

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) error {
		if c == nil {
			return fmt.Errorf("nil http client")
		}
		l.httpClient = c
		return nil
	}
}

// WithCacheSize sets how many decoded images are kept
func WithCacheSize(n int) Option {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("cache size must be positive, got %d", n)
		}
		l.cacheSize = n
		return nil
	}
}

// WithPoolSize sets how many prefetches run at once
func WithPoolSize(n int) Option {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("pool size must be positive, got %d", n)
		}
		l.poolSize = n
		return nil
	}
}

// WithMaxPixels rejects images whose declared width*height exceeds n
func WithMaxPixels(n int) Option {
	return func(l *Loader) error {
		if n < 1 {
			return fmt.Errorf("max pixels must be positive, got %d", n)
		}
		l.maxPixels = n
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) error {
		l.log = log.With().Str("component", "imageloader").Logger()
		return nil
	}
}

// WithEventBus publishes an ImageFailedEvent for every failed load
func WithEventBus(bus eventbus.EventBus) Option {
	return func(l *Loader) error {
		l.bus = bus
		return nil
	}
}

// New creates a Loader. Close releases its worker pool.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		cacheSize:  DefaultCacheSize,
		poolSize:   DefaultPoolSize,
		maxPixels:  DefaultMaxPixels,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	cache, err := lru.New[string, image.Image](l.cacheSize)
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(l.poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	l.cache = cache
	l.pool = pool
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l, nil
}

// Cached returns the image for url if it is already loaded
func (l *Loader) Cached(url string) (image.Image, bool) {
	return l.cache.Get(url)
}

// Load returns the decoded image at url, fetching it at most once for
// concurrent callers. The fetch belongs to the loader: a caller giving up
// does not abort it for others, and Close aborts it for everyone.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}
	if l.ctx.Err() != nil {
		return nil, ErrClosed
	}

	ch := l.group.DoChan(url, func() (interface{}, error) {
		img, err := l.fetch(l.ctx, url)
		if err != nil {
			return nil, err
		}
		l.cache.Add(url, img)
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.ctx.Done():
		return nil, ErrClosed
	case res := <-ch:
		if res.Err != nil {
			l.fail(url, res.Err)
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > l.maxPixels/cfg.Height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, l.maxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	l.log.Debug().Str("url", url).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).Msg("image loaded")
	return img, nil
}

func (l *Loader) fail(url string, err error) {
	l.log.Warn().Err(err).Str("url", url).Msg("image load failed")
	if l.bus != nil {
		l.bus.Publish(domain.ImageFailedEvent{URL: url, Err: err})
	}
}

// Prefetch queues loads for urls that are not cached yet and returns how many
// were queued. URLs that do not fit in the pool are skipped.
func (l *Loader) Prefetch(urls []string) int {
	queued := 0
	for _, url := range urls {
		if url == "" || l.cache.Contains(url) {
			continue
		}
		u := url
		err := l.pool.Submit(func() {
			if _, err := l.Load(l.ctx, u); err != nil {
				l.log.Debug().Err(err).Str("url", u).Msg("prefetch failed")
			}
		})
		if err != nil {
			if errors.Is(err, ants.ErrPoolOverload) {
				continue
			}
			l.log.Debug().Err(err).Msg("prefetch stopped")
			break
		}
		queued++
	}
	return queued
}

// Close cancels outstanding prefetches and stops the worker pool
func (l *Loader) Close() {
	l.cancel()
	l.pool.Release()
}
