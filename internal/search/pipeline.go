// Package search turns settled search terms into result sets.
//
// A Pipeline tags every dispatched term with an increasing sequence number.
// Dispatch and Complete run on the consumer's loop (the UI loop in the TUI);
// Execute performs the network call and may run on any goroutine. Only the
// outcome of the most recently dispatched term is ever accepted.
package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"photogrid/internal/domain"
	"photogrid/internal/eventbus"
)

// Searcher performs one remote query
type Searcher interface {
	Search(ctx context.Context, term string) ([]domain.Photo, error)
}

// State is the lifecycle of the current query chain
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Verdict is how Complete classified an outcome
type Verdict int

const (
	// Accepted outcomes carry the new current result set
	Accepted Verdict = iota
	// Stale outcomes belong to a superseded term and are dropped silently
	Stale
	// Failed outcomes are the latest term's failure; the current set is kept
	Failed
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Stale:
		return "stale"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Request is one dispatched query
type Request struct {
	Seq     uint64
	Term    string
	ChainID string
	ctx     context.Context
}

// Outcome is the result of executing a Request
type Outcome struct {
	Seq     uint64
	Term    string
	ChainID string
	Photos  []domain.Photo
	Err     error
}

// Pipeline coordinates dispatch, execution and completion of queries
type Pipeline struct {
	searcher Searcher
	bus      eventbus.EventBus
	log      zerolog.Logger

	root       context.Context
	rootCancel context.CancelFunc

	seq      uint64
	inflight context.CancelFunc
	state    State
	current  domain.ResultSet
	closed   bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log.With().Str("component", "search").Logger()
	}
}

// WithEventBus publishes pipeline events on bus
func WithEventBus(bus eventbus.EventBus) Option {
	return func(p *Pipeline) {
		p.bus = bus
	}
}

// New creates a pipeline backed by searcher
func New(searcher Searcher, opts ...Option) *Pipeline {
	root, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		searcher:   searcher,
		log:        zerolog.Nop(),
		root:       root,
		rootCancel: cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dispatch starts a new query chain for term. Any in-flight request is
// cancelled and its eventual outcome will be reported as Stale.
//
// A blank term never reaches the network: Dispatch returns false, the
// in-flight request is still invalidated and the current result set stays.
func (p *Pipeline) Dispatch(term string) (Request, bool) {
	if p.closed {
		return Request{}, false
	}

	p.seq++
	if p.inflight != nil {
		p.inflight()
		p.inflight = nil
	}

	if domain.IsBlank(term) {
		p.state = StateIdle
		p.log.Debug().Uint64("seq", p.seq).Msg("blank term, skipping fetch")
		p.publish(eventbus.SearchSkippedEvent{Seq: p.seq})
		return Request{}, false
	}

	term = domain.NormalizeTerm(term)
	ctx, cancel := context.WithCancel(p.root)
	p.inflight = cancel
	p.state = StateRequesting

	req := Request{
		Seq:     p.seq,
		Term:    term,
		ChainID: uuid.NewString(),
		ctx:     ctx,
	}
	p.log.Info().Uint64("seq", req.Seq).Str("chain", req.ChainID).Str("term", term).Msg("dispatching search")
	p.publish(eventbus.SearchDispatchedEvent{Seq: req.Seq, Term: term, ChainID: req.ChainID})
	return req, true
}

// Execute performs the remote query for req. It is safe to call from any
// goroutine and does not touch pipeline state.
func (p *Pipeline) Execute(req Request) Outcome {
	out := Outcome{Seq: req.Seq, Term: req.Term, ChainID: req.ChainID}
	ctx := req.ctx
	if ctx == nil {
		out.Err = ErrClosed
		return out
	}
	if err := ctx.Err(); err != nil {
		out.Err = fmt.Errorf("%w: %v", ErrSuperseded, err)
		return out
	}

	photos, err := p.searcher.Search(ctx, req.Term)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ErrSuperseded, err)
		}
		out.Err = err
		return out
	}
	out.Photos = photos
	return out
}

// Complete classifies an outcome. Accepted outcomes become the current
// result set; anything not belonging to the latest dispatch is Stale.
func (p *Pipeline) Complete(o Outcome) (domain.ResultSet, Verdict) {
	if p.closed || o.Seq != p.seq {
		p.log.Debug().
			Uint64("seq", o.Seq).
			Uint64("latest", p.seq).
			Str("term", o.Term).
			Msg("discarding stale response")
		p.publish(eventbus.ResponseDiscardedEvent{Seq: o.Seq, Latest: p.seq, Term: o.Term})
		return p.current, Stale
	}

	p.inflight = nil

	if o.Err != nil {
		p.state = StateFailed
		p.log.Warn().Err(o.Err).Uint64("seq", o.Seq).Str("chain", o.ChainID).Str("term", o.Term).Msg("search failed")
		p.publish(eventbus.SearchFailedEvent{Seq: o.Seq, Term: o.Term, Err: o.Err})
		return p.current, Failed
	}

	p.state = StateSucceeded
	p.current = domain.NewResultSet(o.Seq, o.Term, o.Photos)
	p.log.Info().Uint64("seq", o.Seq).Str("chain", o.ChainID).Int("count", p.current.Len()).Msg("results delivered")
	p.publish(eventbus.ResultsDeliveredEvent{Seq: o.Seq, Term: o.Term, Count: p.current.Len()})
	return p.current, Accepted
}

// Retire returns a finished chain to Idle
func (p *Pipeline) Retire() {
	if p.state == StateSucceeded || p.state == StateFailed {
		p.state = StateIdle
	}
}

// State returns the state of the latest chain
func (p *Pipeline) State() State {
	return p.state
}

// Current returns the current result set
func (p *Pipeline) Current() domain.ResultSet {
	return p.current
}

// Latest returns the sequence number of the most recent dispatch
func (p *Pipeline) Latest() uint64 {
	return p.seq
}

// Close cancels all in-flight work. Outcomes arriving later are Stale.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.inflight = nil
	p.state = StateIdle
	p.rootCancel()
}

// Serve runs a single-consumer loop: terms are dispatched as they arrive,
// fetches run concurrently, and deliver/fail are always called from the
// goroutine running Serve. Serve returns when terms is closed and all
// fetches have finished, or when ctx is done.
func (p *Pipeline) Serve(ctx context.Context, terms <-chan string, deliver func(domain.ResultSet), fail func(Outcome)) error {
	g, gctx := errgroup.WithContext(ctx)
	outcomes := make(chan Outcome)
	pending := 0

	defer func() {
		p.Close()
		// unblock fetchers still trying to report
		go func() {
			for range outcomes {
			}
		}()
		_ = g.Wait()
		close(outcomes)
	}()

	for terms != nil || pending > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case term, ok := <-terms:
			if !ok {
				terms = nil
				continue
			}
			req, ok := p.Dispatch(term)
			if !ok {
				continue
			}
			pending++
			g.Go(func() error {
				o := p.Execute(req)
				select {
				case outcomes <- o:
				case <-gctx.Done():
				}
				return nil
			})

		case o := <-outcomes:
			pending--
			rs, verdict := p.Complete(o)
			switch verdict {
			case Accepted:
				if deliver != nil {
					deliver(rs)
				}
			case Failed:
				if fail != nil {
					fail(o)
				}
			}
			p.Retire()
		}
	}
	return nil
}

func (p *Pipeline) publish(e eventbus.DomainEvent) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}
