package eventbus

import (
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"photogrid/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchDispatched  = domain.EventSearchDispatched
	EventSearchSkipped     = domain.EventSearchSkipped
	EventResultsDelivered  = domain.EventResultsDelivered
	EventSearchFailed      = domain.EventSearchFailed
	EventResponseDiscarded = domain.EventResponseDiscarded
	EventImageFailed       = domain.EventImageFailed
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
)

// Re-export domain event types
type SearchDispatchedEvent = domain.SearchDispatchedEvent
type SearchSkippedEvent = domain.SearchSkippedEvent
type ResultsDeliveredEvent = domain.ResultsDeliveredEvent
type SearchFailedEvent = domain.SearchFailedEvent
type ResponseDiscardedEvent = domain.ResponseDiscardedEvent
type ImageFailedEvent = domain.ImageFailedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// New creates a new event bus
func New(log zerolog.Logger) EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
		log:       log.With().Str("component", "eventbus").Logger(),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers.
// It never blocks; when the queue is full the event is dropped.
func (b *bus) Publish(event DomainEvent) {
	b.log.Debug().Str("event", string(event.Type())).Msg("publishing")

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.log.Warn().Str("event", string(event.Type())).Msg("event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and waits for it to exit
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
	})
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			// Handlers run in order on the dispatcher goroutine so that
			// subscribers observe events in publish order.
			for _, s := range subs {
				b.call(s.handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

func (b *bus) call(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Str("event", string(event.Type())).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("event handler panic")
		}
	}()
	h(event)
}
