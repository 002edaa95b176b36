package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchDispatched  EventType = "SearchDispatched"
	EventSearchSkipped     EventType = "SearchSkipped"
	EventResultsDelivered  EventType = "ResultsDelivered"
	EventSearchFailed      EventType = "SearchFailed"
	EventResponseDiscarded EventType = "ResponseDiscarded"
	EventImageFailed       EventType = "ImageFailed"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchDispatchedEvent is emitted when a settled term starts a remote query
type SearchDispatchedEvent struct {
	Seq     uint64
	Term    string
	ChainID string
}

func (e SearchDispatchedEvent) Type() EventType { return EventSearchDispatched }

// SearchSkippedEvent is emitted when a settled term is blank and no fetch is made
type SearchSkippedEvent struct {
	Seq uint64
}

func (e SearchSkippedEvent) Type() EventType { return EventSearchSkipped }

// ResultsDeliveredEvent is emitted when a result set becomes the current one
type ResultsDeliveredEvent struct {
	Seq   uint64
	Term  string
	Count int
}

func (e ResultsDeliveredEvent) Type() EventType { return EventResultsDelivered }

// SearchFailedEvent is emitted when the latest query fails
type SearchFailedEvent struct {
	Seq  uint64
	Term string
	Err  error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ResponseDiscardedEvent is emitted when a superseded response arrives
type ResponseDiscardedEvent struct {
	Seq    uint64
	Latest uint64
	Term   string
}

func (e ResponseDiscardedEvent) Type() EventType { return EventResponseDiscarded }

// ImageFailedEvent is emitted when a preview image cannot be loaded
type ImageFailedEvent struct {
	URL string
	Err error
}

func (e ImageFailedEvent) Type() EventType { return EventImageFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
