package ui

import (
	"image"

	"photogrid/internal/debounce"
	"photogrid/internal/eventbus"
	"photogrid/internal/search"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// debounceMsg fires when the quiet period for a keystroke has elapsed
type debounceMsg struct {
	ticket debounce.Ticket
}

// searchResultMsg carries a finished request back to the UI loop
type searchResultMsg struct {
	outcome search.Outcome
}

// imageLoadedMsg contains the result of loading a preview image
type imageLoadedMsg struct {
	url string
	img image.Image
	err error
}

// clearStatusMsg removes the status line if it is still the one with id
type clearStatusMsg struct {
	id int
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
