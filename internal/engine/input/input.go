// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
}

// Action is a host command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionTogglePause
	ActionNextPalette
	ActionCapture
)

func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionTogglePause:
		return "pause"
	case ActionNextPalette:
		return "next-palette"
	case ActionCapture:
		return "capture"
	default:
		return "none"
	}
}

// DefaultBindings maps keys to host actions.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_SPACE:  ActionTogglePause,
	sdl.SCANCODE_N:      ActionNextPalette,
	sdl.SCANCODE_F12:    ActionCapture,
}

// Input handles all input processing.
type Input struct {
	events   []Event
	bindings map[sdl.Scancode]Action
}

// New creates a new input handler using DefaultBindings.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		bindings: DefaultBindings,
	}
}

// Update polls SDL events and converts them to input events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			i.events = append(i.events, e)
			if e.Type == EventQuit {
				return true
			}
		}
	}

	return false
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}
	}
	return Event{}, false
}

// Actions returns the bound actions triggered by the last Update, in order.
func (i *Input) Actions() []Action {
	return Resolve(i.events, i.bindings)
}

// Resolve maps key presses to actions. Key repeats and unbound keys are
// ignored.
func Resolve(events []Event, bindings map[sdl.Scancode]Action) []Action {
	var actions []Action
	for _, e := range events {
		if e.Type != EventKeyDown || e.Repeat {
			continue
		}
		if a, ok := bindings[e.Key]; ok && a != ActionNone {
			actions = append(actions, a)
		}
	}
	return actions
}

// LastResize returns the most recent resize from the last Update.
func (i *Input) LastResize() (width, height int, ok bool) {
	for j := len(i.events) - 1; j >= 0; j-- {
		if e := i.events[j]; e.Type == EventWindowResize {
			return e.Width, e.Height, true
		}
	}
	return 0, 0, false
}
