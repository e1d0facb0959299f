// Package input turns window backend events into backend-neutral events
// and tracks which keys are held.
package input

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventScroll
)

// Key identifies the keys the demo reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeyZ
	KeyX
	KeyEscape
	KeyF12
)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyW:       "w",
	KeyA:       "a",
	KeyS:       "s",
	KeyD:       "d",
	KeyZ:       "z",
	KeyX:       "x",
	KeyEscape:  "escape",
	KeyF12:     "f12",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// Event represents a processed input event. Width and Height are set for
// resizes, X and Y for mouse moves (window pixels) and ScrollY for the
// wheel.
type Event struct {
	Type    EventType
	Key     Key
	Width   int
	Height  int
	X, Y    float32
	ScrollY float32
}

// Input collects the events of one frame.
type Input struct {
	events []Event
	held   map[Key]bool
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[Key]bool),
	}
}

// Begin drops the previous frame's events. Held keys persist.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Push records an event from the window backend. Auto-repeated key downs
// are dropped so IsKeyPressed fires once per physical press.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventNone:
		return
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		if e.Key == KeyUnknown {
			return
		}
		if i.held[e.Key] {
			return
		}
		i.held[e.Key] = true
	case EventKeyUp:
		if e.Key == KeyUnknown {
			return
		}
		delete(i.held, e.Key)
	}
	i.events = append(i.events, e)
}

// Events returns the events since the last Begin.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// IsHeld reports whether key is currently down.
func (i *Input) IsHeld(key Key) bool {
	return i.held[key]
}

// Quit reports whether the window asked to close.
func (i *Input) Quit() bool {
	return i.quit
}

// RequestQuit marks the application for shutdown.
func (i *Input) RequestQuit() {
	i.quit = true
}
