package overlay

import (
	"sync"
)

// State is the visibility of an overlay.
type State int

// Overlay states.
const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Binding attaches something for as long as the overlay is open. It returns the function
// that detaches it.
type Binding func(o *Overlay) (detach func())

// Overlay is a modal surface owned by a single component. Bindings attached by Open are
// detached by Close no matter how the overlay was closed.
type Overlay struct {
	mu      sync.Mutex
	state   State
	detach  []func()
	onClose func()
}

// New creates a closed overlay. onClose, if set, runs after every transition to Closed.
func New(onClose func()) *Overlay {
	return &Overlay{onClose: onClose}
}

// State returns the current state.
func (o *Overlay) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsOpen reports whether the overlay is open.
func (o *Overlay) IsOpen() bool {
	return o.State() == Open
}

// Open shows the overlay and attaches bindings. Opening an open overlay does nothing and
// the bindings are not attached a second time.
func (o *Overlay) Open(bindings ...Binding) {
	o.mu.Lock()
	if o.state == Open {
		o.mu.Unlock()
		return
	}
	o.state = Open
	o.mu.Unlock()

	detach := make([]func(), 0, len(bindings))
	for _, bind := range bindings {
		if fn := bind(o); fn != nil {
			detach = append(detach, fn)
		}
	}

	o.mu.Lock()
	if o.state != Open {
		// Closed by a binding while attaching.
		o.mu.Unlock()
		for _, fn := range detach {
			fn()
		}
		return
	}
	o.detach = detach
	o.mu.Unlock()
}

// Close hides the overlay and detaches every binding. Closing a closed overlay does
// nothing.
func (o *Overlay) Close() {
	o.mu.Lock()
	if o.state == Closed {
		o.mu.Unlock()
		return
	}
	o.state = Closed
	detach := o.detach
	o.detach = nil
	o.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
	if o.onClose != nil {
		o.onClose()
	}
}

// DismissOn closes the overlay when hub publishes an event that match accepts. A nil
// match accepts every event.
func DismissOn[T any](hub *Hub[T], match func(T) bool) Binding {
	return func(o *Overlay) func() {
		sub := hub.Subscribe(func(event T) {
			if match == nil || match(event) {
				o.Close()
			}
		})
		return sub.Close
	}
}
