package button

import (
	"errors"
	"fmt"
)

// Manager owns the registered buttons and dispatches callbacks on
// transitions. Records live in an append-only slice in registration
// order; the index map gives O(1) pin lookup. Not safe for concurrent
// use — registration and polling belong to one goroutine.
type Manager struct {
	reader  PinReader
	records []record
	index   map[int]int

	onAnyPress   PinHandler
	onAnyRelease PinHandler
}

// New creates a Manager that reads pin levels from r.
func New(r PinReader) *Manager {
	return &Manager{
		reader: r,
		index:  make(map[int]int),
	}
}

// Register adds a button without per-button callbacks.
// The button starts unpressed; its first press is detected by the
// first Poll that observes the pin high.
func (m *Manager) Register(pin int) error {
	return m.add(record{pin: pin})
}

// RegisterAll registers each pin in order, without callbacks.
// Registration stops at the first error.
func (m *Manager) RegisterAll(pins ...int) error {
	for _, pin := range pins {
		if err := m.Register(pin); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFunc adds a button with per-button callbacks. Both callbacks
// must be supplied; there is no partial registration at this level.
func (m *Manager) RegisterFunc(pin int, onPress, onRelease Handler) error {
	if onPress == nil || onRelease == nil {
		return ErrNilHandler
	}
	return m.add(record{pin: pin, onPress: onPress, onRelease: onRelease})
}

func (m *Manager) add(r record) error {
	if _, ok := m.index[r.pin]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicatePin, r.pin)
	}
	m.records = append(m.records, r)
	m.index[r.pin] = len(m.records) - 1
	return nil
}

// SetHandlers sets the manager-level callbacks, invoked after any
// per-button callback for the same transition. May be called at any
// time; takes effect from the next Poll onward. Passing nil for either
// disables that side.
func (m *Manager) SetHandlers(onPress, onRelease PinHandler) {
	m.onAnyPress = onPress
	m.onAnyRelease = onRelease
}

// State returns the level observed at the most recent Poll for pin.
// ok is false if the pin was never registered.
func (m *Manager) State(pin int) (pressed, ok bool) {
	i, ok := m.index[pin]
	if !ok {
		return false, false
	}
	return m.records[i].state, true
}

// Pins returns the registered pin numbers in registration order.
func (m *Manager) Pins() []int {
	pins := make([]int, len(m.records))
	for i, r := range m.records {
		pins[i] = r.pin
	}
	return pins
}

// Pressed returns the pins currently held, in registration order.
func (m *Manager) Pressed() []int {
	var pressed []int
	for _, r := range m.records {
		if r.state {
			pressed = append(pressed, r.pin)
		}
	}
	return pressed
}

// Poll makes one synchronous pass over all buttons in registration
// order. For each button it reads the live level, and on a change
// stores the new level and fires the button's own callback followed by
// the manager-level callback. At most one transition (press or
// release) is dispatched per button per pass.
//
// A read error skips that button — its stored state is untouched — and
// the pass continues; all read errors are joined into the returned
// error. Callbacks run synchronously: a slow callback delays detection
// for the buttons after it in the same pass.
func (m *Manager) Poll() error {
	var errs []error
	for i := range m.records {
		r := &m.records[i]
		level, err := m.reader.Read(r.pin)
		if err != nil {
			errs = append(errs, fmt.Errorf("read pin %d: %w", r.pin, err))
			continue
		}
		if level == r.state {
			continue
		}
		r.state = level
		if level {
			if r.onPress != nil {
				r.onPress()
			}
			if m.onAnyPress != nil {
				m.onAnyPress(r.pin)
			}
		} else {
			if r.onRelease != nil {
				r.onRelease()
			}
			if m.onAnyRelease != nil {
				m.onAnyRelease(r.pin)
			}
		}
	}
	return errors.Join(errs...)
}
