// Package button tracks a set of digital input pins and dispatches
// press/release callbacks when a polled level changes.
// This package has NO hardware dependencies: reads go through the
// PinReader interface, so it can be driven entirely by fakes in tests.
package button

import "errors"

// ErrDuplicatePin is returned when a pin is registered twice.
var ErrDuplicatePin = errors.New("button: pin already registered")

// ErrNilHandler is returned by RegisterFunc when either callback is nil.
// Per-pin registration is all-or-nothing: supply both or use Register.
var ErrNilHandler = errors.New("button: both press and release handlers required")

// Handler is a per-button callback. It receives no arguments; the
// closure knows which button it belongs to.
type Handler func()

// PinHandler is a manager-level callback invoked for every button's
// transition, with the pin number that changed.
type PinHandler func(pin int)

// PinReader reads the live logic level of a single pin.
// true = high/asserted. Satisfied by the readers in internal/gpio.
type PinReader interface {
	Read(pin int) (bool, error)
}

// record holds one registered button: its pin, the level observed at
// the most recent poll, and optional per-button callbacks.
type record struct {
	pin       int
	state     bool
	onPress   Handler
	onRelease Handler
}
