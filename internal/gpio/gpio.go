// Package gpio provides GPIO input reading with hardware abstraction.
// The default Linux implementation uses the GPIO character device; an
// alternative periph.io backend is selected by the "periph" build tag.
// The fake implementation allows testing without hardware.
package gpio

// DefaultChip is the GPIO character device used when none is
// configured. gpiochip0 is the main header on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Reader reads the logic level of registered GPIO input pins.
// true = high. Read is only valid for pins that were passed to Open.
type Reader interface {
	Read(pin int) (bool, error)

	// Close releases GPIO resources.
	Close() error
}
