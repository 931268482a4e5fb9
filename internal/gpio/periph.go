//go:build periph

package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphReader reads GPIO through the periph.io host drivers. Pins are
// addressed by their BCM numbers via the GPIO%d registry names.
type PeriphReader struct {
	pins map[int]gpio.PinIO
}

// Open initialises the periph host and configures the given pins as
// pull-down inputs. The chip name is ignored: periph addresses pins
// through its own registry.
func Open(chipName string, pins []int) (Reader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	r := &PeriphReader{pins: make(map[int]gpio.PinIO, len(pins))}
	for _, pin := range pins {
		p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
		if p == nil {
			return nil, fmt.Errorf("no such pin GPIO%d", pin)
		}
		if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure GPIO%d as input: %w", pin, err)
		}
		r.pins[pin] = p
	}
	return r, nil
}

// Read returns the logic level of pin. true = high.
func (r *PeriphReader) Read(pin int) (bool, error) {
	p, ok := r.pins[pin]
	if !ok {
		return false, fmt.Errorf("pin %d was not requested", pin)
	}
	return p.Read() == gpio.High, nil
}

// Close is a no-op: periph pins have no per-line resources to release.
func (r *PeriphReader) Close() error {
	return nil
}
