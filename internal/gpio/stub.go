//go:build !linux && !periph

package gpio

import "errors"

// Open is not available on non-Linux platforms without the periph
// backend.
func Open(chipName string, pins []int) (Reader, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}
