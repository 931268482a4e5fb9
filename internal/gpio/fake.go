package gpio

import "errors"

// Frame is one scripted snapshot of pin levels. Pins absent from the
// map read low.
type Frame map[int]bool

// FakeReader is a test double that returns scripted pin levels. All
// reads within one frame see the same snapshot; Advance moves to the
// next frame, sticking at the last one once the script is exhausted.
type FakeReader struct {
	// Frames contains the scripted snapshots, one per polling pass.
	Frames []Frame

	// AutoAdvance, if > 0, advances to the next frame after that many
	// Read calls. Set it to the number of monitored pins to get one
	// frame per polling pass without calling Advance by hand.
	AutoAdvance int

	// index tracks the current frame
	index int

	// reads counts Read calls within the current frame
	reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given frames.
func NewFakeReader(frames []Frame) *FakeReader {
	return &FakeReader{Frames: frames}
}

// Read returns pin's level in the current frame.
func (f *FakeReader) Read(pin int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Frames) == 0 {
		return false, errors.New("no frames configured")
	}
	level := f.Frames[f.index][pin]
	if f.AutoAdvance > 0 {
		f.reads++
		if f.reads >= f.AutoAdvance {
			f.Advance()
		}
	}
	return level, nil
}

// Advance moves to the next frame. Once the script is exhausted the
// last frame repeats.
func (f *FakeReader) Advance() {
	f.reads = 0
	if f.index < len(f.Frames)-1 {
		f.index++
	}
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the reader to the first frame.
func (f *FakeReader) Reset() {
	f.index = 0
	f.reads = 0
	f.Closed = false
}
