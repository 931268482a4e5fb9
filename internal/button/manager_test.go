package button

import (
	"errors"
	"testing"
)

// fakePins is a PinReader backed by a plain map. Absent pins read low.
type fakePins struct {
	levels map[int]bool
	// failing pins return readErr from Read
	failing map[int]bool
	readErr error
	// reads counts Read calls per pin
	reads map[int]int
}

func newFakePins() *fakePins {
	return &fakePins{
		levels:  make(map[int]bool),
		failing: make(map[int]bool),
		readErr: errors.New("read failed"),
		reads:   make(map[int]int),
	}
}

func (f *fakePins) Read(pin int) (bool, error) {
	f.reads[pin]++
	if f.failing[pin] {
		return false, f.readErr
	}
	return f.levels[pin], nil
}

func TestStateBeforeFirstPoll(t *testing.T) {
	pins := newFakePins()
	pins.levels[2] = true // already high at registration time

	m := New(pins)
	if err := m.RegisterAll(2, 3, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, pin := range []int{2, 3, 7} {
		pressed, ok := m.State(pin)
		if !ok {
			t.Fatalf("pin %d: not registered", pin)
		}
		if pressed {
			t.Errorf("pin %d: expected unpressed before first poll", pin)
		}
	}
}

func TestStateUnregisteredPin(t *testing.T) {
	m := New(newFakePins())
	if err := m.Register(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := m.State(9); ok {
		t.Error("expected ok=false for unregistered pin")
	}
}

func TestNoCallbacksWithoutChange(t *testing.T) {
	pins := newFakePins()
	m := New(pins)

	presses, releases := 0, 0
	m.SetHandlers(
		func(int) { presses++ },
		func(int) { releases++ },
	)
	if err := m.RegisterAll(2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both pins stay low across several polls.
	for i := 0; i < 5; i++ {
		if err := m.Poll(); err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
	}

	if presses != 0 || releases != 0 {
		t.Errorf("expected no callbacks, got %d presses %d releases", presses, releases)
	}
}

func TestPressFiresPerButtonThenGlobal(t *testing.T) {
	pins := newFakePins()
	m := New(pins)

	var order []string
	err := m.RegisterFunc(5,
		func() { order = append(order, "button-press") },
		func() { order = append(order, "button-release") },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.SetHandlers(
		func(pin int) { order = append(order, "global-press") },
		func(pin int) { order = append(order, "global-release") },
	)

	pins.levels[5] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if len(order) != 2 || order[0] != "button-press" || order[1] != "global-press" {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
	if pressed, _ := m.State(5); !pressed {
		t.Error("expected State(5)=true after press")
	}

	// Release on the next poll fires the release pair, in the same order.
	order = nil
	pins.levels[5] = false
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(order) != 2 || order[0] != "button-release" || order[1] != "global-release" {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
	if pressed, _ := m.State(5); pressed {
		t.Error("expected State(5)=false after release")
	}
}

func TestGlobalHandlerReceivesPin(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.RegisterAll(2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pressCount := make(map[int]int)
	releaseCount := make(map[int]int)
	m.SetHandlers(
		func(pin int) { pressCount[pin]++ },
		func(pin int) { releaseCount[pin]++ },
	)

	pins.levels[2] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if pressCount[2] != 1 {
		t.Errorf("pressCount[2]: got %d, want 1", pressCount[2])
	}
	if releaseCount[2] != 0 {
		t.Errorf("releaseCount[2]: got %d, want 0", releaseCount[2])
	}
	if pressed, _ := m.State(2); !pressed {
		t.Error("expected State(2)=true")
	}
	if pressed, _ := m.State(3); pressed {
		t.Error("expected State(3)=false")
	}
}

func TestSecondPollWithoutChangeFiresNothing(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.Register(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	presses := 0
	m.SetHandlers(func(int) { presses++ }, nil)

	pins.levels[2] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("first poll: %v", err)
	}
	if err := m.Poll(); err != nil {
		t.Fatalf("second poll: %v", err)
	}

	if presses != 1 {
		t.Errorf("expected exactly 1 press across two polls, got %d", presses)
	}
}

func TestPressThenReleaseAcrossPolls(t *testing.T) {
	pins := newFakePins()
	m := New(pins)

	pressed, released := false, false
	err := m.RegisterFunc(5,
		func() { pressed = true },
		func() { released = true },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pins.levels[5] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !pressed {
		t.Error("press callback did not fire")
	}
	if released {
		t.Error("release callback fired on press")
	}

	pins.levels[5] = false
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !released {
		t.Error("release callback did not fire")
	}
	if state, _ := m.State(5); state {
		t.Error("expected State(5)=false at the end")
	}
}

func TestLateGlobalHandlersNotRetroactive(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.Register(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Transition happens before the global handlers exist.
	pins.levels[2] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	presses := 0
	m.SetHandlers(func(int) { presses++ }, func(int) {})

	// No further change: the handler must not fire for the past press.
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if presses != 0 {
		t.Errorf("late handler fired retroactively: %d", presses)
	}

	// It does fire for the next transition.
	pins.levels[2] = false
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	pins.levels[2] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if presses != 1 {
		t.Errorf("expected 1 press after handler registration, got %d", presses)
	}
}

func TestDispatchFollowsRegistrationOrder(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.RegisterAll(7, 3, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fired []int
	m.SetHandlers(func(pin int) { fired = append(fired, pin) }, nil)

	// All three go high at once: callbacks must follow registration
	// order, not pin number order.
	pins.levels[7] = true
	pins.levels[3] = true
	pins.levels[5] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	want := []int{7, 3, 5}
	if len(fired) != len(want) {
		t.Fatalf("expected %d callbacks, got %d", len(want), len(fired))
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("callback %d: got pin %d, want %d", i, fired[i], want[i])
		}
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	m := New(newFakePins())
	if err := m.Register(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.Register(2); !errors.Is(err, ErrDuplicatePin) {
		t.Errorf("Register: got %v, want ErrDuplicatePin", err)
	}
	if err := m.RegisterFunc(2, func() {}, func() {}); !errors.Is(err, ErrDuplicatePin) {
		t.Errorf("RegisterFunc: got %v, want ErrDuplicatePin", err)
	}
	if err := m.RegisterAll(4, 2, 6); !errors.Is(err, ErrDuplicatePin) {
		t.Errorf("RegisterAll: got %v, want ErrDuplicatePin", err)
	}

	// RegisterAll stops at the duplicate: 4 got in, 6 did not.
	if _, ok := m.State(4); !ok {
		t.Error("pin 4 should be registered")
	}
	if _, ok := m.State(6); ok {
		t.Error("pin 6 should not be registered")
	}
}

func TestRegisterFuncRequiresBothHandlers(t *testing.T) {
	m := New(newFakePins())

	if err := m.RegisterFunc(2, nil, func() {}); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil press: got %v, want ErrNilHandler", err)
	}
	if err := m.RegisterFunc(2, func() {}, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil release: got %v, want ErrNilHandler", err)
	}
	if _, ok := m.State(2); ok {
		t.Error("failed registration must not add a record")
	}
}

func TestPollReadErrorSkipsButton(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.RegisterAll(2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fired []int
	m.SetHandlers(func(pin int) { fired = append(fired, pin) }, nil)

	// Pin 2 faults, pin 3 goes high. The pass must continue past the
	// fault and still dispatch for pin 3.
	pins.failing[2] = true
	pins.levels[2] = true
	pins.levels[3] = true

	err := m.Poll()
	if err == nil {
		t.Fatal("expected error from faulting pin")
	}
	if !errors.Is(err, pins.readErr) {
		t.Errorf("expected wrapped read error, got %v", err)
	}

	if len(fired) != 1 || fired[0] != 3 {
		t.Errorf("expected dispatch for pin 3 only, got %v", fired)
	}
	// Faulted pin keeps its stored state.
	if pressed, _ := m.State(2); pressed {
		t.Error("faulted pin must keep its previous state")
	}

	// Fault clears: the press is detected on the next poll.
	pins.failing[2] = false
	if err := m.Poll(); err != nil {
		t.Fatalf("poll after fault: %v", err)
	}
	if pressed, _ := m.State(2); !pressed {
		t.Error("expected press detected once the fault cleared")
	}
}

func TestPinsAndPressed(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.RegisterAll(7, 3, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := m.Pins()
	want := []int{7, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pins()[%d]: got %d, want %d", i, got[i], want[i])
		}
	}

	if pressed := m.Pressed(); len(pressed) != 0 {
		t.Errorf("expected no pressed pins, got %v", pressed)
	}

	pins.levels[3] = true
	pins.levels[5] = true
	if err := m.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}

	pressed := m.Pressed()
	if len(pressed) != 2 || pressed[0] != 3 || pressed[1] != 5 {
		t.Errorf("Pressed(): got %v, want [3 5]", pressed)
	}
}

func TestEachPollReadsEveryPin(t *testing.T) {
	pins := newFakePins()
	m := New(pins)
	if err := m.RegisterAll(2, 3, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := m.Poll(); err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
	}

	for _, pin := range []int{2, 3, 7} {
		if pins.reads[pin] != 3 {
			t.Errorf("pin %d: got %d reads, want 3", pin, pins.reads[pin])
		}
	}
}
