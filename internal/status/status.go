// Package status provides a thread-safe status tracker for the
// button-handler daemon. It is read by HTTP handlers while the poll
// loop writes to it.
package status

import (
	"sync"
	"time"
)

// NetworkInfo contains network state reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Chip        string
	Pins        []int
}

// PinStatus is the tracked state of one button.
type PinStatus struct {
	Pressed  bool
	Presses  int
	Releases int
}

// Snapshot is a point-in-time view of daemon state.
// It is a deep copy — safe to use after the lock is released.
type Snapshot struct {
	// Pins in registration order; Buttons is keyed by pin.
	Pins    []int
	Buttons map[int]PinStatus

	Ready         bool // true once the first poll completed
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// TotalPresses sums press counts over all buttons.
func (s Snapshot) TotalPresses() int {
	n := 0
	for _, b := range s.Buttons {
		n += b.Presses
	}
	return n
}

// TotalReleases sums release counts over all buttons.
func (s Snapshot) TotalReleases() int {
	n := 0
	for _, b := range s.Buttons {
		n += b.Releases
	}
	return n
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu        sync.RWMutex
	pins      []int
	buttons   map[int]PinStatus
	ready     bool
	startTime time.Time
	mqttUp    bool
	network   *NetworkInfo
	config    Config
}

// NewTracker creates a Tracker with the given start time and config.
// All pins in cfg.Pins start unpressed with zero counts.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	buttons := make(map[int]PinStatus, len(cfg.Pins))
	for _, pin := range cfg.Pins {
		buttons[pin] = PinStatus{}
	}
	return &Tracker{
		pins:      append([]int(nil), cfg.Pins...),
		buttons:   buttons,
		startTime: startTime,
		config:    cfg,
	}
}

// RecordPress marks pin pressed and bumps its press count.
// Called from the manager's global press handler.
func (t *Tracker) RecordPress(pin int) {
	t.mu.Lock()
	b := t.buttons[pin]
	b.Pressed = true
	b.Presses++
	t.buttons[pin] = b
	t.mu.Unlock()
}

// RecordRelease marks pin released and bumps its release count.
func (t *Tracker) RecordRelease(pin int) {
	t.mu.Lock()
	b := t.buttons[pin]
	b.Pressed = false
	b.Releases++
	t.buttons[pin] = b
	t.mu.Unlock()
}

// SetReady marks the first poll as completed.
func (t *Tracker) SetReady() {
	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.mqttUp = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	buttons := make(map[int]PinStatus, len(t.buttons))
	for pin, b := range t.buttons {
		buttons[pin] = b
	}
	s := Snapshot{
		Pins:          append([]int(nil), t.pins...),
		Buttons:       buttons,
		Ready:         t.ready,
		StartTime:     t.startTime,
		MQTTConnected: t.mqttUp,
		Network:       t.network,
		Config:        t.config,
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
