// Package status provides a thread-safe status tracker for the buttond
// daemon. It is read by the HTTP handlers and included in heartbeat and
// shutdown payloads.
package status

import (
	"sync"
	"time"

	"github.com/tgould/buttond/internal/button"
)

// ButtonStatus is the tracked state of one configured button.
type ButtonStatus struct {
	Name        string
	Number      uint16
	State       string // current state machine state
	LastEvent   button.EventType
	LastEventAt time.Time
	Events      int // events emitted by this button since startup
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type with its own copies of the slice and map — safe to
// use after the lock is released.
type Snapshot struct {
	Buttons       []ButtonStatus
	Counts        map[button.EventType]int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// TotalEvents returns the number of events emitted since startup.
func (s Snapshot) TotalEvents() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu            sync.RWMutex
	buttons       []ButtonStatus
	counts        map[button.EventType]int
	startTime     time.Time
	mqttConnected bool
	config        Config
}

// NewTracker creates a Tracker for the named buttons.
func NewTracker(startTime time.Time, cfg Config, names []string) *Tracker {
	buttons := make([]ButtonStatus, len(names))
	for i, name := range names {
		buttons[i] = ButtonStatus{
			Name:   name,
			Number: uint16(i),
			State:  button.Idle.String(),
		}
	}
	return &Tracker{
		buttons:   buttons,
		counts:    make(map[button.EventType]int),
		startTime: startTime,
		config:    cfg,
	}
}

// SetState records the current state machine state of one button.
// Called from the poll loop on every tick.
func (t *Tracker) SetState(number uint16, state button.State) {
	t.mu.Lock()
	if int(number) < len(t.buttons) {
		t.buttons[number].State = state.String()
	}
	t.mu.Unlock()
}

// RecordEvent counts an emitted event and stamps it on its button.
func (t *Tracker) RecordEvent(number uint16, typ button.EventType, at time.Time) {
	t.mu.Lock()
	t.counts[typ]++
	if int(number) < len(t.buttons) {
		t.buttons[number].LastEvent = typ
		t.buttons[number].LastEventAt = at
		t.buttons[number].Events++
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.mqttConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	buttons := make([]ButtonStatus, len(t.buttons))
	copy(buttons, t.buttons)
	counts := make(map[button.EventType]int, len(t.counts))
	for k, v := range t.counts {
		counts[k] = v
	}
	s := Snapshot{
		Buttons:       buttons,
		Counts:        counts,
		StartTime:     t.startTime,
		MQTTConnected: t.mqttConnected,
		Config:        t.config,
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
