// Package button implements a polled state machine that turns a noisy
// mechanical input into debounced press, long-press, repeat, release,
// multi-click and idle callbacks.
//
// This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injected through a TickSource, and the pin
// is an abstract level reader, so the whole machine is testable without
// hardware. One Button instance tracks one physical button; the caller
// invokes Process on every iteration of its poll loop, and at most one
// state transition happens per call. All callbacks run synchronously on
// the caller's goroutine before Process returns.
package button

import (
	"errors"
	"fmt"
)

// State is the discrete state of the machine.
type State uint8

const (
	Idle State = iota
	Debounce
	Pressed
	Repeat
	DebounceRelease
	Release
	ReleaseAfterRepeat
)

// String returns the state name for logs and test failures.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Debounce:
		return "DEBOUNCE"
	case Pressed:
		return "PRESSED"
	case Repeat:
		return "REPEAT"
	case DebounceRelease:
		return "DEBOUNCE_RELEASE"
	case Release:
		return "RELEASE"
	case ReleaseAfterRepeat:
		return "RELEASE_AFTER_REPEAT"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Polarity fixes how a raw pin level maps to "pressed".
type Polarity uint8

const (
	// ActiveLow means a pressed button pulls the line low (the common
	// pull-up wiring, and the default).
	ActiveLow Polarity = iota
	// ActiveHigh means a pressed button drives the line high.
	ActiveHigh
)

// MultiClickMode selects the multi-click recognition strategy.
type MultiClickMode uint8

const (
	// MultiClickOff disables click counting entirely.
	MultiClickOff MultiClickMode = iota
	// MultiClickNormal fires press on every click immediately and layers
	// double/triple callbacks on top when clicks land inside the
	// inter-click window.
	MultiClickNormal
	// MultiClickCombined withholds the press callback until the
	// inter-click window has passed, then fires exactly one of
	// press/double/triple for the whole sequence.
	MultiClickCombined
)

// Pin reads the raw electrical level of an input line. The machine
// applies Polarity on top; implementations must not.
type Pin interface {
	// Level returns true when the line is high.
	Level() (bool, error)
}

// Callback is a per-event handler. It receives the opaque button
// identifier so one handler can serve several buttons.
type Callback func(id uint16)

// Default timings applied by DefaultConfig, in milliseconds.
const (
	DefaultDebounce      = 50
	DefaultLongPress     = 500
	DefaultRepeat        = 300
	DefaultBetweenClicks = 250
)

// Config carries every timing and feature gate of one button. Optional
// features are runtime-gated: a zero ReleaseDebounce disables the
// release-side debounce state, a zero IdleTimeout disables the idle
// callback.
type Config struct {
	Polarity Polarity

	// Timings in milliseconds.
	Debounce        Ticks
	LongPress       Ticks
	Repeat          Ticks
	ReleaseDebounce Ticks
	BetweenClicks   Ticks
	IdleTimeout     Ticks

	// ReleaseAfterRepeat routes the release following a repeat phase to
	// its own terminal state and callback.
	ReleaseAfterRepeat bool

	MultiClick MultiClickMode

	// OverflowAsTriple controls combined-mode sequences longer than
	// three clicks: clamp to a triple when set, discard when not.
	OverflowAsTriple bool
}

// DefaultConfig returns the stock timings: 50 ms debounce, 500 ms
// long-press, 300 ms repeat, active-low, multi-click off.
func DefaultConfig() Config {
	return Config{
		Debounce:         DefaultDebounce,
		LongPress:        DefaultLongPress,
		Repeat:           DefaultRepeat,
		BetweenClicks:    DefaultBetweenClicks,
		OverflowAsTriple: true,
	}
}

// Sentinel errors for the two required handles. Process performs no
// state mutation and invokes no callback when it returns one of these.
var (
	ErrNoPin        = errors.New("button: no pin configured")
	ErrNoTickSource = errors.New("button: no tick source configured")
)

// Button is the state machine for one physical button. It is owned by a
// single goroutine; Process must not be called concurrently for the
// same instance. Independent instances are fully independent.
type Button struct {
	state State
	pin   Pin
	ticks TickSource
	id    uint16

	cfg Config

	// Timestamps marking the start of the current timed phase.
	lastTick      Ticks
	lastClickTick Ticks
	releaseTick   Ticks

	// Which state a DebounceRelease excursion came from, so a bounce
	// returns there and a real release picks the right terminal state.
	stateBeforeRelease State

	clickCount uint8
	// Single-shot guards. clickCycleDone keeps one press from being
	// counted twice; repeatPressSent keeps the combined-mode press
	// callback to one per repeat excursion.
	clickCycleDone  bool
	repeatPressSent bool

	onPress              Callback
	onLongPress          Callback
	onRepeat             Callback
	onRelease            Callback
	onReleaseAfterRepeat Callback
	onDoubleClick        Callback
	onTripleClick        Callback
	onIdle               Callback
}

// New creates a Button in the Idle state. pin and ticks are required;
// id is passed verbatim to every callback.
func New(pin Pin, ticks TickSource, id uint16, cfg Config) (*Button, error) {
	if pin == nil {
		return nil, ErrNoPin
	}
	if ticks == nil {
		return nil, ErrNoTickSource
	}
	return &Button{
		state:    Idle,
		pin:      pin,
		ticks:    ticks,
		id:       id,
		cfg:      cfg,
		lastTick: ticks.Now(),
	}, nil
}

// NewWithDefaults is New with DefaultConfig timings.
func NewWithDefaults(pin Pin, ticks TickSource, id uint16) (*Button, error) {
	return New(pin, ticks, id, DefaultConfig())
}

// Process advances the machine by at most one state transition. It
// reads the pin and the tick source, fires zero or more callbacks
// synchronously, and returns. Call it every 1-10 ms for each live
// instance. A zero-value Button is a safe no-op that reports its
// missing handle.
func (b *Button) Process() error {
	if b.pin == nil {
		return ErrNoPin
	}
	if b.ticks == nil {
		return ErrNoTickSource
	}

	switch b.state {
	case Idle:
		return b.idleStep()
	case Debounce:
		return b.debounceStep()
	case Pressed:
		return b.pressedStep()
	case Repeat:
		return b.repeatStep()
	case DebounceRelease:
		return b.debounceReleaseStep()
	case Release:
		b.call(b.onRelease)
		b.finishRelease()
	case ReleaseAfterRepeat:
		b.call(b.onReleaseAfterRepeat)
		b.finishRelease()
	}
	return nil
}

func (b *Button) idleStep() error {
	now := b.ticks.Now()

	if b.cfg.MultiClick == MultiClickCombined {
		b.resolveCombinedIdle(now)
	}

	if b.cfg.IdleTimeout > 0 && elapsed(now, b.lastTick) >= b.cfg.IdleTimeout {
		b.call(b.onIdle)
		b.lastTick = now
	}

	asserted, err := b.asserted()
	if err != nil {
		return err
	}
	if asserted {
		b.lastTick = now
		b.state = Debounce
	}
	return nil
}

func (b *Button) debounceStep() error {
	now := b.ticks.Now()
	if elapsed(now, b.lastTick) < b.cfg.Debounce {
		return nil
	}

	asserted, err := b.asserted()
	if err != nil {
		return err
	}
	if !asserted {
		// Bounce, not a real press.
		b.state = Idle
		return nil
	}

	b.resolvePress(now)
	b.lastClickTick = now
	b.lastTick = now
	b.repeatPressSent = false
	b.state = Pressed
	return nil
}

func (b *Button) pressedStep() error {
	now := b.ticks.Now()

	asserted, err := b.asserted()
	if err != nil {
		return err
	}
	if !asserted {
		b.beginRelease(Pressed, now)
		return nil
	}

	if elapsed(now, b.lastTick) >= b.cfg.LongPress {
		b.call(b.onLongPress)
		b.lastTick = now
		b.state = Repeat
	}
	return nil
}

func (b *Button) repeatStep() error {
	now := b.ticks.Now()

	b.resolveRepeat()

	asserted, err := b.asserted()
	if err != nil {
		return err
	}
	if !asserted {
		b.beginRelease(Repeat, now)
		return nil
	}

	if elapsed(now, b.lastTick) >= b.cfg.Repeat {
		b.call(b.onRepeat)
		b.lastTick = now
	}
	return nil
}

func (b *Button) debounceReleaseStep() error {
	now := b.ticks.Now()
	if elapsed(now, b.releaseTick) < b.cfg.ReleaseDebounce {
		return nil
	}

	asserted, err := b.asserted()
	if err != nil {
		return err
	}
	if asserted {
		// Release-side bounce: the press continues. lastTick is left
		// alone so long-press and repeat timing carry across the blip.
		b.state = b.stateBeforeRelease
		return nil
	}
	b.state = b.releaseTarget(b.stateBeforeRelease)
	return nil
}

// beginRelease routes a just-released press either through the optional
// release debounce state or straight to the terminal release state.
func (b *Button) beginRelease(from State, now Ticks) {
	if b.cfg.ReleaseDebounce > 0 {
		b.stateBeforeRelease = from
		b.releaseTick = now
		b.state = DebounceRelease
		return
	}
	b.state = b.releaseTarget(from)
}

func (b *Button) releaseTarget(from State) State {
	if from == Repeat && b.cfg.ReleaseAfterRepeat {
		return ReleaseAfterRepeat
	}
	return Release
}

func (b *Button) finishRelease() {
	b.lastTick = b.ticks.Now()
	b.clickCycleDone = false
	b.repeatPressSent = false
	b.state = Idle
}

// asserted reads the pin and applies polarity: true means physically
// pressed.
func (b *Button) asserted() (bool, error) {
	level, err := b.pin.Level()
	if err != nil {
		return false, fmt.Errorf("read pin: %w", err)
	}
	if b.cfg.Polarity == ActiveLow {
		return !level, nil
	}
	return level, nil
}

func (b *Button) call(cb Callback) {
	if cb != nil {
		cb(b.id)
	}
}

// Reset returns the machine to Idle with counters and guards cleared.
// Configuration and registered callbacks survive; this is the only way
// to abort a sequence in flight.
func (b *Button) Reset() {
	b.state = Idle
	if b.ticks != nil {
		b.lastTick = b.ticks.Now()
	} else {
		b.lastTick = 0
	}
	b.lastClickTick = b.lastTick
	b.releaseTick = 0
	b.stateBeforeRelease = Idle
	b.clickCount = 0
	b.clickCycleDone = false
	b.repeatPressSent = false
}

// State returns the current state.
func (b *Button) State() State { return b.state }

// ID returns the identifier passed to callbacks.
func (b *Button) ID() uint16 { return b.id }

// ClickCount returns the click counter of the sequence in progress.
func (b *Button) ClickCount() int { return int(b.clickCount) }

// SetDebounceTime changes the press debounce window, effective on the
// next comparison.
func (b *Button) SetDebounceTime(ms Ticks) { b.cfg.Debounce = ms }

// SetLongPressTime changes the long-press threshold.
func (b *Button) SetLongPressTime(ms Ticks) { b.cfg.LongPress = ms }

// SetRepeatTime changes the repeat interval.
func (b *Button) SetRepeatTime(ms Ticks) { b.cfg.Repeat = ms }

// SetReleaseDebounceTime changes the release debounce window. Zero
// disables release-side debouncing.
func (b *Button) SetReleaseDebounceTime(ms Ticks) { b.cfg.ReleaseDebounce = ms }

// SetMultiClick changes the multi-click mode and inter-click window and
// abandons any sequence in progress.
func (b *Button) SetMultiClick(mode MultiClickMode, betweenClicks Ticks) {
	b.cfg.MultiClick = mode
	b.cfg.BetweenClicks = betweenClicks
	b.clickCount = 0
	b.clickCycleDone = false
}

// SetIdleTimeout changes the idle window. Zero disables the idle
// callback.
func (b *Button) SetIdleTimeout(ms Ticks) { b.cfg.IdleTimeout = ms }

// OnPress registers the press handler. A nil handler disables the
// event; the same applies to every registration below.
func (b *Button) OnPress(cb Callback) { b.onPress = cb }

// OnLongPress registers the long-press handler.
func (b *Button) OnLongPress(cb Callback) { b.onLongPress = cb }

// OnRepeat registers the repeat handler.
func (b *Button) OnRepeat(cb Callback) { b.onRepeat = cb }

// OnRelease registers the release handler.
func (b *Button) OnRelease(cb Callback) { b.onRelease = cb }

// OnReleaseAfterRepeat registers the handler for a release that follows
// a repeat phase. Only fired when Config.ReleaseAfterRepeat is set.
func (b *Button) OnReleaseAfterRepeat(cb Callback) { b.onReleaseAfterRepeat = cb }

// OnDoubleClick registers the double-click handler.
func (b *Button) OnDoubleClick(cb Callback) { b.onDoubleClick = cb }

// OnTripleClick registers the triple-click handler.
func (b *Button) OnTripleClick(cb Callback) { b.onTripleClick = cb }

// OnIdle registers the idle-timeout handler.
func (b *Button) OnIdle(cb Callback) { b.onIdle = cb }
