//go:build linux

package gpio

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// The rpio backend maps the BCM283x GPIO registers once per process.
var (
	rpioMu    sync.Mutex
	rpioOpen  bool
	rpioInUse int
)

// RpioPin reads a BCM pin through memory-mapped registers. Faster than
// the character device and available on kernels without gpio cdev
// support, but Raspberry Pi only.
type RpioPin struct {
	pin    rpio.Pin
	closed bool
}

// NewRpioPin maps the GPIO registers if needed and configures the BCM
// pin as a pulled-up input.
func NewRpioPin(bcm int) (*RpioPin, error) {
	rpioMu.Lock()
	defer rpioMu.Unlock()

	if !rpioOpen {
		if err := rpio.Open(); err != nil {
			return nil, fmt.Errorf("open gpio memory: %w", err)
		}
		rpioOpen = true
	}
	rpioInUse++

	p := rpio.Pin(bcm)
	p.Input()
	p.PullUp()
	return &RpioPin{pin: p}, nil
}

// Level returns the raw electrical level of the pin.
func (p *RpioPin) Level() (bool, error) {
	if p.closed {
		return false, fmt.Errorf("read pin %d: pin closed", uint8(p.pin))
	}
	return p.pin.Read() == rpio.High, nil
}

// Close drops the pull resistor and unmaps the register block once the
// last rpio pin is closed.
func (p *RpioPin) Close() error {
	rpioMu.Lock()
	defer rpioMu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.pin.PullOff()

	rpioInUse--
	if rpioInUse == 0 && rpioOpen {
		rpioOpen = false
		if err := rpio.Close(); err != nil {
			return fmt.Errorf("close gpio memory: %w", err)
		}
	}
	return nil
}
