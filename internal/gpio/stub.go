//go:build !linux

package gpio

import "errors"

// Chip is not available on non-Linux platforms.
type Chip struct{}

// OpenChip returns an error on non-Linux platforms.
func OpenChip(name string) (*Chip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Pin is not implemented on non-Linux platforms.
func (c *Chip) Pin(offset int) (*CdevPin, error) {
	return nil, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (c *Chip) Close() error { return nil }

// CdevPin is not available on non-Linux platforms.
type CdevPin struct{}

func (p *CdevPin) Level() (bool, error) {
	return false, errors.New("gpio: not supported")
}

func (p *CdevPin) Close() error { return nil }

// RpioPin is not available on non-Linux platforms.
type RpioPin struct{}

// NewRpioPin returns an error on non-Linux platforms.
func NewRpioPin(bcm int) (*RpioPin, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

func (p *RpioPin) Level() (bool, error) {
	return false, errors.New("gpio: not supported")
}

func (p *RpioPin) Close() error { return nil }
