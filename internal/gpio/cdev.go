//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Chip wraps a GPIO character device and hands out input pins.
type Chip struct {
	chip *gpiocdev.Chip
}

// OpenChip opens the named GPIO character device.
func OpenChip(name string) (*Chip, error) {
	c, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", name, err)
	}
	return &Chip{chip: c}, nil
}

// Pin requests the line at the given offset as an input with the
// internal pull-up enabled, the usual wiring for a button that shorts
// the line to ground when pressed.
func (c *Chip) Pin(offset int) (*CdevPin, error) {
	line, err := c.chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request pin %d: %w", offset, err)
	}
	return &CdevPin{line: line, offset: offset}, nil
}

// Close releases the chip. Pins requested from it must be closed first.
func (c *Chip) Close() error {
	if err := c.chip.Close(); err != nil {
		return fmt.Errorf("close chip: %w", err)
	}
	return nil
}

// CdevPin is a single input line on a character-device chip.
type CdevPin struct {
	line   *gpiocdev.Line
	offset int
}

// Level returns the raw electrical level of the line.
func (p *CdevPin) Level() (bool, error) {
	v, err := p.line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", p.offset, err)
	}
	return v != 0, nil
}

// Close reconfigures the line back to a plain pulled-up input and
// releases it, leaving the pin in the state the device boots with.
func (p *CdevPin) Close() error {
	if err := p.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		return fmt.Errorf("reconfigure pin %d: %w", p.offset, err)
	}
	if err := p.line.Close(); err != nil {
		return fmt.Errorf("close pin %d: %w", p.offset, err)
	}
	return nil
}
