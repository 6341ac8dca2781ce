// Package gpio provides GPIO input pins with hardware abstraction.
// Two real backends exist: the Linux GPIO character device (gpiocdev)
// and memory-mapped BCM283x registers (rpio). The fake implementation
// allows testing without hardware.
package gpio

// Pin reads a single GPIO input line. Implementations return the raw
// electrical level; polarity handling belongs to the consumer.
type Pin interface {
	// Level returns true when the line reads high.
	Level() (bool, error)

	// Close releases the line.
	Close() error
}

// Backend names a pin access mechanism, selectable per button in the
// daemon configuration.
type Backend string

const (
	// BackendCdev is the Linux GPIO character device (default).
	BackendCdev Backend = "cdev"
	// BackendRpio is direct register access via /dev/gpiomem.
	BackendRpio Backend = "rpio"
)

// DefaultChip is the character device used on a Raspberry Pi.
const DefaultChip = "gpiochip0"
