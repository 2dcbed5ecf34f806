// Package gpio provides button input and pin output with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the button input.
type Reader interface {
	// Read returns the logical button state (true = pressed).
	// The raw line is active-low with a pull-up: raw 0 = pressed.
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Writer drives a single output pin.
type Writer interface {
	// Set drives the pin high (true) or low (false).
	Set(high bool) error

	// Close drives the pin low and releases it.
	Close() error
}

// Pin definitions (BCM numbering)
const (
	DefaultPinButton = 13 // Push button to ground, internal pull-up
	DefaultPinWave   = 12 // Square-wave output
)

// Chip is the GPIO character device used on the Raspberry Pi.
const Chip = "gpiochip0"

// pressedFromRaw converts an active-low raw level to a logical press.
func pressedFromRaw(raw int) bool {
	return raw == 0
}
