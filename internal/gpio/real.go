//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

// RealReader reads the button from actual hardware using the Linux GPIO character device.
type RealReader struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealReader requests the button line as an input with pull-up.
func NewRealReader(pin int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Button shorts the line to ground when pressed, so pull it up.
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealReader{chip: chip, line: line}, nil
}

// Read returns the logical button state.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (bool, error) {
	raw, err := r.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button pin: %w", err)
	}
	return pressedFromRaw(raw), nil
}

// Close releases GPIO resources.
// The line is left as a plain input so nothing is driven after exit.
func (r *RealReader) Close() error {
	var err error
	if r.line != nil {
		if e := r.line.Reconfigure(gpiocdev.AsInput); e != nil {
			err = multierr.Append(err, fmt.Errorf("reconfigure button pin: %w", e))
		}
		if e := r.line.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close button pin: %w", e))
		}
	}
	if r.chip != nil {
		if e := r.chip.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close chip: %w", e))
		}
	}
	return err
}

// RealWriter drives an output line on actual hardware.
type RealWriter struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealWriter requests pin as an output, initially low.
func NewRealWriter(pin int) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request output pin %d: %w", pin, err)
	}

	return &RealWriter{chip: chip, line: line}, nil
}

// Set drives the line.
func (w *RealWriter) Set(high bool) error {
	v := 0
	if high {
		v = 1
	}
	if err := w.line.SetValue(v); err != nil {
		return fmt.Errorf("set output pin: %w", err)
	}
	return nil
}

// Close drives the line low, returns it to input and releases the chip.
func (w *RealWriter) Close() error {
	var err error
	if w.line != nil {
		if e := w.line.SetValue(0); e != nil {
			err = multierr.Append(err, fmt.Errorf("drive output pin low: %w", e))
		}
		if e := w.line.Reconfigure(gpiocdev.AsInput); e != nil {
			err = multierr.Append(err, fmt.Errorf("reconfigure output pin: %w", e))
		}
		if e := w.line.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close output pin: %w", e))
		}
	}
	if w.chip != nil {
		if e := w.chip.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("close chip: %w", e))
		}
	}
	return err
}
