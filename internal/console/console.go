// Package console writes the debounce machine's output characters to a byte sink.
// On the Pi this is stdout; it stands in for the serial port.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/sweeney/debounce-button/internal/logic"
)

// Greeting is written once when the console comes up.
const Greeting = "Hello, SLO Town."

// Console is an append-only character sink.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	counts logic.EmissionCounts
}

// New creates a Console writing to w.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Banner writes the greeting line.
func (c *Console) Banner() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.w, Greeting); err != nil {
		return fmt.Errorf("write banner: %w", err)
	}
	return nil
}

// Emit writes exactly one character, without a newline.
func (c *Console) Emit(r rune) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, string(r)); err != nil {
		return fmt.Errorf("emit %q: %w", r, err)
	}
	c.counts.Add(r)
	return nil
}

// Counts returns the number of characters written so far, by symbol.
func (c *Console) Counts() logic.EmissionCounts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}
