// Package wave drives a square wave on an output pin.
package wave

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/sweeney/debounce-button/internal/gpio"
)

// DefaultHalfPeriod gives a 500 Hz wave at 50% duty cycle.
const DefaultHalfPeriod = time.Millisecond

// Generator toggles an output pin every half period.
type Generator struct {
	out     gpio.Writer
	clk     clock.Clock
	half    time.Duration
	log     *zap.SugaredLogger
	level   bool
	toggles atomic.Int64
}

// New creates a Generator. The pin starts low.
func New(out gpio.Writer, clk clock.Clock, half time.Duration, log *zap.SugaredLogger) *Generator {
	return &Generator{out: out, clk: clk, half: half, log: log}
}

// Toggle flips the output level once.
func (g *Generator) Toggle() error {
	next := !g.level
	if err := g.out.Set(next); err != nil {
		return fmt.Errorf("toggle: %w", err)
	}
	g.level = next
	g.toggles.Add(1)
	return nil
}

// Toggles returns the number of successful toggles.
func (g *Generator) Toggles() int64 {
	return g.toggles.Load()
}

// Run toggles the pin until ctx is cancelled, then drives it low.
// Write errors are logged and the wave carries on.
func (g *Generator) Run(ctx context.Context) error {
	if g.half <= 0 {
		return errors.New("wave: half period must be positive")
	}

	ticker := g.clk.Ticker(g.half)
	defer ticker.Stop()

	var failing bool
	for {
		select {
		case <-ctx.Done():
			if err := g.out.Set(false); err != nil {
				return fmt.Errorf("drive low on stop: %w", err)
			}
			g.level = false
			return nil
		case <-ticker.C:
			if err := g.Toggle(); err != nil {
				// Log once per failure streak; at 500 Hz anything more floods.
				if !failing {
					g.log.Warnf("square wave: %v", err)
					failing = true
				}
				continue
			}
			failing = false
		}
	}
}
