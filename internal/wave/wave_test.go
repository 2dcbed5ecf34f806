package wave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/sweeney/debounce-button/internal/gpio"
)

func TestToggleAlternatesLevels(t *testing.T) {
	out := gpio.NewFakeWriter()
	g := New(out, clock.NewMock(), DefaultHalfPeriod, zap.NewNop().Sugar())

	for i := 0; i < 4; i++ {
		if err := g.Toggle(); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	if diff := cmp.Diff([]bool{true, false, true, false}, out.Levels()); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	if g.Toggles() != 4 {
		t.Errorf("Toggles: got %d, want 4", g.Toggles())
	}
}

func TestToggleErrorKeepsLevel(t *testing.T) {
	out := gpio.NewFakeWriter()
	g := New(out, clock.NewMock(), DefaultHalfPeriod, zap.NewNop().Sugar())

	out.SetError = errors.New("line busy")
	if err := g.Toggle(); err == nil {
		t.Fatal("expected error")
	}
	out.SetError = nil

	// The failed toggle must not have flipped the internal level.
	g.Toggle()
	if diff := cmp.Diff([]bool{true}, out.Levels()); diff != "" {
		t.Errorf("levels mismatch (-want +got):\n%s", diff)
	}
	if g.Toggles() != 1 {
		t.Errorf("Toggles: got %d, want 1", g.Toggles())
	}
}

func TestRunStopsLow(t *testing.T) {
	out := gpio.NewFakeWriter()
	mock := clock.NewMock()
	g := New(out, mock, DefaultHalfPeriod, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	for i := 0; i < 10; i++ {
		mock.Add(DefaultHalfPeriod)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	levels := out.Levels()
	if len(levels) == 0 || levels[len(levels)-1] {
		t.Errorf("expected pin driven low on stop, got %v", levels)
	}
}

func TestRunRejectsNonPositivePeriod(t *testing.T) {
	g := New(gpio.NewFakeWriter(), clock.NewMock(), 0, zap.NewNop().Sugar())
	if err := g.Run(context.Background()); err == nil {
		t.Error("expected error for zero half period")
	}
}
