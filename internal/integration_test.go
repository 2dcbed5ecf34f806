package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/debounce-button/internal/console"
	"github.com/sweeney/debounce-button/internal/gpio"
	"github.com/sweeney/debounce-button/internal/logic"
	"github.com/sweeney/debounce-button/internal/mqtt"
)

// harness wires a scripted button through the machine into a console
// buffer and a fake publisher, the way the daemon's tick loop does.
type harness struct {
	reader    *gpio.FakeReader
	machine   *logic.Machine
	out       *bytes.Buffer
	console   *console.Console
	publisher *mqtt.FakePublisher
	start     time.Time
	ticks     uint64
}

func newHarness(samples []bool) *harness {
	out := &bytes.Buffer{}
	return &harness{
		reader:    gpio.NewFakeReader(samples),
		machine:   logic.NewMachine(),
		out:       out,
		console:   console.New(out),
		publisher: mqtt.NewFakePublisher(),
		start:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (h *harness) run(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		pressed, err := h.reader.Read()
		if err != nil {
			t.Fatalf("tick %d: gpio read error: %v", i, err)
		}
		h.ticks++
		res := h.machine.StepDetailed(pressed)
		if res.Emitted {
			if err := h.console.Emit(res.Char); err != nil {
				t.Fatalf("tick %d: console: %v", i, err)
			}
		}
		if tr := res.Transition; tr != nil {
			now := h.start.Add(time.Duration(h.ticks) * logic.TickPeriod)
			// Publish failures are tolerated by the daemon.
			_ = h.publisher.Publish(logic.Event{Timestamp: now, From: tr.From, To: tr.To, Tick: h.ticks})
		}
	}
}

var errPublish = errors.New("broker unavailable")

func pressedFor(n int) []bool {
	s := make([]bool, n)
	for i := range s {
		s[i] = true
	}
	return s
}

func releasedFor(n int) []bool {
	return make([]bool, n)
}

func concat(parts ...[]bool) []bool {
	var out []bool
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// TestIntegrationFullCycle holds the button through the whole cycle back to idle.
func TestIntegrationFullCycle(t *testing.T) {
	h := newHarness(concat(pressedFor(62), releasedFor(5)))
	h.run(t, 67)

	want := strings.Repeat("?", 50) + "@" + strings.Repeat("!", 10)
	if h.out.String() != want {
		t.Errorf("console output:\ngot:  %q\nwant: %q", h.out.String(), want)
	}

	if len(h.publisher.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(h.publisher.Events))
	}
	wantTo := []logic.State{logic.StateShortPress, logic.StateLongHold, logic.StateReleaseHold, logic.StateIdle}
	for i, e := range h.publisher.Events {
		if e.To != wantTo[i] {
			t.Errorf("event %d: expected to=%s, got %s", i, wantTo[i], e.To)
		}
	}

	for i, payload := range h.publisher.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Button.Timestamp == "" {
			t.Errorf("payload %d: missing timestamp", i)
		}
		if parsed.Button.Event != mqtt.EventTransition {
			t.Errorf("payload %d: expected event %s, got %q", i, mqtt.EventTransition, parsed.Button.Event)
		}
	}

	if h.machine.State() != logic.StateIdle {
		t.Errorf("expected IDLE after cycle, got %s", h.machine.State())
	}
}

// TestIntegrationNoOutputWhileReleased verifies an untouched button is silent.
func TestIntegrationNoOutputWhileReleased(t *testing.T) {
	h := newHarness(releasedFor(3))
	h.run(t, 100)

	if h.out.Len() != 0 {
		t.Errorf("expected no output, got %q", h.out.String())
	}
	if len(h.publisher.Events) != 0 {
		t.Errorf("expected no events, got %d", len(h.publisher.Events))
	}
}

// TestIntegrationBriefPress verifies a press shorter than a tick pair.
func TestIntegrationBriefPress(t *testing.T) {
	h := newHarness(concat(pressedFor(1), releasedFor(5)))
	h.run(t, 6)

	// Tick 1 enters SHORT_PRESS silently, tick 2 prints one '?' and releases.
	if h.out.String() != "?" {
		t.Errorf("console output: got %q, want %q", h.out.String(), "?")
	}
	if len(h.publisher.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(h.publisher.Events))
	}
	if h.publisher.Events[1].To != logic.StateIdle {
		t.Errorf("expected return to IDLE, got %s", h.publisher.Events[1].To)
	}
}

// TestIntegrationLongHoldWaitsForPress verifies LONG_HOLD keeps printing once
// the button is let go.
func TestIntegrationLongHoldWaitsForPress(t *testing.T) {
	h := newHarness(concat(pressedFor(51), releasedFor(20)))
	h.run(t, 71)

	want := strings.Repeat("?", 50) + strings.Repeat("@", 20)
	if h.out.String() != want {
		t.Errorf("console output:\ngot:  %q\nwant: %q", h.out.String(), want)
	}
	if h.machine.State() != logic.StateLongHold {
		t.Errorf("expected LONG_HOLD, got %s", h.machine.State())
	}
	if got := h.console.Counts().LongHold; got != 20 {
		t.Errorf("LongHold count: got %d, want 20", got)
	}
}

// TestIntegrationPublishFailureDoesNotStall verifies output continues when the
// broker rejects every transition.
func TestIntegrationPublishFailureDoesNotStall(t *testing.T) {
	h := newHarness(pressedFor(10))
	h.publisher.PublishError = errPublish
	h.run(t, 10)

	if h.out.String() != strings.Repeat("?", 9) {
		t.Errorf("console output: got %q", h.out.String())
	}
	if len(h.publisher.Events) != 0 {
		t.Errorf("expected 0 recorded events, got %d", len(h.publisher.Events))
	}
}

// TestIntegrationPayloadFormat verifies the exact JSON structure.
func TestIntegrationPayloadFormat(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		From:      logic.StateShortPress,
		To:        logic.StateLongHold,
		Tick:      51,
	}

	publisher := mqtt.NewFakePublisher()
	if err := publisher.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"button":{"timestamp":"2026-02-02T22:18:12Z","event":"TRANSITION","from":"SHORT_PRESS","to":"LONG_HOLD","tick":51}}`

	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.Payloads[0]), expected)
	}
}

// TestIntegrationShutdownPayloadFormat verifies the exact JSON structure for shutdown events.
func TestIntegrationShutdownPayloadFormat(t *testing.T) {
	publisher := mqtt.NewFakePublisher()

	event := mqtt.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	if err := publisher.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`

	if string(publisher.SystemPayloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(publisher.SystemPayloads[0]), expected)
	}
}
