// Command debounce-button runs the button debounce state machine against a GPIO
// input, writes its characters to stdout and publishes transitions to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sweeney/debounce-button/internal/console"
	"github.com/sweeney/debounce-button/internal/gpio"
	"github.com/sweeney/debounce-button/internal/logic"
	"github.com/sweeney/debounce-button/internal/metrics"
	"github.com/sweeney/debounce-button/internal/mqtt"
	"github.com/sweeney/debounce-button/internal/printarray"
	"github.com/sweeney/debounce-button/internal/stats"
	"github.com/sweeney/debounce-button/internal/status"
	"github.com/sweeney/debounce-button/internal/wave"
	"github.com/sweeney/debounce-button/internal/web"
)

type config struct {
	pinButton  int
	pinWave    int
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func main() {
	var cfg config
	flag.IntVar(&cfg.pinButton, "pin", gpio.DefaultPinButton, "BCM pin number for the push button (active-low)")
	flag.IntVar(&cfg.pinWave, "wave-pin", gpio.DefaultPinWave, "BCM pin number for the 500Hz square wave (-1 to disable)")
	flag.StringVar(&cfg.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.BoolVar(&cfg.printState, "print-state", false, "Print current button state and exit")
	debug := flag.Bool("debug", false, "Human-readable debug logging")

	flag.Parse()

	log, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	// stdout carries the state machine's characters; keep logs off it.
	zc.OutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func run(cfg config, log *zap.SugaredLogger) (err error) {
	// Initialize GPIO
	reader, err := gpio.NewRealReader(cfg.pinButton)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() { err = multierr.Append(err, reader.Close()) }()

	// Print state mode
	if cfg.printState {
		pressed, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("BUTTON: %s\n", buttonString(pressed))
		return nil
	}

	clk := clock.New()
	out := console.New(os.Stdout)
	if err := out.Banner(); err != nil {
		log.Warnf("console banner: %v", err)
	}

	// Square wave runs as its own task beside the state machine.
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()
	if cfg.pinWave >= 0 {
		writer, err := gpio.NewRealWriter(cfg.pinWave)
		if err != nil {
			return fmt.Errorf("init wave pin: %w", err)
		}
		gen := wave.New(writer, clk, wave.DefaultHalfPeriod, log.Named("wave"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gen.Run(ctx); err != nil {
				log.Errorf("square wave stopped: %v", err)
			}
			if err := writer.Close(); err != nil {
				log.Warnf("close wave pin: %v", err)
			}
		}()
	}

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.broker, log.Named("mqtt"))
	defer publisher.Close()

	m := metrics.New()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(clk.Now(), status.Config{
		TickMs:           logic.TickPeriod.Milliseconds(),
		ShortPressTicks:  logic.ShortPressTicks,
		ReleaseHoldTicks: logic.ReleaseHoldTicks,
		HeartbeatMs:      cfg.heartbeat.Milliseconds(),
		PinButton:        cfg.pinButton,
		PinWave:          cfg.pinWave,
		Broker:           cfg.broker,
		HTTPAddr:         cfg.httpAddr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warnf("failed to publish startup event: %v", err)
	} else {
		log.Infof("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cfg.httpAddr)
	}

	log.Infof("started: tick=%v pin=%d wave-pin=%d broker=%s heartbeat=%v",
		logic.TickPeriod, cfg.pinButton, cfg.pinWave, cfg.broker, cfg.heartbeat)

	ticker := clk.Ticker(logic.TickPeriod)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loopDeps{
		reader:     reader,
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		console:    out,
		metrics:    m,
		heartbeat:  cfg.heartbeat,
		now:        clk.Now,
		log:        log,
	}, ticker.C, sigCh)
}

// loopDeps are the collaborators runLoop drives. tracker, metrics and
// mqttStatus may be nil.
type loopDeps struct {
	reader     gpio.Reader
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	console    *console.Console
	metrics    *metrics.Metrics
	heartbeat  time.Duration
	now        func() time.Time
	log        *zap.SugaredLogger
}

func runLoop(d loopDeps, tick <-chan time.Time, sig <-chan os.Signal) error {
	machine := logic.NewMachine()
	var jitter stats.Tracker

	var (
		ticks         uint64
		transitions   int
		lastTick      time.Time
		lastHeartbeat = d.now()
	)

	for {
		select {
		case s := <-sig:
			d.log.Infof("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: d.now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if d.tracker != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := d.publisher.PublishSystem(event); err != nil {
				d.log.Warnf("failed to publish shutdown event: %v", err)
			} else {
				d.log.Infof("published shutdown event")
			}
			return nil

		case <-tick:
			t := d.now()

			// Interval is measured between scheduler ticks, read errors or not.
			if !lastTick.IsZero() {
				interval := t.Sub(lastTick)
				jitter.Add(float64(interval) / float64(time.Millisecond))
				if d.metrics != nil {
					d.metrics.ObserveInterval(interval)
				}
			}
			lastTick = t

			pressed, err := d.reader.Read()
			if err != nil {
				d.log.Warnf("gpio read error: %v", err)
				if d.metrics != nil {
					d.metrics.ReadErrors.Inc()
				}
				if d.tracker != nil {
					d.tracker.IncReadErrors()
				}
				continue
			}

			ticks++
			res := machine.StepDetailed(pressed)

			if res.Emitted {
				if err := d.console.Emit(res.Char); err != nil {
					d.log.Warnf("console: %v", err)
				}
			}

			if tr := res.Transition; tr != nil {
				transitions++
				event := logic.Event{Timestamp: t, From: tr.From, To: tr.To, Tick: ticks}
				d.log.Debugf("transition: %s -> %s (tick %d)", tr.From, tr.To, ticks)
				if err := d.publisher.Publish(event); err != nil {
					d.log.Warnf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if d.metrics != nil {
				d.metrics.Observe(res, machine.State(), machine.Count())
			}

			// Update status tracker for HTTP consumers
			if d.tracker != nil {
				d.tracker.Update(machine.State(), machine.Count(), ticks, transitions, d.console.Counts())
				d.tracker.RecordSample(pressed, res.Char, res.Emitted)
				d.tracker.SetJitter(jitter.Summary())
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
			}

			// Check for heartbeat
			if d.heartbeat > 0 && t.Sub(lastHeartbeat) >= d.heartbeat {
				lastHeartbeat = t
				publishHeartbeat(d, t, jitter.Summary())
			}
		}
	}
}

func publishHeartbeat(d loopDeps, t time.Time, j stats.Summary) {
	counts := d.console.Counts()
	d.log.Infof("heartbeat: emissions=%s tick_mean=%.2fms tick_stddev=%.2fms",
		printarray.Format([]int{counts.ShortPress, counts.LongHold, counts.ReleaseHold}), j.Mean, j.StdDev)

	hbEvent := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "HEARTBEAT",
	}
	if d.tracker != nil {
		if d.mqttStatus != nil {
			d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
		}
		// Refresh network info for heartbeat
		if net := readNetworkInfo(); net != nil {
			d.tracker.SetNetwork(net)
		}
		hbEvent.RawPayload = status.FormatStatusEvent(d.tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := d.publisher.PublishSystem(hbEvent); err != nil {
		d.log.Warnf("heartbeat publish error: %v", err)
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func buttonString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
