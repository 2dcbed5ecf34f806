package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/debounce-button/internal/printarray"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	State         string        `json:"state"`
	HoldCount     int           `json:"hold_count"`
	Ticks         uint64        `json:"ticks"`
	Transitions   int           `json:"transitions"`
	ReadErrors    int           `json:"gpio_read_errors"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Emissions     EmissionsJSON `json:"emissions"`
	Recent        RecentJSON    `json:"recent"`
	Jitter        *JitterJSON   `json:"tick_interval,omitempty"`
	Network       *NetworkJSON  `json:"network,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// EmissionsJSON is the JSON representation of emission counts.
type EmissionsJSON struct {
	ShortPress  int `json:"short_press"`
	LongHold    int `json:"long_hold"`
	ReleaseHold int `json:"release_hold"`
}

// RecentJSON renders the recent windows as printed lists, e.g. "[T, T, F]".
type RecentJSON struct {
	Samples   string `json:"samples"`
	Emissions string `json:"emissions"`
}

// JitterJSON summarises wall-clock time between ticks.
type JitterJSON struct {
	Count    int     `json:"count"`
	MeanMs   float64 `json:"mean_ms"`
	StdDevMs float64 `json:"stddev_ms"`
	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs           int64  `json:"tick_ms"`
	ShortPressTicks  int    `json:"short_press_ticks"`
	ReleaseHoldTicks int    `json:"release_hold_ticks"`
	HeartbeatMs      int64  `json:"heartbeat_ms"`
	PinButton        int    `json:"pin_button"`
	PinWave          int    `json:"pin_wave"`
	Broker           string `json:"broker"`
	HTTPAddr         string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		State:         snap.State.String(),
		HoldCount:     snap.HoldCount,
		Ticks:         snap.Ticks,
		Transitions:   snap.Transitions,
		ReadErrors:    snap.ReadErrors,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Emissions: EmissionsJSON{
			ShortPress:  snap.Emissions.ShortPress,
			LongHold:    snap.Emissions.LongHold,
			ReleaseHold: snap.Emissions.ReleaseHold,
		},
		Recent: RecentJSON{
			Samples:   printarray.Format(snap.RecentSamples),
			Emissions: printarray.Format(snap.RecentEmissions),
		},
		Config: ConfigJSON{
			TickMs:           snap.Config.TickMs,
			ShortPressTicks:  snap.Config.ShortPressTicks,
			ReleaseHoldTicks: snap.Config.ReleaseHoldTicks,
			HeartbeatMs:      snap.Config.HeartbeatMs,
			PinButton:        snap.Config.PinButton,
			PinWave:          snap.Config.PinWave,
			Broker:           snap.Config.Broker,
			HTTPAddr:         snap.Config.HTTPAddr,
		},
	}

	// Mean and deviation are NaN until the first interval, and JSON has no NaN.
	if j := snap.Jitter; j.Count > 0 {
		inner.Jitter = &JitterJSON{
			Count:    j.Count,
			MeanMs:   j.Mean,
			StdDevMs: j.StdDev,
			MinMs:    j.Min,
			MaxMs:    j.Max,
		}
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
