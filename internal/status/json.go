package status

import (
	"encoding/json"
	"time"
)

// FormatStatusEvent renders a system event payload carrying the full
// status snapshot. Used for STARTUP, SHUTDOWN and HEARTBEAT messages so
// a single retained message describes the whole daemon.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	counts := make(map[string]int, len(snap.Counts))
	for k, v := range snap.Counts {
		counts[string(k)] = v
	}

	buttons := make([]buttonJSON, len(snap.Buttons))
	for i, b := range snap.Buttons {
		bj := buttonJSON{
			Name:   b.Name,
			Number: b.Number,
			State:  b.State,
			Events: b.Events,
		}
		if b.LastEvent != "" {
			bj.LastEvent = string(b.LastEvent)
			bj.LastEventAt = b.LastEventAt.UTC().Format(time.RFC3339)
		}
		buttons[i] = bj
	}

	payload := statusEventJSON{
		System: systemInnerJSON{
			Timestamp:     snap.Now.UTC().Format(time.RFC3339),
			Event:         event,
			Reason:        reason,
			UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
			MQTT: mqttJSON{
				Connected: snap.MQTTConnected,
				Broker:    snap.Config.Broker,
			},
			Buttons: buttons,
			Counts:  counts,
			Config: configJSON{
				PollMs:      snap.Config.PollMs,
				HeartbeatMs: snap.Config.HeartbeatMs,
				Broker:      snap.Config.Broker,
				HTTPAddr:    snap.Config.HTTPAddr,
			},
		},
	}

	data, _ := json.Marshal(payload)
	return data
}

type statusEventJSON struct {
	System systemInnerJSON `json:"system"`
}

type systemInnerJSON struct {
	Timestamp     string         `json:"timestamp"`
	Event         string         `json:"event"`
	Reason        string         `json:"reason,omitempty"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	MQTT          mqttJSON       `json:"mqtt"`
	Buttons       []buttonJSON   `json:"buttons"`
	Counts        map[string]int `json:"event_counts"`
	Config        configJSON     `json:"config"`
}

type mqttJSON struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

type buttonJSON struct {
	Name        string `json:"name"`
	Number      uint16 `json:"number"`
	State       string `json:"state"`
	LastEvent   string `json:"last_event,omitempty"`
	LastEventAt string `json:"last_event_at,omitempty"`
	Events      int    `json:"events"`
}

type configJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}
