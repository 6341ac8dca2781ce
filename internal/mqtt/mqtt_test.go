package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tgould/buttond/internal/button"
)

func TestFormatPayload(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	event := Event{
		Timestamp: ts,
		Button:    "volume-up",
		Number:    2,
		Type:      button.EventDoubleClick,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Button.Name != "volume-up" {
		t.Errorf("expected name volume-up, got %s", p.Button.Name)
	}
	if p.Button.Number != 2 {
		t.Errorf("expected number 2, got %d", p.Button.Number)
	}
	if p.Button.Event != "DOUBLE_CLICK" {
		t.Errorf("expected event DOUBLE_CLICK, got %s", p.Button.Event)
	}
	if p.Button.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("unexpected timestamp: %s", p.Button.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	event := SystemEvent{
		Timestamp: ts,
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var p SystemPayload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.System.Event != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN, got %s", p.System.Event)
	}
	if p.System.Reason != "SIGTERM" {
		t.Errorf("expected SIGTERM, got %s", p.System.Reason)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "HEARTBEAT",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}

	var m map[string]map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := m["system"]["reason"]; ok {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"system":{"event":"STARTUP"}}`)
	event := SystemEvent{RawPayload: raw}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload should pass through unchanged, got %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := Event{Timestamp: time.Now(), Button: "ok", Number: 1, Type: button.EventPress}
	if err := f.Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(f.Events) != 1 || f.Events[0].Type != button.EventPress {
		t.Errorf("expected one recorded PRESS event, got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected one payload, got %d", len(f.Payloads))
	}

	sys := SystemEvent{Timestamp: time.Now(), Event: "STARTUP"}
	if err := f.PublishSystem(sys); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}
	if len(f.SystemEvents) != 1 {
		t.Errorf("expected one system event, got %d", len(f.SystemEvents))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	err := f.Publish(Event{Timestamp: time.Now()})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("failed publish should not be recorded, got %d", len(f.Events))
	}
}
