// Command buttond polls GPIO pushbuttons and publishes semantic input
// events (press, long-press, repeat, release, multi-click, idle) to MQTT.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tgould/buttond/internal/button"
	"github.com/tgould/buttond/internal/config"
	"github.com/tgould/buttond/internal/gpio"
	"github.com/tgould/buttond/internal/mqtt"
	"github.com/tgould/buttond/internal/status"
	"github.com/tgould/buttond/internal/web"
)

const version = "1.0.0"

const defaultConfigFile = "/etc/buttond.yaml"

func main() {
	cfg := config.NewConfig()
	var configFile string

	app := &cli.App{
		Name:    "buttond",
		Usage:   "GPIO button event daemon",
		Version: version,
		Description: "Polls pushbuttons attached to GPIO pins, debounces them through" +
			"\na per-button state machine and publishes press, long-press, repeat," +
			"\nrelease, multi-click and idle events to an MQTT broker.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &configFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "broker", Usage: "override the MQTT broker `ADDRESS`"},
			&cli.StringFlag{Name: "http", Usage: "override the status server `ADDRESS`"},
		},
		Action: func(ctx *cli.Context) error {
			if err := cfg.LoadConfig(configFile); err != nil {
				return err
			}
			if ctx.IsSet("broker") {
				cfg.Broker = ctx.String("broker")
			}
			if ctx.IsSet("http") {
				cfg.HTTPAddr = ctx.String("http")
			}
			return run(cfg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config) error {
	// Wall-clock milliseconds since startup drive every state machine.
	start := time.Now()
	ticks := button.TickFunc(func() button.Ticks {
		return button.Ticks(time.Since(start).Milliseconds())
	})

	buttons, names, cleanup, err := setupButtons(cfg, ticks)
	if err != nil {
		return err
	}
	defer cleanup()

	publisher, err := mqtt.NewRealPublisher(cfg.Broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	tracker := status.NewTracker(start, status.Config{
		PollMs:      int64(cfg.PollMs),
		HeartbeatMs: int64(cfg.HeartbeatMs),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
	}, names)

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(tracker, version)
		go func() {
			if err := srv.Listen(cfg.HTTPAddr); err != nil {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown()
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	queue := &eventQueue{}
	bindButtons(buttons, names, queue, time.Now)

	log.Printf("started: poll=%v buttons=%d broker=%s heartbeat=%v",
		cfg.PollInterval(), len(buttons), cfg.Broker, cfg.HeartbeatInterval())

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(buttons, queue, publisher, publisher, tracker, cfg.HeartbeatInterval(), time.Now, ticker.C, sigCh)
}

// setupButtons opens one pin per configured button and builds its state
// machine. The returned cleanup closes everything opened so far.
func setupButtons(cfg *config.Config, ticks button.TickSource) ([]*button.Button, []string, func(), error) {
	var (
		chip    *gpio.Chip
		closers []func() error
		buttons []*button.Button
		names   []string
	)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("close gpio: %v", err)
			}
		}
	}

	for i, bc := range cfg.Buttons {
		var pin gpio.Pin

		switch bc.GpioBackend() {
		case gpio.BackendRpio:
			p, err := gpio.NewRpioPin(bc.Pin)
			if err != nil {
				cleanup()
				return nil, nil, nil, fmt.Errorf("button %q: %w", bc.Name, err)
			}
			pin = p
		default:
			if chip == nil {
				c, err := gpio.OpenChip(cfg.Chip)
				if err != nil {
					cleanup()
					return nil, nil, nil, fmt.Errorf("init gpio: %w", err)
				}
				chip = c
				closers = append(closers, chip.Close)
			}
			p, err := chip.Pin(bc.Pin)
			if err != nil {
				cleanup()
				return nil, nil, nil, fmt.Errorf("button %q: %w", bc.Name, err)
			}
			pin = p
		}
		closers = append(closers, pin.Close)

		mc, err := bc.MachineConfig()
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("button %q: %w", bc.Name, err)
		}
		b, err := button.New(pin, ticks, uint16(i), mc)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("button %q: %w", bc.Name, err)
		}
		buttons = append(buttons, b)
		names = append(names, bc.Name)
	}
	return buttons, names, cleanup, nil
}

// eventQueue collects callback emissions until the poll loop drains
// them. The callbacks run synchronously inside Process, so no locking
// is needed.
type eventQueue struct {
	events []mqtt.Event
}

func (q *eventQueue) push(e mqtt.Event) {
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []mqtt.Event {
	events := q.events
	q.events = nil
	return events
}

// bindButtons forwards every state machine callback into the queue as a
// typed event.
func bindButtons(buttons []*button.Button, names []string, queue *eventQueue, now func() time.Time) {
	for i, b := range buttons {
		name := names[i]
		b.OnEvent(func(t button.EventType, id uint16) {
			queue.push(mqtt.Event{
				Timestamp: now(),
				Button:    name,
				Number:    id,
				Type:      t,
			})
		})
	}
}

func runLoop(buttons []*button.Button, queue *eventQueue, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			publishShutdown(publisher, mqttStatus, tracker, s, now())
			return nil

		case <-tick:
			t := now()
			pollOnce(buttons, queue, publisher, mqttStatus, tracker, t)
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				publishHeartbeat(publisher, tracker, t)
			}
		}
	}
}

// pollOnce advances every state machine one step and fans the emitted
// events out to the log, the tracker and the broker.
func pollOnce(buttons []*button.Button, queue *eventQueue, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, t time.Time) {
	for _, b := range buttons {
		if err := b.Process(); err != nil {
			log.Printf("button %d: %v", b.ID(), err)
			// Don't crash on a flaky pin; the machine holds its state.
		}
	}

	for _, e := range queue.drain() {
		log.Printf("event: %s %s", e.Button, e.Type)
		if tracker != nil {
			tracker.RecordEvent(e.Number, e.Type, e.Timestamp)
		}
		if err := publisher.Publish(e); err != nil {
			log.Printf("publish error: %v", err)
		}
	}

	if tracker != nil {
		for _, b := range buttons {
			tracker.SetState(b.ID(), b.State())
		}
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
	}
}

func publishHeartbeat(publisher mqtt.Publisher, tracker *status.Tracker, t time.Time) {
	hbEvent := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "HEARTBEAT",
	}
	if tracker != nil {
		snap := tracker.Snapshot()
		log.Printf("heartbeat: uptime=%v events=%d", snap.Uptime(), snap.TotalEvents())
		hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
	}
	if err := publisher.PublishSystem(hbEvent); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func publishShutdown(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, s os.Signal, t time.Time) {
	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: t,
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if tracker != nil {
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		snap := tracker.Snapshot()
		event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}
