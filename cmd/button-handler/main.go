// Command button-handler monitors GPIO push buttons and publishes
// press/release events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/KargJonas/button-handler/internal/button"
	"github.com/KargJonas/button-handler/internal/gpio"
	"github.com/KargJonas/button-handler/internal/mqtt"
	"github.com/KargJonas/button-handler/internal/status"
	"github.com/KargJonas/button-handler/internal/web"
)

func main() {
	poll := flag.Duration("poll", 20*time.Millisecond, "GPIO polling interval")
	pinList := flag.String("pins", "2,3", "Comma-separated BCM pin numbers to monitor")
	chip := flag.String("chip", gpio.DefaultChip, "GPIO character device name")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	printState := flag.Bool("print-state", false, "Print current pin states and exit")

	flag.Parse()

	pins, err := parsePins(*pinList)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(*poll, pins, *chip, *broker, *heartbeat, *httpAddr, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, pins []int, chip, broker string, heartbeat time.Duration, httpAddr string, printState bool) error {
	// Initialize GPIO
	reader, err := gpio.Open(chip, pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if printState {
		for _, pin := range pins {
			level, err := reader.Read(pin)
			if err != nil {
				return fmt.Errorf("read pin %d: %w", pin, err)
			}
			fmt.Printf("GPIO%d: %s\n", pin, status.StateName(level))
		}
		return nil
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Broker:      broker,
		HTTPAddr:    httpAddr,
		Chip:        chip,
		Pins:        pins,
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
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v pins=%v chip=%s broker=%s heartbeat=%v", poll, pins, chip, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, publisher, publisher, tracker, pins, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader gpio.Reader, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, pins []int, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	mgr := button.New(reader)
	if err := mgr.RegisterAll(pins...); err != nil {
		return fmt.Errorf("register pins: %w", err)
	}

	// pollTime is set once per tick before Poll, so every callback in
	// the same pass carries the same timestamp.
	var pollTime time.Time
	emit := func(pin int, typ mqtt.EventType) {
		if typ == mqtt.EventPress {
			tracker.RecordPress(pin)
		} else {
			tracker.RecordRelease(pin)
		}
		event := mqtt.Event{
			Timestamp: pollTime,
			Pin:       pin,
			Type:      typ,
			Pressed:   mgr.Pressed(),
		}
		log.Printf("event: %s pin %d (held: %v)", typ, pin, event.Pressed)
		if err := publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}
	mgr.SetHandlers(
		func(pin int) { emit(pin, mqtt.EventPress) },
		func(pin int) { emit(pin, mqtt.EventRelease) },
	)

	startTime := now()
	lastHeartbeat := startTime

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
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
			return nil

		case <-tick:
			pollTime = now()
			if err := mgr.Poll(); err != nil {
				log.Printf("gpio read error: %v", err)
				// Skipped pins keep their previous state; keep polling.
			}
			tracker.SetReady()
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Check for heartbeat
			if heartbeat > 0 && pollTime.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = pollTime

				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v presses=%d releases=%d",
					snap.Uptime().Truncate(time.Second), snap.TotalPresses(), snap.TotalReleases())

				hbEvent := mqtt.SystemEvent{
					Timestamp:  pollTime,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// parsePins converts a comma-separated pin list ("2,3,17") into ints.
func parsePins(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	pins := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pin, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid pin %q: %w", part, err)
		}
		if pin < 0 {
			return nil, fmt.Errorf("invalid pin %d: must be >= 0", pin)
		}
		pins = append(pins, pin)
	}
	if len(pins) == 0 {
		return nil, fmt.Errorf("no pins configured")
	}
	return pins, nil
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
