package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fleetops/ringrail/core/events"
	"github.com/fleetops/ringrail/core/logger"
	"github.com/fleetops/ringrail/internal/eventbus"
)

// PositionSource provides the current vehicle positions, typically the
// scheduler itself.
type PositionSource interface {
	Positions() (map[string]int, error)
}

// arrivalMessage is the wire format for arrival notifications.
type arrivalMessage struct {
	Vehicle   string         `json:"vehicle"`
	Station   int            `json:"station"`
	Event     string         `json:"event"`
	Positions map[string]int `json:"positions,omitempty"`
	Time      time.Time      `json:"time"`
}

// commandMessage is the wire format for command notifications.
type commandMessage struct {
	CommandID       int       `json:"command_id"`
	Vehicle         string    `json:"vehicle"`
	Action          string    `json:"action"`
	ExpectedStation int       `json:"expected_station"`
	Time            time.Time `json:"time"`
}

// StartStatePublisher subscribes to the event bus and republishes scheduler
// activity to MQTT. Publish failures are logged, never propagated: telemetry
// must not interfere with dispatching.
func StartStatePublisher(ctx context.Context, bus eventbus.EventBus, client Client, cfg Config, src PositionSource, log logger.Logger) {
	if bus == nil || client == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.ArrivalRecorded:
					msg := arrivalMessage{
						Vehicle: e.Vehicle,
						Station: e.Station,
						Event:   string(e.Event),
						Time:    e.Time,
					}
					if src != nil {
						if positions, err := src.Positions(); err == nil {
							msg.Positions = positions
						}
					}
					publishJSON(client, cfg.Topic+"/arrivals", cfg.QoS, msg, log)
				case events.CommandIssued:
					publishJSON(client, cfg.Topic+"/commands", cfg.QoS, commandMessage{
						CommandID:       e.CommandID,
						Vehicle:         e.Vehicle,
						Action:          string(e.Action),
						ExpectedStation: e.ExpectedStation,
						Time:            e.Time,
					}, log)
				case events.Initialized:
					publishJSON(client, cfg.Topic+"/positions", cfg.QoS, e.Positions, log)
				}
			}
		}
	}()
}

func publishJSON(client Client, topic string, qos byte, v any, log logger.Logger) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Errorf("telemetry marshal: %v", err)
		return
	}
	if err := client.Publish(topic, qos, false, payload); err != nil {
		log.Warnf("telemetry publish to %s: %v", topic, err)
	}
}
