// Package e2e drives the assembled service, HTTP surface included, through a
// complete dispatch cycle without external infrastructure.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetops/ringrail/api/vehicles"
	"github.com/fleetops/ringrail/core/dispatch"
	coremetrics "github.com/fleetops/ringrail/core/metrics"
	"github.com/fleetops/ringrail/core/model"
	"github.com/fleetops/ringrail/infra/logger"
	"github.com/fleetops/ringrail/infra/metrics"
	"github.com/fleetops/ringrail/infra/telemetry"
	"github.com/fleetops/ringrail/internal/eventbus"
	"github.com/fleetops/ringrail/simulator"
)

// arrivalCount sums the arrival counter across all label combinations.
func arrivalCount(t *testing.T, reg *prometheus.Registry) int {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "ring_arrivals_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return int(total)
}

// httpDispatcher adapts the HTTP API back to the simulator's interface so
// the fleet exercises the full request path.
type httpDispatcher struct {
	base   string
	client *http.Client
}

func (h *httpDispatcher) NextCommand(vehicle string) (model.Command, error) {
	resp, err := h.client.Get(h.base + "/api/v1/vehicles/" + vehicle + "/command")
	if err != nil {
		return model.Command{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Command{}, fmt.Errorf("command poll status %d", resp.StatusCode)
	}
	var cmd model.Command
	return cmd, json.NewDecoder(resp.Body).Decode(&cmd)
}

func (h *httpDispatcher) ReportArrival(vehicle string, rep model.ArrivalReport) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	resp, err := h.client.Post(h.base+"/api/v1/vehicles/"+vehicle+"/report", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("report status %d", resp.StatusCode)
	}
	return nil
}

func postJSON(t *testing.T, client *http.Client, url string, v any) {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post %s status %d", url, resp.StatusCode)
	}
}

func TestFullDispatchCycle(t *testing.T) {
	cfg := dispatch.Config{}
	cfg.SetDefaults()

	bus := eventbus.New()
	defer bus.Close()

	reg := prometheus.NewRegistry()
	sinkIf, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartEventCollector(ctx, bus, sinkIf)

	sched, err := dispatch.New(cfg, logger.NopLogger{}, bus)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	mqttClient := telemetry.NewMockClient()
	telemetry.StartStatePublisher(ctx, bus, mqttClient, telemetry.Config{Topic: "depot"}, sched, logger.NopLogger{})

	srv := httptest.NewServer(vehicles.NewServer(sched, logger.NopLogger{}).Handler())
	defer srv.Close()
	d := &httpDispatcher{base: srv.URL, client: srv.Client()}

	positions := map[string]int{"a": 1, "b": 2, "c": 3}
	postJSON(t, srv.Client(), srv.URL+"/api/v1/initialize", map[string]any{"positions": positions})
	postJSON(t, srv.Client(), srv.URL+"/api/v1/call", map[string]any{"vehicle": "a", "station": 3})

	fleet := simulator.NewFleet(positions, cfg.Stations, simulator.PerfectDetection{})
	if err := fleet.Drive(d, 50); err != nil {
		t.Fatalf("drive: %v", err)
	}

	// The chain push around a four-station ring takes six moves.
	final, err := sched.Positions()
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if final["a"] != 3 {
		t.Fatalf("a ended at %d, want 3", final["a"])
	}
	if depth := sched.QueueDepth(); depth != 0 {
		t.Fatalf("queue depth %d after cycle", depth)
	}

	// Every completed move was counted. The collector consumes the bus
	// asynchronously, so poll until the counters catch up.
	deadline := time.After(time.Second)
	for arrivalCount(t, reg) < 6 {
		select {
		case <-deadline:
			t.Fatalf("metrics incomplete: %v arrivals", arrivalCount(t, reg))
		case <-time.After(5 * time.Millisecond):
		}
	}

	// Telemetry saw the arrivals too.
	deadline = time.After(time.Second)
	for len(mqttClient.Published("depot/arrivals")) < 6 {
		select {
		case <-deadline:
			t.Fatalf("telemetry incomplete: %d arrival messages", len(mqttClient.Published("depot/arrivals")))
		case <-time.After(5 * time.Millisecond):
		}
	}
}
