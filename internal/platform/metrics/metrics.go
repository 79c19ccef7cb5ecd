// Package metrics provides observability for the game server.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Command metrics
	CommandsApplied  int64
	CommandsRejected int64

	// Event metrics
	EventsAppended     int64
	ArchiveWrites      int64
	ArchiveWriteLatSum int64 // nanoseconds
	ArchiveWriteLatMax int64
	ArchiveWriteErrors int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordCommand records a command application outcome.
func (c *Collector) RecordCommand(ok bool) {
	if ok {
		atomic.AddInt64(&c.CommandsApplied, 1)
	} else {
		atomic.AddInt64(&c.CommandsRejected, 1)
	}
}

// RecordEvents records events appended to the match log.
func (c *Collector) RecordEvents(n int64) {
	atomic.AddInt64(&c.EventsAppended, n)
}

// RecordArchiveWrite records an event write to the database.
func (c *Collector) RecordArchiveWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.ArchiveWrites, 1)
	atomic.AddInt64(&c.ArchiveWriteLatSum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.ArchiveWriteLatMax) {
		atomic.StoreInt64(&c.ArchiveWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.ArchiveWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	archiveWrites := atomic.LoadInt64(&c.ArchiveWrites)

	var archiveAvg float64
	if archiveWrites > 0 {
		archiveAvg = float64(atomic.LoadInt64(&c.ArchiveWriteLatSum)) / float64(archiveWrites) / 1e6 // ms
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"commands": map[string]interface{}{
			"applied":  atomic.LoadInt64(&c.CommandsApplied),
			"rejected": atomic.LoadInt64(&c.CommandsRejected),
		},

		"events": map[string]interface{}{
			"appended":           atomic.LoadInt64(&c.EventsAppended),
			"archive_writes":     archiveWrites,
			"archive_avg_lat_ms": archiveAvg,
			"archive_max_lat_ms": float64(atomic.LoadInt64(&c.ArchiveWriteLatMax)) / 1e6,
			"archive_errors":     atomic.LoadInt64(&c.ArchiveWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Command metrics
		fmt.Fprintf(w, "# HELP principia_commands_total Total commands processed\n")
		fmt.Fprintf(w, "# TYPE principia_commands_total counter\n")
		fmt.Fprintf(w, "principia_commands_total{outcome=\"applied\"} %d\n", atomic.LoadInt64(&c.CommandsApplied))
		fmt.Fprintf(w, "principia_commands_total{outcome=\"rejected\"} %d\n\n", atomic.LoadInt64(&c.CommandsRejected))

		// Event metrics
		fmt.Fprintf(w, "# HELP principia_events_appended Total events appended to match logs\n")
		fmt.Fprintf(w, "# TYPE principia_events_appended counter\n")
		fmt.Fprintf(w, "principia_events_appended %d\n\n", atomic.LoadInt64(&c.EventsAppended))

		fmt.Fprintf(w, "# HELP principia_archive_writes Total event archive writes\n")
		fmt.Fprintf(w, "# TYPE principia_archive_writes counter\n")
		fmt.Fprintf(w, "principia_archive_writes %d\n\n", atomic.LoadInt64(&c.ArchiveWrites))

		fmt.Fprintf(w, "# HELP principia_archive_write_errors Total event archive write errors\n")
		fmt.Fprintf(w, "# TYPE principia_archive_write_errors counter\n")
		fmt.Fprintf(w, "principia_archive_write_errors %d\n\n", atomic.LoadInt64(&c.ArchiveWriteErrors))

		fmt.Fprintf(w, "# HELP principia_archive_write_latency_max_ms Maximum archive write latency\n")
		fmt.Fprintf(w, "# TYPE principia_archive_write_latency_max_ms gauge\n")
		fmt.Fprintf(w, "principia_archive_write_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.ArchiveWriteLatMax))/1e6)

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP principia_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE principia_ws_connections gauge\n")
		fmt.Fprintf(w, "principia_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP principia_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE principia_ws_messages_total counter\n")
		fmt.Fprintf(w, "principia_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "principia_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
