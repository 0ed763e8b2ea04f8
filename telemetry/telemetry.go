// Package telemetry provides opt-in usage collection for the cmdql CLI.
// Events batch in memory and flush in the background; a failed flush is
// dropped silently, never surfaced to the user. The library core records
// nothing; only the CLI calls in here.
package telemetry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"
)

const (
	defaultEndpoint = "https://telemetry.cmdql.dev/v1/events"
	batchSize       = 10
	flushInterval   = 30 * time.Second
)

// Event is one recorded CLI action.
type Event struct {
	EventType    string            `json:"event_type"`
	CommandKind  string            `json:"command_kind,omitempty"`
	Strategy     string            `json:"strategy,omitempty"`
	DurationMS   int64             `json:"duration_ms,omitempty"`
	FailureCode  string            `json:"failure_code,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
	OS           string            `json:"os"`
	Architecture string            `json:"architecture"`
}

// Collector batches events and posts them to the endpoint.
type Collector struct {
	enabled  bool
	endpoint string
	version  string
	client   *http.Client

	mu     sync.Mutex
	events []Event

	stop chan struct{}
	wg   sync.WaitGroup
}

var (
	global *Collector
	once   sync.Once
)

// Init sets up the global collector. CMDQL_TELEMETRY_DISABLED wins over
// the enabled flag; CMDQL_TELEMETRY_ENDPOINT overrides the destination.
func Init(version string, enabled bool) {
	once.Do(func() {
		global = &Collector{
			enabled:  enabled && os.Getenv("CMDQL_TELEMETRY_DISABLED") == "",
			endpoint: endpoint(),
			version:  version,
			client:   &http.Client{Timeout: 5 * time.Second},
			events:   make([]Event, 0, batchSize),
			stop:     make(chan struct{}),
		}
		if global.enabled {
			global.wg.Add(1)
			go global.flushLoop()
		}
	})
}

func endpoint() string {
	if e := os.Getenv("CMDQL_TELEMETRY_ENDPOINT"); e != "" {
		return e
	}
	return defaultEndpoint
}

// RecordTranslation records one translate/validate run. The failure code,
// not the full message, travels; parameter values never leave the
// process.
func RecordTranslation(kind, strategy string, duration time.Duration, failureCode string) {
	if global == nil || !global.enabled {
		return
	}
	global.record(Event{
		EventType:   "translation",
		CommandKind: kind,
		Strategy:    strategy,
		DurationMS:  duration.Milliseconds(),
		FailureCode: failureCode,
		Timestamp:   time.Now().UTC(),
	})
}

// RecordCLI records a bare CLI invocation (init, docs, version, ...).
func RecordCLI(name string) {
	if global == nil || !global.enabled {
		return
	}
	global.record(Event{
		EventType: "cli",
		Metadata:  map[string]string{"command": name},
		Timestamp: time.Now().UTC(),
	})
}

// Shutdown flushes what is pending and stops the background loop.
func Shutdown() {
	if global == nil || !global.enabled {
		return
	}
	close(global.stop)
	global.wg.Wait()
	global.flush()
}

func (c *Collector) record(event Event) {
	event.Version = c.version
	event.OS = runtime.GOOS
	event.Architecture = runtime.GOARCH

	c.mu.Lock()
	c.events = append(c.events, event)
	full := len(c.events) >= batchSize
	c.mu.Unlock()

	if full {
		c.flush()
	}
}

func (c *Collector) flushLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.flush()
		case <-c.stop:
			return
		}
	}
}

// flush posts the pending batch. Failures drop the batch; telemetry must
// never block or break the CLI.
func (c *Collector) flush() {
	c.mu.Lock()
	if len(c.events) == 0 {
		c.mu.Unlock()
		return
	}
	batch := c.events
	c.events = make([]Event, 0, batchSize)
	c.mu.Unlock()

	body, err := json.Marshal(batch)
	if err != nil {
		return
	}
	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return
	}
	resp.Body.Close()
}
