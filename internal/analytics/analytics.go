// Package analytics wraps the third-party tracking backend behind an
// explicitly constructed client. There is no ambient global: a nil or
// unconfigured client turns every call into a no-op, so callers never need
// to guard tracking sites with environment checks.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"timeismoney.app/web/internal/config"
)

const (
	defaultQueueSize    = 256
	defaultSendTimeout  = 5 * time.Second
	maxEventsPerPayload = 25 // Measurement Protocol batch limit
)

// Event is a single tracking event.
type Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Snapshot is the read-only view surfaced to templates.
type Snapshot struct {
	MeasurementID string
	Debug         bool
}

// Client queues events and flushes them to the Measurement Protocol
// endpoint. All methods are safe on a nil receiver.
type Client struct {
	cfg      config.AnalyticsConfig
	clientID string
	http     *http.Client

	mu    sync.Mutex
	queue []Event
}

// New builds a client from the analytics configuration. When MeasurementID
// is empty the returned client is nil, which disables tracking entirely.
func New(cfg config.AnalyticsConfig) *Client {
	if cfg.MeasurementID == "" {
		return nil
	}
	return &Client{
		cfg:      cfg,
		clientID: uuid.NewString(),
		http:     &http.Client{Timeout: defaultSendTimeout},
	}
}

// Enabled reports whether tracking calls do anything.
func (c *Client) Enabled() bool { return c != nil }

// Snapshot returns the template-facing view. Safe on nil.
func (c *Client) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{MeasurementID: c.cfg.MeasurementID, Debug: c.cfg.Debug}
}

// Track queues an event. Events beyond the queue bound are dropped; tracking
// never blocks request handling.
func (c *Client) Track(name string, params map[string]any) {
	if c == nil || name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) >= defaultQueueSize {
		return
	}
	c.queue = append(c.queue, Event{Name: name, Params: params})
}

// Pending reports the number of queued events.
func (c *Client) Pending() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

type mpPayload struct {
	ClientID string  `json:"client_id"`
	Events   []Event `json:"events"`
}

// Flush sends all queued events. Events are drained before sending so a
// delivery failure does not grow the queue without bound; the error is
// returned for logging and the events are not retried.
func (c *Client) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	batch := c.queue
	c.queue = nil
	c.mu.Unlock()

	for len(batch) > 0 {
		n := len(batch)
		if n > maxEventsPerPayload {
			n = maxEventsPerPayload
		}
		if err := c.send(ctx, batch[:n]); err != nil {
			return err
		}
		batch = batch[n:]
	}
	return nil
}

func (c *Client) send(ctx context.Context, events []Event) error {
	body, err := json.Marshal(mpPayload{ClientID: c.clientID, Events: events})
	if err != nil {
		return fmt.Errorf("analytics: encode payload: %w", err)
	}
	q := url.Values{}
	q.Set("measurement_id", c.cfg.MeasurementID)
	q.Set("api_secret", c.cfg.APISecret)
	u := c.cfg.Endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("analytics: collect endpoint status %d", resp.StatusCode)
	}
	return nil
}
