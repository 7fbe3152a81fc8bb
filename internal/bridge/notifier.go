package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier delivers outbound signals to the native host shell
type Notifier interface {
	// NotifyMapReady signals that the map finished rendering
	NotifyMapReady(ctx context.Context) error
}

// HostNotifier posts outbound signals to the native shell's callback URL
type HostNotifier struct {
	callbackURL string
	httpClient  *http.Client
}

// NewHostNotifier creates a notifier for the given callback URL. An empty
// URL yields a notifier that only logs locally.
func NewHostNotifier(callbackURL string) *HostNotifier {
	return &HostNotifier{
		callbackURL: callbackURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// mapReadyEvent is the payload of the map-initialized signal
type mapReadyEvent struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifyMapReady posts the map-initialized event to the host
func (n *HostNotifier) NotifyMapReady(ctx context.Context) error {
	if n.callbackURL == "" {
		return nil
	}

	body, err := json.Marshal(mapReadyEvent{
		Event:     "map-initialized",
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("notifier: failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notifier: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifier: map-ready delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notifier: map-ready delivery returned status %d", resp.StatusCode)
	}
	return nil
}
