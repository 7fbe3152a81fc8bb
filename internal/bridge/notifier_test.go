package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHostNotifier_PostsMapReadyEvent(t *testing.T) {
	var got mapReadyEvent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewHostNotifier(server.URL)
	if err := n.NotifyMapReady(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Event != "map-initialized" {
		t.Fatalf("expected map-initialized event, got %q", got.Event)
	}
}

func TestHostNotifier_ReportsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewHostNotifier(server.URL)
	if err := n.NotifyMapReady(context.Background()); err == nil {
		t.Fatal("expected an error for a failing callback")
	}
}

func TestHostNotifier_EmptyURLIsNoOp(t *testing.T) {
	n := NewHostNotifier("")
	if err := n.NotifyMapReady(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
