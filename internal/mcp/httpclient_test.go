package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/snapshot"
)

// TestHTTPClientSnapshot verifies the client fetches /api/v1/data and
// migrates the document.
func TestHTTPClientSnapshot(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/data" {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"templates":[{"id":"t1","name":"Row","category":"machine"}],"workouts":null}`))
	}))
	defer ts.Close()

	data, err := NewHTTPClient(ts.URL + "/").Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Templates) != 1 || data.Templates[0].Name != "Row" {
		t.Errorf("templates = %+v", data.Templates)
	}
	if data.Workouts == nil || data.RunSessions == nil {
		t.Error("missing collections were not backfilled")
	}
}

// TestHTTPClientRoundTrip verifies a demo document survives the trip.
func TestHTTPClientRoundTrip(t *testing.T) {
	demo := snapshot.Demo(now)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(demo)
	}))
	defer ts.Close()

	data, err := NewHTTPClient(ts.URL).Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Workouts) != len(demo.Workouts) || data.Workouts[0].Exercises[0].Status != models.TimerCompleted {
		t.Errorf("workouts = %+v", data.Workouts)
	}
}

// TestHTTPClientErrorStatus verifies non-200 responses become errors that
// carry the status and body.
func TestHTTPClientErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unknown tailnet peer"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "unknown tailnet peer") {
		t.Errorf("error = %v", err)
	}
}
