package mcp

import (
	"context"
	"testing"
	"time"
)

// TestUserFromContextDefault verifies the default login when no value is set
// in the context.
func TestUserFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if login := UserFromContext(ctx); login != "local" {
		t.Errorf("UserFromContext(empty) = %q, want local", login)
	}
}

// TestUserFromContextSet verifies the login is extracted from context after
// being set by WithUser.
func TestUserFromContextSet(t *testing.T) {
	ctx := WithUser(context.Background(), "alice@example.com")
	if login := UserFromContext(ctx); login != "alice@example.com" {
		t.Errorf("UserFromContext = %q, want alice@example.com", login)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !end.Equal(now) {
		t.Errorf("end = %v, want %v", end, now)
	}
	if diff := end.Sub(start); diff != 7*24*time.Hour {
		t.Errorf("default range = %v, want 168h", diff)
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "", now)
	if err == nil {
		t.Error("expected error for invalid date")
	}
}
