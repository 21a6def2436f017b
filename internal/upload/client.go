package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Counts mirrors the summary returned by PUT /api/v1/data.
type Counts struct {
	Templates    int `json:"templates"`
	TrainingDays int `json:"trainingDays"`
	Workouts     int `json:"workouts"`
	BodyWeight   int `json:"bodyWeight"`
	RunSessions  int `json:"runSessions"`
}

// Client sends data to a fittrack server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the fittrack server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// statusError is a non-200 response from the server.
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("replace failed (status %d): %s", e.status, bytes.TrimSpace(e.body))
}

// PushSnapshot PUTs a whole document to the server's data endpoint. Network
// errors and 5xx responses are retried up to 3 times with exponential
// backoff; client errors are returned immediately.
func (c *Client) PushSnapshot(ctx context.Context, doc []byte) (Counts, error) {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff << (attempt - 1)):
			case <-ctx.Done():
				return Counts{}, ctx.Err()
			}
		}

		counts, err := c.put(ctx, doc)
		if err == nil {
			return counts, nil
		}
		lastErr = err
		if se, ok := err.(*statusError); ok && se.status < 500 {
			return Counts{}, err
		}
	}

	return Counts{}, fmt.Errorf("after 3 attempts: %w", lastErr)
}

func (c *Client) put(ctx context.Context, doc []byte) (Counts, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.serverURL+"/api/v1/data", bytes.NewReader(doc))
	if err != nil {
		return Counts{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Counts{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Counts{}, &statusError{status: resp.StatusCode, body: body}
	}

	var counts Counts
	if err := json.Unmarshal(body, &counts); err != nil {
		return Counts{}, fmt.Errorf("decoding response: %w", err)
	}
	return counts, nil
}

// FetchSnapshot downloads the server's current document.
func (c *Client) FetchSnapshot(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/v1/data", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading data: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode, body: body}
	}
	return body, nil
}
