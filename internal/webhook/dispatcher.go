package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prazodigital/prazos-backend/pkg/logger"
)

const defaultTimeout = 30 * time.Second

// Doer abstracts the HTTP client for tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher posts one JSON event per notification candidate to a fixed
// gateway URL. It never retries; a failed item is logged and the caller
// moves on to the next one.
type Dispatcher struct {
	client Doer
	logg   *logger.Logger
	url    string
}

// Params configures the dispatcher.
type Params struct {
	Logger  *logger.Logger
	URL     string
	Timeout time.Duration
	Client  Doer
}

// NewDispatcher builds a dispatcher with a bounded request timeout.
func NewDispatcher(params Params) (*Dispatcher, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.URL == "" {
		return nil, fmt.Errorf("webhook url required")
	}
	client := params.Client
	if client == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Dispatcher{
		client: client,
		logg:   params.Logger,
		url:    params.URL,
	}, nil
}

// Send serializes the event and performs a single POST. A non-2xx response
// counts as failure so the caller can record it against the item identity.
func (d *Dispatcher) Send(ctx context.Context, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
