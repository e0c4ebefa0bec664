package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"beerchek/webapp-svc/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MessengerTransport posts envelopes to the bot's webapp-data endpoint.
type MessengerTransport struct {
	Endpoint string
	Timeout  time.Duration
	Client   HTTPClient
}

func NewMessengerTransport(endpoint string, timeout time.Duration, client HTTPClient) *MessengerTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &MessengerTransport{Endpoint: endpoint, Timeout: timeout, Client: client}
}

func (t *MessengerTransport) Publish(ctx context.Context, envelope domain.BridgeEnvelope) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := strings.TrimRight(t.Endpoint, "/") + "/webapp-data"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build messenger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("messenger request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("messenger returned status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}
