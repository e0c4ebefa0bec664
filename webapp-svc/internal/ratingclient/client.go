package ratingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"beerchek/webapp-svc/internal/domain"
)

var ErrMalformedResponse = errors.New("malformed rating response")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned when the rating service answers with a non-2xx code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rating service returned status=%d body=%s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

type Client struct {
	config Config
	client HTTPClient
}

func New(config Config, client HTTPClient) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Retries < 0 {
		config.Retries = 0
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if client == nil {
		client = &http.Client{}
	}
	return &Client{config: config, client: client}
}

type averageResponse struct {
	Beer      string   `json:"beer"`
	AvgRating *float64 `json:"avg_rating"`
}

// Average reads the service's average for beer. A null avg_rating is not an
// error: it yields an invalid AverageRating.
func (c *Client) Average(ctx context.Context, beer string) (domain.AverageRating, error) {
	endpoint := c.config.BaseURL + "/rating?beer=" + url.QueryEscape(beer)

	var lastErr error
	for attempt := 0; attempt <= c.config.Retries; attempt++ {
		if attempt > 0 && c.config.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return domain.AverageRating{}, ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		avg, err := c.fetchAverage(ctx, endpoint)
		if err == nil {
			return avg, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}
	return domain.AverageRating{}, lastErr
}

func (c *Client) fetchAverage(ctx context.Context, endpoint string) (domain.AverageRating, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.AverageRating{}, fmt.Errorf("failed to build rating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.AverageRating{}, fmt.Errorf("rating request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return domain.AverageRating{}, err
	}

	var payload averageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.AverageRating{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload.AvgRating == nil {
		return domain.AverageRating{}, nil
	}
	return domain.NewAverage(*payload.AvgRating), nil
}

// Submit posts one rating. It is never retried: the service counts every
// write, so a retry after a lost response could record the rating twice.
func (c *Client) Submit(ctx context.Context, submission domain.RatingSubmission) error {
	body, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to encode rating: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/rating", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build rating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rating submit failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	message, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(message))}
}

// retryable reports whether another attempt could succeed: transport errors
// and 5xx answers, never a 4xx or an undecodable body.
func retryable(err error) bool {
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return true
}
