// Package similarity provides clients for the external text-similarity
// service used as the semantic ranking signal.
package similarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultTimeout = 3 * time.Second

// ClientConfig configures the HTTP similarity client.
type ClientConfig struct {
	// BaseURL is the service endpoint, e.g. http://similarity:9000/score.
	BaseURL string
	// Timeout bounds each scoring call.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive failures before the
	// circuit opens.
	FailureThreshold uint32
	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL string) ClientConfig {
	return ClientConfig{
		BaseURL:          baseURL,
		Timeout:          defaultTimeout,
		FailureThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// HTTPClient scores skill/task matches via the external service.
//
// The client never fails a ranking request: any transport error,
// non-success status or malformed body degrades to the neutral score 0.
// A circuit breaker keeps a dead service from adding per-candidate
// timeouts to every request.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[float64]
	logger  *slog.Logger
}

// NewHTTPClient creates a similarity client.
func NewHTTPClient(cfg ClientConfig, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "similarity",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
		logger:  logger,
	}
}

type scoreRequest struct {
	UserSkills      []string `json:"user_skills"`
	TaskTitle       string   `json:"task_title"`
	TaskDescription string   `json:"task_description"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// Score returns the semantic similarity in [0, 1] between the skills
// and the task text. Failures return 0 with a nil error so ranking
// degrades to the structural signals.
func (c *HTTPClient) Score(ctx context.Context, skills []string, title, description string) (float64, error) {
	score, err := c.breaker.Execute(func() (float64, error) {
		return c.score(ctx, skills, title, description)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			c.logger.Debug("similarity circuit open, using neutral score")
		} else {
			c.logger.Warn("similarity service unavailable, using neutral score", "error", err)
		}
		return 0, nil
	}
	return clampScore(score), nil
}

func (c *HTTPClient) score(ctx context.Context, skills []string, title, description string) (float64, error) {
	body, err := json.Marshal(scoreRequest{
		UserSkills:      skills,
		TaskTitle:       title,
		TaskDescription: description,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("similarity service returned status %d", resp.StatusCode)
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode similarity response: %w", err)
	}

	return result.Score, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
