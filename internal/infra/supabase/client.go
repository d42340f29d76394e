// Package supabase provides a client for Supabase (PostgREST + Auth).
// Used as the real data backend for all platform tables: users, services,
// tarot content, bookings, payments, analytics and preferences.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/resilience"
)

var tracer = otel.Tracer("supabase")

// Client wraps HTTP calls to Supabase PostgREST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	cfg            resilience.Config
	logger         *zap.Logger
}

// NewClient creates a Supabase client.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		cfg:            cfg,
		logger:         logger,
	}
}

func (c *Client) setHeaders(req *http.Request, prefer string) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
}

// mapError converts transport-level failures into typed domain errors so
// handlers can translate them to proper status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &domain.ErrCircuitOpen{Service: "supabase"}
	case errors.Is(err, context.DeadlineExceeded):
		return &domain.ErrTimeout{Operation: "supabase"}
	default:
		return &domain.ErrExternalService{Service: "supabase", Err: err}
	}
}

// doRequest executes an authenticated read against Supabase PostgREST.
// Reads are idempotent, so the call runs through the circuit breaker with
// retry. A 404 or 204 yields (nil, nil); other non-2xx statuses are errors.
func (c *Client) doRequest(ctx context.Context, method, path string) ([]byte, error) {
	var out []byte

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
			req, err := http.NewRequestWithContext(ctx, method, url, nil)
			if err != nil {
				c.logger.Error("supabase: failed to create request",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
				return err
			}
			c.setHeaders(req, "return=representation")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				c.logger.Error("supabase: request failed",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
				return err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				c.logger.Error("supabase: failed to read response body",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
				return err
			}

			if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
				out = nil
				return nil // no data
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				c.logger.Warn("supabase: non-2xx response",
					zap.String("method", method),
					zap.String("path", path),
					zap.Int("status", resp.StatusCode),
					zap.String("body", string(body)),
				)
				return fmt.Errorf("supabase returned status %d: %s", resp.StatusCode, string(body))
			}

			c.logger.Debug("supabase: request OK",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
			)

			out = body
			return nil
		})
	})
	if err != nil {
		return nil, mapError(err)
	}

	return out, nil
}

// Ping probes PostgREST for the readiness check. It bypasses the circuit
// breaker so health reporting keeps observing the backend while the breaker
// is open.
func (c *Client) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/rest/v1/", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("supabase returned status %d", resp.StatusCode)
	}
	return nil
}
