package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/samiatarot/platform-api/internal/domain"
)

// ============================================================
// HTTP helpers for POST, PATCH, DELETE
// ============================================================
//
// Writes run through the circuit breaker but are never retried: inserts
// and updates are not idempotent, and duplicated writes are worse than a
// surfaced error.

func (c *Client) doPost(ctx context.Context, table string, data map[string]any) ([]byte, error) {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var out []byte
	conflict := false

	_, err = c.cb.Execute(func() (any, error) {
		url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req, "return=representation")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("supabase: POST request failed",
				zap.String("table", table),
				zap.Error(err),
			)
			return nil, err
		}
		defer resp.Body.Close()

		body, err := readBody(resp)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusConflict {
			// unique constraint violation; reported as a typed error below
			// so the breaker does not count it as a backend failure
			conflict = true
			return nil, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Warn("supabase: POST non-2xx",
				zap.String("table", table),
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(body)),
			)
			return nil, fmt.Errorf("supabase POST %s returned %d: %s", table, resp.StatusCode, string(body))
		}

		c.logger.Debug("supabase: POST OK", zap.String("table", table), zap.Int("status", resp.StatusCode))
		out = body
		return nil, nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	if conflict {
		return nil, &domain.ErrConflict{Message: fmt.Sprintf("%s: record already exists", table)}
	}

	return out, nil
}

func (c *Client) doPatch(ctx context.Context, path string, data map[string]any) error {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = c.cb.Execute(func() (any, error) {
		url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, err
		}
		c.setHeaders(req, "return=minimal")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("supabase: PATCH request failed",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := readBody(resp)
			c.logger.Warn("supabase: PATCH non-2xx",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(body)),
			)
			return nil, fmt.Errorf("supabase PATCH returned %d: %s", resp.StatusCode, string(body))
		}

		c.logger.Debug("supabase: PATCH OK", zap.String("path", path))
		return nil, nil
	})
	if err != nil {
		return mapError(err)
	}

	return nil
}

func (c *Client) doDelete(ctx context.Context, path string) error {
	_, err := c.cb.Execute(func() (any, error) {
		url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req, "")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("supabase: DELETE request failed",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := readBody(resp)
			c.logger.Warn("supabase: DELETE non-2xx",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(body)),
			)
			return nil, fmt.Errorf("supabase DELETE returned %d: %s", resp.StatusCode, string(body))
		}

		c.logger.Debug("supabase: DELETE OK", zap.String("path", path))
		return nil, nil
	})
	if err != nil {
		return mapError(err)
	}

	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
