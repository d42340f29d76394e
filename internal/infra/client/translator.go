package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samiatarot/platform-api/internal/domain"
	"github.com/samiatarot/platform-api/internal/infra/resilience"
)

var tracer = otel.Tracer("client")

// TranslatorClient calls the machine-translation service that backs the
// bilingual content pipeline. A bulkhead caps concurrent in-flight
// translations so a slow translator cannot absorb every request goroutine.
type TranslatorClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	bulkhead   *resilience.Bulkhead
}

// NewTranslatorClient creates a new TranslatorClient.
func NewTranslatorClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *TranslatorClient {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 10
	}
	return &TranslatorClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
		bulkhead:   resilience.NewBulkhead(maxConcurrency),
	}
}

// Translate sends text to the translation service and returns the translated
// text in the target language.
func (c *TranslatorClient) Translate(ctx context.Context, text string, source, target domain.Language) (string, error) {
	ctx, span := tracer.Start(ctx, "TranslatorClient.Translate")
	defer span.End()
	span.SetAttributes(
		attribute.String("translate.source", string(source)),
		attribute.String("translate.target", string(target)),
	)

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return "", &domain.ErrTimeout{Operation: "translate"}
	}
	defer c.bulkhead.Release()

	var translateResp domain.TranslateResponse

	result, err := c.cb.Execute(func() (any, error) {
		var innerErr error
		innerErr = resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(domain.TranslateRequest{
				Text:   text,
				Source: string(source),
				Target: string(target),
			})
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/v1/translate", c.baseURL)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("translator API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&translateResp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &translateResp, nil
	})

	if err != nil {
		return "", &domain.ErrExternalService{Service: "translator", Err: err}
	}

	return result.(*domain.TranslateResponse).TranslatedText, nil
}
