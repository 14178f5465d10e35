package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/codyseavey/card-proxy/internal/logging"
	"github.com/codyseavey/card-proxy/internal/metrics"
)

const (
	providerDefaultTimeout = 10 * time.Second
	// maxErrorBody bounds how much of a failed response is kept for logging.
	maxErrorBody = 4 << 10
	noBody       = "<no body>"
)

// ProviderError is returned for every failed upstream fetch. Status is the
// HTTP status for non-success responses and 0 for transport failures
// (DNS, connection, timeout), in which case Err holds the cause.
type ProviderError struct {
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("provider request failed: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider error %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("provider error %d %s", e.Status, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsHTTP reports whether the provider answered with a non-success status.
func (e *ProviderError) IsHTTP() bool {
	return e.Status != 0
}

// IsTransport reports whether the request never produced a response.
func (e *ProviderError) IsTransport() bool {
	return e.Status == 0
}

// Fetcher retrieves and decodes a JSON document from the provider.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (any, error)
}

// ProviderConfig configures a ProviderClient.
type ProviderConfig struct {
	APIKey   string
	SendAuth bool
	Timeout  time.Duration
	// RPS limits outbound requests per second; 0 disables the limit.
	RPS   float64
	Burst int
}

// ProviderClient handles HTTP calls to the configured card-data provider.
type ProviderClient struct {
	client  *http.Client
	timeout time.Duration
	apiKey  string
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewProviderClient creates a provider client. The API key is only kept when
// SendAuth is on.
func NewProviderClient(cfg ProviderConfig) *ProviderClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = providerDefaultTimeout
	}

	p := &ProviderClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		logger:  logging.NewLogger("provider"),
	}
	if cfg.SendAuth {
		p.apiKey = cfg.APIKey
	}
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return p
}

// Fetch GETs rawURL and decodes the JSON body. Numbers are decoded as
// json.Number so prices and ids pass through without float rounding. The
// client timeout bounds the whole fetch, including any wait for the limiter.
func (p *ProviderClient) Fetch(ctx context.Context, rawURL string) (any, error) {
	start := time.Now()
	defer func() {
		metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			metrics.ProviderRequestsTotal.WithLabelValues("transport_error").Inc()
			return nil, &ProviderError{URL: rawURL, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, &ProviderError{URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, &ProviderError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderRequestsTotal.WithLabelValues("http_error").Inc()
		return nil, &ProviderError{URL: rawURL, Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	var body any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("decode_error").Inc()
		return nil, &ProviderError{URL: rawURL, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	metrics.ProviderRequestsTotal.WithLabelValues("ok").Inc()
	p.logger.Debug().Str("url", rawURL).Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("provider fetch")
	return body, nil
}

// readErrorBody never fails: an unreadable body becomes a placeholder.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return noBody
	}
	return string(data)
}
