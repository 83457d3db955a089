// Package catalogfeed fetches the published staff card catalog from the
// upstream staff directory service.
package catalogfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/fieldpass/fantasy-corps/internal/domain/caption"
	"github.com/fieldpass/fantasy-corps/internal/domain/staff"
	"github.com/fieldpass/fantasy-corps/internal/platform/logging"
	"github.com/fieldpass/fantasy-corps/internal/platform/resilience"
)

const (
	defaultTimeout      = 10 * time.Second
	maxResponseBytes    = 4 << 20
	catalogPath         = "/v1/staff-cards"
	catalogRequestKey   = "catalogfeed:staff-cards"
	retryBackoffBase    = time.Second
	defaultMaxRetries   = 2
	headerAuthorization = "Authorization"
)

var errFeedTransient = crerr.New("staff directory transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements staff.CatalogSource against the staff directory HTTP API.
// Concurrent catalog fetches collapse into one request, and repeated upstream
// failures trip a circuit breaker so callers fail fast while the directory is
// down.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

var _ staff.CatalogSource = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type catalogEnvelope struct {
	Data []cardPayload `json:"data"`
}

type cardPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Caption      string `json:"caption"`
	YearInducted int    `json:"yearInducted"`
	BaseValue    int64  `json:"baseValue"`
	Biography    string `json:"biography"`
}

// FetchCatalog retrieves the full staff card catalog. Entries with unknown
// caption slots are dropped with a warning rather than failing the fetch.
func (c *Client) FetchCatalog(ctx context.Context) ([]staff.Card, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "staff directory circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("staff directory is temporarily unavailable: %w", err)
		}
	}

	out, err, _ := c.flight.Do(catalogRequestKey, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, c.baseURL+catalogPath)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	return c.parseCatalog(ctx, raw)
}

func (c *Client) parseCatalog(ctx context.Context, raw []byte) ([]staff.Card, error) {
	var envelope catalogEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode staff catalog: %w", err)
	}

	cards := make([]staff.Card, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		slot, ok := caption.Parse(strings.TrimSpace(item.Caption))
		if !ok {
			c.logger.WarnContext(ctx, "skipping staff card with unknown caption",
				"staff_id", item.ID, "caption", item.Caption)
			continue
		}
		if strings.TrimSpace(item.ID) == "" || item.BaseValue < 1 {
			c.logger.WarnContext(ctx, "skipping malformed staff card", "staff_id", item.ID)
			continue
		}
		cards = append(cards, staff.Card{
			ID:           item.ID,
			Name:         item.Name,
			Caption:      slot,
			YearInducted: item.YearInducted,
			BaseValue:    item.BaseValue,
			Biography:    item.Biography,
		})
	}
	return cards, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !crerr.Is(err, errFeedTransient) {
			return nil, err
		}
		if attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * retryBackoffBase
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "staff directory request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set(headerAuthorization, "Bearer "+c.token)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, crerr.Wrapf(errFeedTransient, "send request: %v", err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case isRetryableStatus(status):
		return nil, crerr.Wrapf(errFeedTransient, "directory status=%d", status)
	default:
		return nil, fmt.Errorf("directory status=%d body=%s", status, abbreviateBody(body))
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case fasthttp.StatusTooManyRequests,
		fasthttp.StatusInternalServerError,
		fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable,
		fasthttp.StatusGatewayTimeout:
		return true
	}
	return false
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
