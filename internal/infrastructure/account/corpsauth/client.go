// Package corpsauth verifies bearer tokens against the CorpsAuth identity
// service. Identity itself lives outside this engine; only introspection is
// consumed here.
package corpsauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fieldpass/fantasy-corps/internal/domain/identity"
	"github.com/fieldpass/fantasy-corps/internal/platform/cache"
	"github.com/fieldpass/fantasy-corps/internal/platform/resilience"
	"github.com/fieldpass/fantasy-corps/internal/usecase"
)

const (
	defaultIntrospectPath = "/v1/auth/introspect"
	adminKeyHeader        = "x-admin-key"
	resultCacheTTL        = 30 * time.Second
)

var errIntrospectTransient = crerr.New("corpsauth transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	AdminKey       string
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *slog.Logger
}

// Client calls the CorpsAuth introspection endpoint. Verified principals are
// cached briefly by token hash so hot tokens do not hammer the identity
// service, and a circuit breaker fails requests fast during outages.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	adminKey       string
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	results        *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	path := cfg.IntrospectPath
	if strings.TrimSpace(path) == "" {
		path = defaultIntrospectPath
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, path),
		adminKey:       strings.TrimSpace(cfg.AdminKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		results:        cache.NewStore(resultCacheTTL),
	}
}

// VerifyAccessToken resolves a bearer token to the authenticated principal.
// Invalid and inactive tokens map to usecase.ErrUnauthorized; identity
// service outages map to usecase.ErrDependencyUnavailable.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (identity.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if cached, ok := c.results.Get(ctx, cacheKey); ok {
		return cached.(identity.Principal), nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "corpsauth circuit breaker rejected request",
				slog.String("state", string(c.breaker.State())),
			)
			return identity.Principal{}, fmt.Errorf("%w: identity service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errIntrospectTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if crerr.Is(err, errIntrospectTransient) {
			return identity.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return identity.Principal{}, err
	}

	c.results.Set(ctx, cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (identity.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return identity.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return identity.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set(adminKeyHeader, c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Principal{}, crerr.Wrapf(errIntrospectTransient, "request introspection: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return identity.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return identity.Principal{}, crerr.Wrapf(errIntrospectTransient, "read introspect response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "corpsauth introspection non-200",
			slog.Int("status_code", resp.StatusCode),
		)
		if resp.StatusCode >= 500 {
			return identity.Principal{}, crerr.Wrapf(errIntrospectTransient, "introspection status %d", resp.StatusCode)
		}
		return identity.Principal{}, fmt.Errorf("corpsauth introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return identity.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return identity.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return identity.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	return identity.Principal{
		UserID:   decoded.UserID,
		Username: decoded.Username,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active   bool   `json:"active"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
