package feishu

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/courtside-sync/internal/platform/cache"
	"github.com/riskibarqy/courtside-sync/internal/platform/logging"
	"github.com/riskibarqy/courtside-sync/internal/platform/resilience"
	"github.com/riskibarqy/courtside-sync/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultBaseURL   = "https://open.feishu.cn/open-apis"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 4 << 20

	opTenantToken = "tenant_access_token"
	opSearch      = "search"
	opBatchCreate = "batch_create"
)

var errFeishuTransient = crerr.New("feishu transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	AppID          string
	AppSecret      string
	AppToken       string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Now            func() time.Time
}

// Client talks to the Feishu open platform on behalf of one app and one
// bitable app token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	appSecret  string
	appToken   string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	tokens     *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var storeOpts []cache.Option
	if cfg.Now != nil {
		storeOpts = append(storeOpts, cache.WithClock(cfg.Now))
	}

	logger = logger.Named("feishu")
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("feishu circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		appID:      strings.TrimSpace(cfg.AppID),
		appSecret:  strings.TrimSpace(cfg.AppSecret),
		appToken:   strings.TrimSpace(cfg.AppToken),
		logger:     logger,
		breaker:    breaker,
		tokens:     cache.NewStore(0, storeOpts...),
	}
}

// envelope is the part every Feishu response shares.
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// postJSON sends payload and returns the raw response body. Only transport
// failures, 429 and 5xx are errors here; business failures are carried in
// the body's code and left to the caller.
func (c *Client) postJSON(ctx context.Context, op, path string, query url.Values, bearer string, payload any) ([]byte, int, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("feishu.op", op),
			attribute.String("feishu.path", path),
		)
	}

	var (
		raw    []byte
		status int
	)
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, status, reqErr = c.executeRequest(ctx, fullURL, bearer, payload)
		return reqErr
	}, isFeishuCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "feishu circuit breaker rejected request", "op", op, "state", c.breaker.State())
		return nil, 0, fmt.Errorf("%w: feishu is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "feishu request failed", "op", op, "path", path, "error", err)
		if stderrors.Is(err, errFeishuTransient) {
			return nil, status, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err)
		}
		return nil, status, err
	}
	return raw, status, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, bearer string, payload any) ([]byte, int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return nil, 0, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, strings.NewReader(buf.String()))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, fmt.Errorf("%w: send request: %s", errFeishuTransient, sanitizeSensitiveText(err.Error(), c.appSecret))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response body: %v", errFeishuTransient, err)
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, resp.StatusCode, fmt.Errorf("%w: status=%d body=%s", errFeishuTransient, resp.StatusCode, abbreviateBody(raw))
	}
	return raw, resp.StatusCode, nil
}

// decodeEnvelope unmarshals raw into target and checks the shared code.
func decodeEnvelope(op string, raw []byte, status int, target any) error {
	var head envelope
	if err := sonic.Unmarshal(raw, &head); err != nil {
		if status/100 != 2 {
			return newAPIError(op, status, abbreviateBody(raw))
		}
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if head.Code != 0 {
		return newAPIError(op, head.Code, head.Msg)
	}
	if status/100 != 2 {
		return newAPIError(op, status, abbreviateBody(raw))
	}
	if target == nil {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func isFeishuCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFeishuTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if secret != "" {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 512 {
		return text
	}
	return text[:512] + "...(truncated)"
}
