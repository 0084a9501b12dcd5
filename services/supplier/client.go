package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.worldota.net/api/b2b/v3"

	// maxResponseBytes bounds how much of a reply is buffered; hotel pages can be large.
	maxResponseBytes = 32 << 20
)

// Config describes how to reach the supplier API.
type Config struct {
	BaseURL        string
	KeyID          string
	APIKey         string
	Timeout        time.Duration
	RequestsPerSec float64
}

// Client talks to the ETG B2B v3 API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	keyID      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), int(math.Ceil(cfg.RequestsPerSec)))
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		keyID:      cfg.KeyID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     logger.Named("supplier"),
	}
}

// envelope wraps every v3 reply.
type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// post sends payload to path and returns the unwrapped "data" member of the reply.
func (c *Client) post(ctx context.Context, op, path string, payload any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.apiKey)

	c.logger.Debug("[REQUEST] POST "+path, zap.String("op", op), zap.ByteString("body", body))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("[ERROR] "+path, zap.String("op", op), zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("[RESPONSE] "+path,
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.ByteString("body", raw),
	)

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &UpstreamError{Op: op, StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		}
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Status == "error" || env.Error != "" {
		code := env.Error
		if code == "" {
			code = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("[ERROR] "+path, zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("code", code))
		return nil, &UpstreamError{Op: op, StatusCode: resp.StatusCode, Code: code}
	}

	return env.Data, nil
}
