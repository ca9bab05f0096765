package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/feedback360-backend/internal/pkg/httpx"
	"github.com/yungbote/feedback360-backend/internal/platform/ctxutil"
	"github.com/yungbote/feedback360-backend/internal/platform/envutil"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
)

// Client delivers JSON payloads to a single configured endpoint.
type Client interface {
	Post(ctx context.Context, payload any) (*Result, error)
}

type Config struct {
	URL        string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		URL:        strings.TrimSpace(os.Getenv("REPORT_WEBHOOK_URL")),
		Token:      strings.TrimSpace(os.Getenv("REPORT_WEBHOOK_TOKEN")),
		Timeout:    time.Duration(envutil.Int("REPORT_WEBHOOK_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries: envutil.Int("REPORT_WEBHOOK_MAX_RETRIES", 2),
		RetryBase:  time.Second,
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return nil, fmt.Errorf("missing REPORT_WEBHOOK_URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Second
	}
	return &client{
		log:        log.With("client", "WebhookClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type Result struct {
	StatusCode int
	Attempts   int
	Body       string
}

func (c *client) Post(ctx context.Context, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("webhook: encode payload: %w", err)
	}

	attempts := 0
	var raw []byte
	resp, err := httpx.Retry(ctx, c.cfg.MaxRetries, c.cfg.RetryBase,
		func(ctx context.Context) (*http.Response, error) {
			attempts++
			resp, b, err := c.doOnce(ctx, body)
			raw = b
			return resp, err
		},
		func(attempt int, sleep time.Duration, err error) {
			c.log.Warn("Webhook request retrying",
				"attempt", attempt,
				"max_retries", c.cfg.MaxRetries,
				"sleep", sleep.String(),
				"error", err.Error(),
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return &Result{StatusCode: resp.StatusCode, Attempts: attempts, Body: string(raw)}, nil
}

func (c *client) doOnce(ctx context.Context, body []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-ID", td.RequestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &httpx.StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
