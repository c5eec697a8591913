// Package analysis issues structured-output requests to an external
// text-analysis service, one call per analysis axis, with bounded retries,
// best-effort JSON repair and caller-owned cost tracking.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zombar/blogaudit/models"
)

const (
	// DefaultBaseURL is the default analysis service endpoint.
	DefaultBaseURL = "https://api.anthropic.com"
	// DefaultModel is the default text-generation model.
	DefaultModel = "claude-3-5-sonnet-20241022"

	apiVersion = "2023-06-01"

	// Generation is held low-temperature and length-bounded to bias the
	// service toward deterministic, parseable JSON output.
	temperature = 0.3
	maxTokens   = 1500
)

// Config contains analysis client configuration.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	HTTPTimeout time.Duration
	MaxRetries  int           // retries after the first attempt (default 2)
	RetryDelay  time.Duration // fixed delay between attempts (default 2s)
	OnRetry     func()        // invoked before each retry attempt, may be nil
	Categories  []string      // allow-list for the categorize axis
	UseCases    map[string]string
}

// DefaultConfig returns default client configuration. The API key must be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		HTTPTimeout: 60 * time.Second,
		MaxRetries:  2,
		RetryDelay:  2 * time.Second,
	}
}

// Client calls the analysis service. All axis methods share one injected
// CostTracker and return a terminal models.AnalysisResult; axis failures are
// values, not errors, so one failed axis never aborts an article.
type Client struct {
	config     Config
	httpClient *http.Client
	tracker    *CostTracker
	logger     *slog.Logger
}

// NewClient builds a client around the given configuration and caller-owned
// cost tracker.
func NewClient(cfg Config, tracker *CostTracker, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("analysis API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracker: tracker,
		logger:  logger,
	}, nil
}

// messagesRequest is the wire shape of a messages API request.
type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the wire shape of a messages API reply.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// call performs one HTTP round trip and returns the reply text and usage.
func (c *Client) call(ctx context.Context, system, prompt string) (string, models.Usage, error) {
	body, err := json.Marshal(messagesRequest{
		Model:       c.config.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      system + " Return ONLY valid JSON.",
		Messages:    []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", models.Usage{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", models.Usage{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.Usage{}, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", models.Usage{}, fmt.Errorf("analysis service error: %d %s: %s",
			resp.StatusCode, resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", models.Usage{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", models.Usage{}, fmt.Errorf("empty response content")
	}

	usage := models.Usage{
		InputTokens:  parsed.Usage.InputTokens,
		OutputTokens: parsed.Usage.OutputTokens,
	}
	return strings.TrimSpace(parsed.Content[0].Text), usage, nil
}

// analyze runs one axis end to end: call, parse (with repair fallback),
// validate, track cost. Transport errors and unparseable replies are retried
// up to MaxRetries with a fixed delay; semantic validation failures are
// terminal immediately (retrying a well-formed but invalid answer would just
// spend tokens on the same answer). analyze never returns a Go error: the
// outcome is always a terminal AnalysisResult.
func (c *Client) analyze(ctx context.Context, axis Axis, prompt string) models.AnalysisResult {
	var lastErr string
	var lastRaw string

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying analysis call", "axis", axis.Name, "attempt", attempt+1, "last_error", lastErr)
			if c.config.OnRetry != nil {
				c.config.OnRetry()
			}
			select {
			case <-time.After(c.config.RetryDelay):
			case <-ctx.Done():
				return failure(lastRaw, fmt.Sprintf("analysis canceled: %v", ctx.Err()))
			}
		}

		raw, usage, err := c.call(ctx, axis.System, prompt)
		if err != nil {
			lastErr = err.Error()
			continue
		}
		lastRaw = raw

		text := stripFences(raw)
		parsed, perr := parseReply(text)
		if perr != nil {
			c.logger.Warn("repairing unparseable analysis reply", "axis", axis.Name, "attempt", attempt+1, "error", perr)
			if repaired := fixJSONQuotes(text); repaired != text {
				if p, rerr := parseReply(repaired); rerr == nil {
					parsed, perr, text = p, nil, repaired
				}
			}
		}
		if perr != nil {
			lastErr = fmt.Sprintf("invalid JSON response format: %v", perr)
			continue
		}

		c.tracker.AddUsage(usage.InputTokens, usage.OutputTokens)

		if axis.Validate != nil {
			if verr := axis.Validate(parsed); verr != nil {
				return failure(raw, verr.Error())
			}
		}

		return models.AnalysisResult{Success: true, Result: text}
	}

	c.logger.Error("analysis failed after retries", "axis", axis.Name, "attempts", c.config.MaxRetries+1, "error", lastErr)
	return failure(lastRaw, fmt.Sprintf("analysis failed after %d attempts: %s", c.config.MaxRetries+1, lastErr))
}

func parseReply(text string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func failure(raw, msg string) models.AnalysisResult {
	return models.AnalysisResult{Success: false, Result: raw, Err: msg}
}
