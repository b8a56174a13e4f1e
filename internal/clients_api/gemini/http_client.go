package gemini

// Package gemini is the client for the Gemini image generation API.
// Transport only: rate limiting, circuit breaking, request logging and
// (opt-in) retries; prompt composition lives in features/illustration.

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docviz/internal/infra/config"
	"docviz/internal/infra/errs"
	logging "docviz/internal/infra/log"
	"docviz/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-pro-image-preview"

	defaultMaxResponseSize = 64 * 1024 * 1024
)

// Client talks to the generateContent endpoint of one model.
type Client struct {
	baseURL         string
	model           string
	apiKey          string
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	retryOpts       retry.Options
	maxResponseSize int64
}

// NewClient builds a client from the gemini config section.
// RequestTimeout 0 leaves requests bounded only by ctx.
func NewClient(cfg config.GeminiConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errs.New(errs.CodeInvalidInput, "GEMINI_API_KEY is not set (config gemini.api_key)")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxSize := cfg.MaxResponseSize
	if maxSize <= 0 {
		maxSize = defaultMaxResponseSize
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			// client-side mistakes don't count against the service
			var he *retry.HTTPError
			if errors.As(err, &he) {
				return he.StatusCode < 500 && he.StatusCode != http.StatusTooManyRequests
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		baseURL:         baseURL,
		model:           model,
		apiKey:          cfg.APIKey,
		rateLimiter:     limiter,
		circuitBreaker:  circuitBreaker,
		maxResponseSize: maxSize,
		retryOpts: retry.Options{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Second,
			MaxDelay:   30 * time.Second,
		},
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    2,
				IdleConnTimeout: 90 * time.Second,
			},
		},
	}, nil
}

// Model returns the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// GenerateImage asks the model for one image and returns the first inline
// image part. A non-2xx answer is GENERATION_FAILED; a reply without image
// data is NO_IMAGE.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}
	if req.AspectRatio != "" || req.ImageSize != "" {
		body.GenerationConfig.ImageConfig = &imageConfig{AspectRatio: req.AspectRatio, ImageSize: req.ImageSize}
	}

	endpoint := fmt.Sprintf("/models/%s:generateContent", c.model)
	respBody, err := c.MakeRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, errs.Wrap(errs.CodeGenerationFailed, describeError(err), "image generation failed")
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, errs.Wrap(errs.CodeGenerationFailed, err, "failed to unmarshal generateContent response")
	}
	return firstImage(&resp)
}

func firstImage(resp *generateResponse) (*Image, error) {
	var texts []string
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, errs.Wrap(errs.CodeGenerationFailed, err, "invalid base64 image data")
			}
			return &Image{Data: data, MimeType: p.InlineData.MimeType, Text: strings.Join(texts, "\n")}, nil
		}
	}

	reason := "response contained no image"
	switch {
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		reason = "prompt blocked: " + resp.PromptFeedback.BlockReason
	case len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" && resp.Candidates[0].FinishReason != "STOP":
		reason = "generation stopped: " + resp.Candidates[0].FinishReason
	case len(texts) > 0:
		reason = "model answered with text only: " + truncate(strings.Join(texts, " "), 200)
	}
	return nil, errs.New(errs.CodeNoImage, "%s", reason)
}

// MakeRequest sends one JSON request through the rate limiter, circuit
// breaker and retry policy and returns the raw response body.
func (c *Client) MakeRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	requestID := logging.GenerateRequestID()
	startTime := time.Now()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var respBody []byte
	err := retry.Do(ctx, c.retryOpts, func() error {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}
		_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			b, err := c.makeRequestWithContext(ctx, requestID, method, endpoint, payload)
			if err != nil {
				return nil, err
			}
			respBody = b
			return b, nil
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.LogError("Circuit breaker rejected request", zap.String("request_id", requestID), zap.String("endpoint", endpoint), zap.Error(err))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.LogDebug("Image API request completed",
		zap.String("request_id", requestID),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()),
		zap.Int("bytes", len(respBody)))
	return respBody, nil
}

func (c *Client) makeRequestWithContext(ctx context.Context, requestID, method, endpoint string, payload []byte) ([]byte, error) {
	startTime := time.Now()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	logging.LogRequest(requestID, method, endpoint, zap.String("model", c.model))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.LogResponse(requestID, 0, time.Since(startTime).Milliseconds(), zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	duration := time.Since(startTime).Milliseconds()
	if err != nil {
		logging.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("error", "API error response received"))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	logging.LogResponse(requestID, resp.StatusCode, duration, zap.String("endpoint", endpoint), zap.String("status", "success"))
	return respBody, nil
}

// describeError turns an HTTPError carrying the API's JSON error envelope
// into a readable message.
func describeError(err error) error {
	var he *retry.HTTPError
	if !errors.As(err, &he) {
		return err
	}
	var env apiError
	if json.Unmarshal(he.Body, &env) == nil && env.Error.Message != "" {
		if env.Error.Status != "" {
			return fmt.Errorf("API error (%d %s): %s", he.StatusCode, env.Error.Status, env.Error.Message)
		}
		return fmt.Errorf("API error (%d): %s", he.StatusCode, env.Error.Message)
	}
	return fmt.Errorf("API error (%d): %s", he.StatusCode, truncate(strings.TrimSpace(string(he.Body)), 300))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
