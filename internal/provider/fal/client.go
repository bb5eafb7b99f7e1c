// Package fal implements the animation provider interface against the fal.ai
// queue API.
package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmespath-community/go-jmespath"

	"github.com/wispr-app/wispr-api/internal/core"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
)

// maxVideoBytes caps video downloads. Provider clips at 5 seconds stay far
// below this.
const maxVideoBytes = 512 << 20

// videoURLExpressions are tried in order against the completed job payload.
// The payload shape varies by model family.
var videoURLExpressions = []string{
	"video.url",
	"data.video.url",
	"output.video.url",
	"video_url",
}

// Config captures runtime configuration for the fal client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	Client  *http.Client
	Logger  *slog.Logger
}

// Client talks to the fal.ai queue endpoints for one model.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient constructs a fal client from config. Callers must provide an API
// key and a model identifier.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("fal api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("fal model is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://queue.fal.run"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		client:  hc,
		logger:  logger.With("component", "fal_client"),
	}, nil
}

// Model returns the model identifier jobs are submitted to.
func (c *Client) Model() string { return c.model }

type submitRequest struct {
	Prompt      string `json:"prompt"`
	ImageURL    string `json:"image_url"`
	Duration    string `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
}

type submitResponse struct {
	RequestID string `json:"request_id"`
}

// Submit enqueues an image-to-video job and returns the provider's request id.
func (c *Client) Submit(ctx context.Context, params core.SubmitJobParams) (string, error) {
	if params.ImageURL == "" {
		return "", apperrors.Validation("image_url")
	}

	body, err := json.Marshal(submitRequest{
		Prompt:      params.Prompt,
		ImageURL:    params.ImageURL,
		Duration:    fmt.Sprintf("%d", params.DurationSeconds),
		AspectRatio: params.AspectRatio,
	})
	if err != nil {
		return "", fmt.Errorf("encode submit payload: %w", err)
	}

	var resp submitResponse
	if err = c.doJSON(ctx, http.MethodPost, c.baseURL+"/"+c.model, body, &resp); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeSubmission, "submit animation job")
	}
	if resp.RequestID == "" {
		return "", apperrors.New(apperrors.ErrCodeSubmission, "provider returned no request id")
	}

	c.logger.InfoContext(ctx, "job submitted", "request_id", resp.RequestID, "model", c.model)
	return resp.RequestID, nil
}

type statusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Status reports the job's current state. For completed jobs the returned
// payload is the provider's result document.
func (c *Client) Status(ctx context.Context, jobID string) (core.JobStatus, error) {
	if jobID == "" {
		return core.JobStatus{}, apperrors.Validation("job_id")
	}

	requestURL := fmt.Sprintf("%s/%s/requests/%s/status", c.baseURL, c.model, jobID)

	var resp statusResponse
	if err := c.doJSON(ctx, http.MethodGet, requestURL, nil, &resp); err != nil {
		return core.JobStatus{}, apperrors.Wrap(err, apperrors.ErrCodeProviderFailed, "poll job status")
	}

	switch strings.ToUpper(resp.Status) {
	case "COMPLETED":
		payload, err := c.result(ctx, jobID)
		if err != nil {
			return core.JobStatus{}, err
		}
		return core.JobStatus{State: core.JobStateCompleted, RawStatus: resp.Status, Payload: payload}, nil
	case "FAILED", "ERROR":
		detail := resp.Error
		if detail == "" {
			detail = resp.Detail
		}
		if detail == "" {
			detail = "provider reported failure"
		}
		return core.JobStatus{State: core.JobStateFailed, RawStatus: resp.Status, Detail: detail}, nil
	default:
		// IN_QUEUE, IN_PROGRESS and anything unrecognized keep the poll going.
		return core.JobStatus{State: core.JobStateRunning, RawStatus: resp.Status}, nil
	}
}

func (c *Client) result(ctx context.Context, jobID string) (json.RawMessage, error) {
	requestURL := fmt.Sprintf("%s/%s/requests/%s", c.baseURL, c.model, jobID)

	raw, err := c.do(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProviderFailed, "fetch job result")
	}
	return json.RawMessage(raw), nil
}

// VideoURL extracts the generated video's URL from a completed job payload.
func (c *Client) VideoURL(payload json.RawMessage) (string, error) {
	if len(payload) == 0 {
		return "", apperrors.MissingOutput("completed job carried no payload")
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeMissingOutput, "decode job payload")
	}

	for _, expr := range videoURLExpressions {
		result, err := jmespath.Search(expr, doc)
		if err != nil {
			continue
		}
		if url, ok := result.(string); ok && url != "" {
			return url, nil
		}
	}
	return "", apperrors.MissingOutput("no video url in job payload")
}

// Fetch downloads the video bytes from the provider's CDN.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, apperrors.Validation("url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download video: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVideoBytes))
	if err != nil {
		return nil, fmt.Errorf("read video body: %w", err)
	}
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeMissingOutput, "provider returned empty video")
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out any) error {
	raw, err := c.do(ctx, method, url, body)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create provider request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider api %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
