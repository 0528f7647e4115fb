package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amara-nwosu/lexvault/internal/common"
)

// maxClassifierChars truncates content before shipping it to the sidecar;
// the model's window is far smaller than a long contract.
const maxClassifierChars = 2000

// ClientConfig configures the sidecar HTTP clients. An empty URL means the
// backend was not deployed; Available() then reports false and callers
// degrade instead of dialing.
type ClientConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func (c ClientConfig) headers() map[string]string {
	if c.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.APIKey}
}

func (c ClientConfig) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ClassifierClient talks to the text-classification sidecar.
type ClassifierClient struct {
	cfg    ClientConfig
	client *http.Client
	logger *slog.Logger
	schema map[string]any
}

func NewClassifierClient(cfg ClientConfig, logger *slog.Logger) *ClassifierClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifierClient{
		cfg:    cfg,
		client: cfg.httpClient(),
		logger: logger,
		schema: BuildClassifierResponseSchema(),
	}
}

func (c *ClassifierClient) Available() bool { return c.cfg.URL != "" }

func (c *ClassifierClient) Classify(ctx context.Context, content string) ([]Prediction, error) {
	if !c.Available() {
		return nil, common.ErrBackendUnavailable
	}
	if len(content) > maxClassifierChars {
		content = content[:maxClassifierChars] + "..."
	}

	raw, _, err := SendJSON(ctx, c.client, c.cfg.URL, map[string]any{"text": content}, c.cfg.headers(), c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	if err := ValidateJSONAgainstSchema(c.schema, raw); err != nil {
		return nil, fmt.Errorf("classifier response rejected: %w", err)
	}

	var resp struct {
		Predictions []Prediction `json:"predictions"`
		Model       string       `json:"model"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode classifier response: %w", err)
	}
	return resp.Predictions, nil
}

// SummarizerClient talks to the summarization sidecar.
type SummarizerClient struct {
	cfg    ClientConfig
	client *http.Client
	logger *slog.Logger
}

func NewSummarizerClient(cfg ClientConfig, logger *slog.Logger) *SummarizerClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummarizerClient{cfg: cfg, client: cfg.httpClient(), logger: logger}
}

func (c *SummarizerClient) Available() bool { return c.cfg.URL != "" }

func (c *SummarizerClient) Summarize(ctx context.Context, content string) (string, error) {
	if !c.Available() {
		return "", common.ErrBackendUnavailable
	}
	raw, _, err := SendJSON(ctx, c.client, c.cfg.URL, map[string]any{"text": content}, c.cfg.headers(), c.logger)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode summarizer response: %w", err)
	}
	if resp.Summary == "" {
		return "", fmt.Errorf("summarizer returned empty summary")
	}
	return resp.Summary, nil
}

// EmbedderClient talks to the embedding sidecar.
type EmbedderClient struct {
	cfg    ClientConfig
	client *http.Client
	logger *slog.Logger
}

func NewEmbedderClient(cfg ClientConfig, logger *slog.Logger) *EmbedderClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbedderClient{cfg: cfg, client: cfg.httpClient(), logger: logger}
}

func (c *EmbedderClient) Available() bool { return c.cfg.URL != "" }

func (c *EmbedderClient) Embed(ctx context.Context, content string) ([]float32, error) {
	if !c.Available() {
		return nil, common.ErrBackendUnavailable
	}
	raw, _, err := SendJSON(ctx, c.client, c.cfg.URL, map[string]any{"text": content}, c.cfg.headers(), c.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode embedder response: %w", err)
	}
	return resp.Embedding, nil
}

// LegalScorerClient reuses the classifier sidecar's binary legal/non-legal
// head for admission control.
type LegalScorerClient struct {
	cfg    ClientConfig
	client *http.Client
	logger *slog.Logger
}

func NewLegalScorerClient(cfg ClientConfig, logger *slog.Logger) *LegalScorerClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &LegalScorerClient{cfg: cfg, client: cfg.httpClient(), logger: logger}
}

func (c *LegalScorerClient) Available() bool { return c.cfg.URL != "" }

func (c *LegalScorerClient) Score(ctx context.Context, text string) (float64, error) {
	if !c.Available() {
		return 0, common.ErrBackendUnavailable
	}
	if len(text) > maxClassifierChars {
		text = text[:maxClassifierChars] + "..."
	}
	raw, _, err := SendJSON(ctx, c.client, c.cfg.URL, map[string]any{"text": text, "task": "legal_binary"}, c.cfg.headers(), c.logger)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	var resp struct {
		Probability Confidence `json:"probability"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("decode legal score: %w", err)
	}
	return resp.Probability.Scalar(), nil
}
