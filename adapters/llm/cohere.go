package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const (
	providerCohere = "cohere"

	defaultCohereBaseURL = "https://api.cohere.com/v1"
	defaultCohereModel   = "command-a-03-2025"
	defaultCohereTimeout = 60 * time.Second
)

// CohereConfig holds configuration for the Cohere adapter
// Required fields:
// - APIKey: Cohere API key
// Optional fields with defaults:
// - BaseURL: API base URL (default: "https://api.cohere.com/v1")
// - Model: chat model (default: "command-a-03-2025")
// - Timeout: request timeout (default: 60s)
type CohereConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Cohere implements LargeLanguageModel using the Cohere chat API
type Cohere struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// Ensure Cohere implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*Cohere)(nil)

// CohereChatRequest is the request payload for the chat endpoint
type CohereChatRequest struct {
	Model       string  `json:"model"`
	Message     string  `json:"message"`
	Temperature float32 `json:"temperature"`
}

// CohereChatResponse is the part of the chat reply we read
type CohereChatResponse struct {
	Text         string `json:"text"`
	FinishReason string `json:"finish_reason,omitempty"`
	Message      string `json:"message,omitempty"`
}

// ValidateCohereConfig validates the CohereConfig
func ValidateCohereConfig(config CohereConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("cohere API key is required: %w", domain.ErrMissingConfig)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewCohere creates a new Cohere client
func NewCohere(config CohereConfig, logger *zap.Logger) (*Cohere, error) {
	if err := ValidateCohereConfig(config); err != nil {
		return nil, err
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultCohereBaseURL
		logger.Info("Using default Cohere base URL", zap.String("baseURL", baseURL))
	}

	model := config.Model
	if model == "" {
		model = defaultCohereModel
		logger.Info("Using default Cohere model", zap.String("model", model))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultCohereTimeout
	}

	return &Cohere{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Name implements repositories.LargeLanguageModel
func (c *Cohere) Name() string {
	return providerCohere
}

// Generate sends a single-turn chat message and returns the trimmed reply
func (c *Cohere) Generate(ctx context.Context, prompt string, options repositories.GenerateOptions) (string, error) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	requestBody, err := json.Marshal(CohereChatRequest{
		Model:       model,
		Message:     prompt,
		Temperature: options.Temperature,
	})
	if err != nil {
		return "", c.failure(domain.KindTransport, "", fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(requestBody))
	if err != nil {
		return "", c.failure(domain.KindTransport, "", fmt.Errorf("failed to create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("Sending chat request to Cohere",
		zap.String("model", model),
		zap.Int("promptLength", len(prompt)))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", c.failure(domain.KindTransport, "", fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.failure(domain.KindTransport, "", fmt.Errorf("failed to read response body: %w", err))
	}

	var chatResp CohereChatResponse
	decodeErr := json.Unmarshal(raw, &chatResp)

	if resp.StatusCode != http.StatusOK {
		message := chatResp.Message
		if decodeErr != nil || message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return "", c.failure(domain.KindServiceReported,
			fmt.Sprintf("status_code: %d, body: %s", resp.StatusCode, message), nil)
	}

	if decodeErr != nil {
		return "", c.failure(domain.KindTransport, "", fmt.Errorf("failed to decode response: %w", decodeErr))
	}

	text := strings.TrimSpace(chatResp.Text)
	if text == "" {
		return "", c.failure(domain.KindServiceReported, "empty response from model", nil)
	}

	c.logger.Info("Cohere chat completed",
		zap.String("model", model),
		zap.String("finishReason", chatResp.FinishReason),
		zap.Int("responseLength", len(text)))

	return text, nil
}

func (c *Cohere) failure(kind domain.ErrorKind, message string, err error) error {
	c.logger.Error("Cohere request failed",
		zap.String("kind", string(kind)),
		zap.String("message", message),
		zap.Error(err))
	return domain.NewStageError(domain.StageSummarization, kind, providerCohere, message, err)
}
