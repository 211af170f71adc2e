package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const (
	providerGemini = "gemini"

	defaultGeminiModel   = "gemini-2.0-flash"
	defaultGeminiTimeout = 60 * time.Second
)

// contentGenerator is satisfied by genai.Models
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds configuration for the Gemini adapter
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiLLM implements the LargeLanguageModel interface using Google's Gemini API
type GeminiLLM struct {
	models  contentGenerator
	logger  *zap.Logger
	model   string
	timeout time.Duration
}

// Ensure GeminiLLM implements the LargeLanguageModel interface
var _ repositories.LargeLanguageModel = (*GeminiLLM)(nil)

// ValidateGeminiConfig validates the GeminiConfig
func ValidateGeminiConfig(config GeminiConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("Google AI API key is required: %w", domain.ErrMissingConfig)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewGeminiLLM creates a new Gemini LLM instance
func NewGeminiLLM(ctx context.Context, config GeminiConfig, logger *zap.Logger) (*GeminiLLM, error) {
	if err := ValidateGeminiConfig(config); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newGeminiWithModels(client.Models, config, logger), nil
}

func newGeminiWithModels(models contentGenerator, config GeminiConfig, logger *zap.Logger) *GeminiLLM {
	model := config.Model
	if model == "" {
		model = defaultGeminiModel
		logger.Info("Using default model", zap.String("model", model))
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultGeminiTimeout
	}

	return &GeminiLLM{
		models:  models,
		logger:  logger,
		model:   model,
		timeout: timeout,
	}
}

// Name implements repositories.LargeLanguageModel
func (g *GeminiLLM) Name() string {
	return providerGemini
}

// Generate sends a single prompt and returns the concatenated text parts of the first candidate
func (g *GeminiLLM) Generate(ctx context.Context, prompt string, options repositories.GenerateOptions) (string, error) {
	model := g.model
	if options.Model != "" {
		model = options.Model
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(options.Temperature),
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		g.logger.Error("Failed to generate content", zap.Error(err))
		return "", domain.NewStageError(domain.StageSummarization, domain.KindTransport, providerGemini, "", err)
	}

	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		g.logger.Warn("No content generated")
		return "", domain.NewStageError(domain.StageSummarization, domain.KindServiceReported, providerGemini, "no candidates in response", nil)
	}

	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		g.logger.Warn("Empty response from Gemini")
		return "", domain.NewStageError(domain.StageSummarization, domain.KindServiceReported, providerGemini, "empty response from model", nil)
	}

	g.logger.Info("Gemini generation completed",
		zap.String("model", model),
		zap.Int("responseLength", len(text)))

	return text, nil
}
