package tts

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
	providerElevenLabs = "elevenlabs"

	defaultAPIBaseURL   = "https://api.elevenlabs.io/v1"
	defaultVoiceID      = "21m00Tcm4TlvDq8ikWAM" // Rachel voice
	defaultOutputFormat = "mp3_44100_128"
	defaultModelID      = "eleven_flash_v2_5" // accepts language_code, speaks Tamil
	defaultStability    = 0.5
	defaultClarity      = 0.75
	defaultTimeout      = 60 * time.Second
)

// ElevenLabsConfig holds configuration for the ElevenLabsTTS adapter
// Required fields:
// - APIKey: Your Eleven Labs API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for the Eleven Labs API (default: "https://api.elevenlabs.io/v1")
// - VoiceID: The voice ID to use (default: "21m00Tcm4TlvDq8ikWAM" - Rachel voice)
// - ModelID: The model ID to use (default: "eleven_flash_v2_5")
// - OutputFormat: The output format, must be an mp3 format (default: "mp3_44100_128")
// - Stability: Voice stability value between 0 and 1 (default: 0.5)
// - Clarity: Voice clarity/similarity boost value between 0 and 1 (default: 0.75)
// - Timeout: request timeout (default: 60s)
type ElevenLabsConfig struct {
	APIKey       string
	APIBaseURL   string
	VoiceID      string
	ModelID      string
	OutputFormat string
	Stability    float64
	Clarity      float64
	Timeout      time.Duration
}

// ElevenLabsTTS implements TextToSpeech interface using Eleven Labs API
type ElevenLabsTTS struct {
	apiKey       string
	apiBaseURL   string
	voiceID      string
	modelID      string
	outputFormat string
	stability    float64
	clarity      float64
	client       *http.Client
	logger       *zap.Logger
}

// Ensure ElevenLabsTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*ElevenLabsTTS)(nil)

// ElevenLabsVoiceSettings represents voice settings for Eleven Labs API
type ElevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

// ElevenLabsRequest represents the request payload for Eleven Labs TTS API
type ElevenLabsRequest struct {
	Text                   string                  `json:"text"`
	ModelID                string                  `json:"model_id"`
	LanguageCode           string                  `json:"language_code,omitempty"`
	VoiceSettings          ElevenLabsVoiceSettings `json:"voice_settings"`
	ApplyTextNormalization string                  `json:"apply_text_normalization,omitempty"`
}

// ValidateElevenLabsConfig validates the ElevenLabsConfig
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required: %w", domain.ErrMissingConfig)
	}

	if config.Stability != 0 && (config.Stability < 0 || config.Stability > 1) {
		return fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}

	if config.Clarity != 0 && (config.Clarity < 0 || config.Clarity > 1) {
		return fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}

	if config.OutputFormat != "" && !strings.HasPrefix(config.OutputFormat, "mp3") {
		return fmt.Errorf("output format must be mp3, got %s", config.OutputFormat)
	}

	return nil
}

// NewElevenLabsTTS creates a new Eleven Labs TTS instance
func NewElevenLabsTTS(config ElevenLabsConfig, logger *zap.Logger) (*ElevenLabsTTS, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
		logger.Info("Using default API base URL", zap.String("apiBaseURL", apiBaseURL))
	}

	voiceID := config.VoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
		logger.Info("Using default voice ID", zap.String("voiceID", voiceID))
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
		logger.Info("Using default model ID", zap.String("modelID", modelID))
	}

	outputFormat := config.OutputFormat
	if outputFormat == "" {
		outputFormat = defaultOutputFormat
	}

	stability := config.Stability
	if stability == 0 {
		stability = defaultStability
	}

	clarity := config.Clarity
	if clarity == 0 {
		clarity = defaultClarity
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &ElevenLabsTTS{
		apiKey:       config.APIKey,
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		voiceID:      voiceID,
		modelID:      modelID,
		outputFormat: outputFormat,
		stability:    stability,
		clarity:      clarity,
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
	}, nil
}

// Name implements repositories.TextToSpeech
func (e *ElevenLabsTTS) Name() string {
	return providerElevenLabs
}

// Synthesize converts text to MP3 speech using the Eleven Labs streaming endpoint
func (e *ElevenLabsTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewStageError(domain.StageSynthesis, domain.KindInvalidInput, providerElevenLabs, "text cannot be empty", domain.ErrEmptyText)
	}

	e.logger.Info("Converting text to speech",
		zap.Int("textLength", len(text)),
		zap.String("lang", lang),
		zap.String("voiceID", e.voiceID),
		zap.String("modelID", e.modelID))

	request := ElevenLabsRequest{
		Text:                   text,
		ModelID:                e.modelID,
		LanguageCode:           lang,
		ApplyTextNormalization: "auto",
		VoiceSettings: ElevenLabsVoiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
			UseSpeakerBoost: true,
		},
	}

	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, e.transportError(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream?output_format=%s&enable_logging=false",
		e.apiBaseURL, e.voiceID, e.outputFormat)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, e.transportError(fmt.Errorf("failed to create HTTP request: %w", err))
	}

	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.apiKey)

	e.logger.Debug("Sending request to Eleven Labs API", zap.String("url", url))

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, e.transportError(fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(resp.Body)
		e.logger.Error("Eleven Labs API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return nil, domain.NewStageError(domain.StageSynthesis, domain.KindServiceReported, providerElevenLabs,
			fmt.Sprintf("API returned error %d: %s", resp.StatusCode, strings.TrimSpace(string(errorBody))), nil)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.transportError(fmt.Errorf("error reading response body: %w", err))
	}
	if len(audio) == 0 {
		return nil, domain.NewStageError(domain.StageSynthesis, domain.KindServiceReported, providerElevenLabs, "no audio data received", nil)
	}

	e.logger.Info("Finished streaming audio data",
		zap.String("contentType", resp.Header.Get("Content-Type")),
		zap.Int("totalBytes", len(audio)))

	return audio, nil
}

func (e *ElevenLabsTTS) transportError(err error) error {
	e.logger.Error("Eleven Labs request failed", zap.Error(err))
	return domain.NewStageError(domain.StageSynthesis, domain.KindTransport, providerElevenLabs, "", err)
}
