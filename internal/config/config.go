package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/satriahrh/scanspeak/server/domain"
)

// Provider names
const (
	ProviderOCRSpace   = "ocrspace"
	ProviderVision     = "vision"
	ProviderCohere     = "cohere"
	ProviderGemini     = "gemini"
	ProviderGoogle     = "google"
	ProviderElevenLabs = "elevenlabs"
)

type Config struct {
	// Server
	Port            string
	AppEnv          string
	LogLevel        string
	MaxUploadSize   string
	ShutdownTimeout time.Duration

	// Stage 1: OCR
	OCRProvider    string
	OCRSpaceAPIKey string
	OCRSpaceURL    string
	OCRLanguage    string
	OCRTimeout     time.Duration

	// Google Vision credentials (OCR_PROVIDER=vision)
	GoogleCredentials     string
	GoogleCredentialsFile string

	// Stage 2: summarization
	LLMProvider        string
	CohereAPIKey       string
	CohereURL          string
	CohereModel        string
	GeminiAPIKey       string
	GeminiModel        string
	SummaryTemperature float32
	SummaryMinWords    int
	LLMTimeout         time.Duration

	// Stage 3: translation
	TranslateURL     string
	SourceLanguage   string
	TargetLanguage   string
	TranslateTimeout time.Duration

	// Stage 4: speech synthesis
	TTSProvider      string
	TTSURL           string
	ElevenLabsAPIKey string
	TTSTimeout       time.Duration
}

// Load reads the configuration from the environment. Call godotenv.Load first
// when a .env file should be honored.
func Load() (*Config, error) {
	env := &envReader{}
	config := &Config{
		Port:            getEnv("PORT", "8080"),
		AppEnv:          getEnv("APP_ENV", "production"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MaxUploadSize:   getEnv("MAX_UPLOAD_SIZE", "10M"),
		ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),

		OCRProvider:    strings.ToLower(getEnv("OCR_PROVIDER", ProviderOCRSpace)),
		OCRSpaceAPIKey: getEnv("OCR_SPACE_API_KEY", ""),
		OCRSpaceURL:    getEnv("OCR_SPACE_URL", "https://api.ocr.space/parse/image"),
		OCRLanguage:    getEnv("OCR_LANGUAGE", "eng"),
		OCRTimeout:     env.duration("OCR_TIMEOUT", 30*time.Second),

		GoogleCredentials:     getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderCohere)),
		CohereAPIKey:       getEnv("COHERE_API_KEY", ""),
		CohereURL:          getEnv("COHERE_API_URL", "https://api.cohere.com/v1"),
		CohereModel:        getEnv("COHERE_MODEL", "command-a-03-2025"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SummaryTemperature: env.float("SUMMARY_TEMPERATURE", 0.3),
		SummaryMinWords:    env.int("SUMMARY_MIN_WORDS", 30),
		LLMTimeout:         env.duration("LLM_TIMEOUT", 60*time.Second),

		TranslateURL:     getEnv("TRANSLATE_URL", "https://translate.googleapis.com/translate_a/single"),
		SourceLanguage:   getEnv("SOURCE_LANGUAGE", "en"),
		TargetLanguage:   getEnv("TARGET_LANGUAGE", "ta"),
		TranslateTimeout: env.duration("TRANSLATE_TIMEOUT", 60*time.Second),

		TTSProvider:      strings.ToLower(getEnv("TTS_PROVIDER", ProviderGoogle)),
		TTSURL:           getEnv("TTS_URL", "https://translate.google.com/_/TranslateWebserverUi/data/batchexecute"),
		ElevenLabsAPIKey: getEnv("ELEVEN_LABS_API_KEY", ""),
		TTSTimeout:       env.duration("TTS_TIMEOUT", 60*time.Second),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, fmt.Errorf("config parse failed: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.OCRProvider {
	case ProviderOCRSpace:
		if c.OCRSpaceAPIKey == "" {
			return missing(domain.StageExtraction, ProviderOCRSpace, "OCR_SPACE_API_KEY")
		}
	case ProviderVision:
		// Vision falls back to application default credentials
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q", c.OCRProvider)
	}

	switch c.LLMProvider {
	case ProviderCohere:
		if c.CohereAPIKey == "" {
			return missing(domain.StageSummarization, ProviderCohere, "COHERE_API_KEY")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return missing(domain.StageSummarization, ProviderGemini, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.TTSProvider {
	case ProviderGoogle:
	case ProviderElevenLabs:
		if c.ElevenLabsAPIKey == "" {
			return missing(domain.StageSynthesis, ProviderElevenLabs, "ELEVEN_LABS_API_KEY")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q", c.TTSProvider)
	}

	if c.SummaryTemperature < 0 || c.SummaryTemperature > 1 {
		return fmt.Errorf("SUMMARY_TEMPERATURE must be between 0 and 1, got %f", c.SummaryTemperature)
	}
	if c.SummaryMinWords < 0 {
		return fmt.Errorf("SUMMARY_MIN_WORDS must not be negative, got %d", c.SummaryMinWords)
	}
	if c.OCRTimeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive, got %s", c.OCRTimeout)
	}

	return nil
}

// IsDevelopment reports whether the server runs with development logging
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// missing reports an absent credential for the stage that needs it
func missing(stage domain.Stage, provider, key string) error {
	return domain.NewStageError(stage, domain.KindConfiguration, provider, key+" is required", domain.ErrMissingConfig)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader parses typed settings and remembers every malformed value
type envReader struct {
	errs []error
}

func (r *envReader) invalid(key, value string, err error) {
	r.errs = append(r.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
}

func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.invalid(key, value, err)
		return defaultValue
	}
	return d
}

func (r *envReader) float(key string, defaultValue float32) float32 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		r.invalid(key, value, err)
		return defaultValue
	}
	return float32(f)
}

func (r *envReader) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		r.invalid(key, value, err)
		return defaultValue
	}
	return i
}
