package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const (
	providerOCRSpace = "ocrspace"

	defaultOCRSpaceURL = "https://api.ocr.space/parse/image"
	defaultLanguage    = "eng"
	defaultTimeout     = 30 * time.Second
	uploadFilename     = "image.png"
)

// OCRSpaceConfig holds configuration for the OCRSpace adapter
// Required fields:
// - APIKey: OCR.space API key
// Optional fields with defaults:
// - URL: parse endpoint (default: "https://api.ocr.space/parse/image")
// - Language: OCR language code (default: "eng")
// - Timeout: request timeout (default: 30s)
type OCRSpaceConfig struct {
	APIKey   string
	URL      string
	Language string
	Timeout  time.Duration
}

// OCRSpace implements TextExtractor using the OCR.space parse API
type OCRSpace struct {
	apiKey   string
	url      string
	language string
	client   *http.Client
	logger   *zap.Logger
}

// Ensure OCRSpace implements the TextExtractor interface
var _ repositories.TextExtractor = (*OCRSpace)(nil)

// ocrSpaceResponse mirrors the parts of the OCR.space reply we rely on
type ocrSpaceResponse struct {
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
	ParsedResults         []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
}

// ValidateOCRSpaceConfig validates the OCRSpaceConfig
func ValidateOCRSpaceConfig(config OCRSpaceConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("OCR.space API key is required: %w", domain.ErrMissingConfig)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewOCRSpace creates a new OCR.space text extractor
func NewOCRSpace(config OCRSpaceConfig, logger *zap.Logger) (*OCRSpace, error) {
	if err := ValidateOCRSpaceConfig(config); err != nil {
		return nil, err
	}

	url := config.URL
	if url == "" {
		url = defaultOCRSpaceURL
		logger.Info("Using default OCR.space URL", zap.String("url", url))
	}

	language := config.Language
	if language == "" {
		language = defaultLanguage
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &OCRSpace{
		apiKey:   config.APIKey,
		url:      url,
		language: language,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Name implements repositories.TextExtractor
func (o *OCRSpace) Name() string {
	return providerOCRSpace
}

// ExtractText posts the image to OCR.space and returns the first parsed text block
func (o *OCRSpace) ExtractText(ctx context.Context, image []byte) (string, error) {
	body, contentType, err := o.buildForm(image)
	if err != nil {
		return "", o.transportError(fmt.Errorf("failed to build multipart form: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, body)
	if err != nil {
		return "", o.transportError(fmt.Errorf("failed to create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", contentType)

	o.logger.Debug("Sending image to OCR.space",
		zap.Int("imageSize", len(image)),
		zap.String("language", o.language))

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", o.transportError(fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", o.transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	var result ocrSpaceResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		o.logger.Error("OCR.space returned an unreadable response",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", truncate(string(raw), 200)))
		return "", o.transportError(fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err))
	}

	if result.IsErroredOnProcessing {
		message := firstErrorMessage(result.ErrorMessage)
		o.logger.Warn("OCR.space reported a processing error", zap.String("message", message))
		return "", domain.NewStageError(domain.StageExtraction, domain.KindServiceReported, providerOCRSpace, message, nil)
	}

	if len(result.ParsedResults) == 0 {
		return "", domain.NewStageError(domain.StageExtraction, domain.KindNoText, providerOCRSpace, "", domain.ErrNoTextDetected)
	}

	text := strings.TrimSpace(result.ParsedResults[0].ParsedText)
	o.logger.Info("OCR.space extraction completed", zap.Int("textLength", len(text)))

	return text, nil
}

func (o *OCRSpace) buildForm(image []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", uploadFilename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("apikey", o.apiKey); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("language", o.language); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func (o *OCRSpace) transportError(err error) error {
	o.logger.Error("OCR request failed", zap.Error(err))
	return domain.NewStageError(domain.StageExtraction, domain.KindTransport, providerOCRSpace, "", err)
}

// firstErrorMessage accepts ErrorMessage as either a list of strings or a single string.
func firstErrorMessage(raw json.RawMessage) string {
	var messages []string
	if err := json.Unmarshal(raw, &messages); err == nil && len(messages) > 0 {
		return messages[0]
	}

	var message string
	if err := json.Unmarshal(raw, &message); err == nil && message != "" {
		return message
	}

	return "OCR failed"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
