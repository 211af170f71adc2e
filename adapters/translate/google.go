package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const (
	providerGoogle = "google"

	defaultTranslateURL = "https://translate.googleapis.com/translate_a/single"
	defaultTimeout      = 60 * time.Second

	// MaxTextLength is the longest text the public endpoint accepts in one call
	MaxTextLength = 5000
)

// GoogleConfig holds configuration for the Google translate adapter
type GoogleConfig struct {
	URL     string
	Timeout time.Duration
}

// GoogleTranslator implements Translator using the public Google Translate endpoint
type GoogleTranslator struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// Ensure GoogleTranslator implements the Translator interface
var _ repositories.Translator = (*GoogleTranslator)(nil)

// NewGoogleTranslator creates a new Google translator
func NewGoogleTranslator(config GoogleConfig, logger *zap.Logger) *GoogleTranslator {
	endpoint := config.URL
	if endpoint == "" {
		endpoint = defaultTranslateURL
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &GoogleTranslator{
		url:    endpoint,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Name implements repositories.Translator
func (g *GoogleTranslator) Name() string {
	return providerGoogle
}

// Translate converts text between languages. Blank text and identical
// source/target languages return the input without a remote call.
func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if utf8.RuneCountInString(text) >= MaxTextLength {
		return "", domain.NewStageError(domain.StageTranslation, domain.KindInvalidInput, providerGoogle,
			fmt.Sprintf("text must be shorter than %d characters", MaxTextLength), nil)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || source == target {
		return trimmed, nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", trimmed)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url+"?"+params.Encode(), nil)
	if err != nil {
		return "", g.transportError(fmt.Errorf("failed to create HTTP request: %w", err))
	}

	g.logger.Debug("Sending translation request",
		zap.String("source", source),
		zap.String("target", target),
		zap.Int("textLength", len(trimmed)))

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", g.transportError(fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("Translation endpoint returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(body)))
		return "", domain.NewStageError(domain.StageTranslation, domain.KindServiceReported, providerGoogle,
			fmt.Sprintf("Request has been declined by the server (status %d)", resp.StatusCode), nil)
	}

	translated, err := parseTranslation(body)
	if err != nil {
		return "", g.transportError(err)
	}

	g.logger.Info("Translation completed",
		zap.String("target", target),
		zap.Int("translatedLength", len(translated)))

	return translated, nil
}

func (g *GoogleTranslator) transportError(err error) error {
	g.logger.Error("Translation request failed", zap.Error(err))
	return domain.NewStageError(domain.StageTranslation, domain.KindTransport, providerGoogle, "", err)
}

// parseTranslation joins the translated segments of a translate_a/single reply.
// The reply is a nested array whose first element lists
// [translated, original, ...] pairs, one per sentence.
func parseTranslation(body []byte) (string, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]interface{}
	if err := json.Unmarshal(envelope[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translation payload: %w", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if part, ok := segment[0].(string); ok {
			sb.WriteString(part)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no translation found in response")
	}

	return sb.String(), nil
}
