package tts

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const (
	providerGoogle = "google"

	defaultGoogleTTSURL  = "https://translate.google.com/_/TranslateWebserverUi/data/batchexecute"
	defaultGoogleTimeout = 60 * time.Second

	googleTTSRPC = "jQ1olc"
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var audioPattern = regexp.MustCompile(`jQ1olc","\[\\"(.*)\\"]`)

// GoogleConfig holds configuration for the Google Translate TTS adapter
type GoogleConfig struct {
	URL     string
	Timeout time.Duration
}

// GoogleTTS implements TextToSpeech using the Google Translate speech endpoint
type GoogleTTS struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// Ensure GoogleTTS implements the TextToSpeech interface
var _ repositories.TextToSpeech = (*GoogleTTS)(nil)

// NewGoogleTTS creates a new Google TTS instance
func NewGoogleTTS(config GoogleConfig, logger *zap.Logger) *GoogleTTS {
	endpoint := config.URL
	if endpoint == "" {
		endpoint = defaultGoogleTTSURL
		logger.Info("Using default Google TTS URL", zap.String("url", endpoint))
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultGoogleTimeout
	}

	return &GoogleTTS{
		url:    endpoint,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Name implements repositories.TextToSpeech
func (g *GoogleTTS) Name() string {
	return providerGoogle
}

// Synthesize speaks text chunk by chunk and concatenates the MP3 frames in memory
func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	chunks := splitText(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, domain.NewStageError(domain.StageSynthesis, domain.KindInvalidInput, providerGoogle, "No text to speak", domain.ErrEmptyText)
	}

	g.logger.Info("Converting text to speech",
		zap.String("lang", lang),
		zap.Int("textLength", len(text)),
		zap.Int("chunks", len(chunks)))

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := g.synthesizeChunk(ctx, chunk, lang)
		if err != nil {
			g.logger.Error("Failed to synthesize chunk",
				zap.Int("chunkNumber", i+1),
				zap.Error(err))
			return nil, err
		}
		audio.Write(data)
	}

	g.logger.Info("Finished synthesizing audio",
		zap.Int("totalChunks", len(chunks)),
		zap.Int("totalBytes", audio.Len()))

	return audio.Bytes(), nil
}

func (g *GoogleTTS) synthesizeChunk(ctx context.Context, chunk, lang string) ([]byte, error) {
	body, err := packageRPC(chunk, lang)
	if err != nil {
		return nil, g.transportError(fmt.Errorf("failed to build request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, strings.NewReader(body))
	if err != nil {
		return nil, g.transportError(fmt.Errorf("failed to create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
	httpReq.Header.Set("Referer", "http://translate.google.com/")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, g.transportError(fmt.Errorf("failed to execute HTTP request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		g.logger.Error("Google TTS returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(errorBody)))
		return nil, domain.NewStageError(domain.StageSynthesis, domain.KindServiceReported, providerGoogle,
			fmt.Sprintf("%d (%s) from TTS API. Probable cause: %s", resp.StatusCode, http.StatusText(resp.StatusCode), probableCause(resp.StatusCode, lang)), nil)
	}

	audio, err := extractAudio(resp.Body)
	if err != nil {
		return nil, g.transportError(err)
	}
	return audio, nil
}

// packageRPC builds the form body for the batchexecute endpoint
func packageRPC(text, lang string) (string, error) {
	parameter, err := json.Marshal([]interface{}{text, lang, nil, "null"})
	if err != nil {
		return "", err
	}
	rpc, err := json.Marshal([][][]interface{}{{{googleTTSRPC, string(parameter), nil, "generic"}}})
	if err != nil {
		return "", err
	}
	return "f.req=" + url.QueryEscape(string(rpc)) + "&", nil
}

// extractAudio scans the batchexecute reply for the base64 MP3 payload
func extractAudio(r io.Reader) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, googleTTSRPC) {
			continue
		}
		match := audioPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		audio, err := base64.StdEncoding.DecodeString(match[1])
		if err != nil {
			return nil, fmt.Errorf("failed to decode audio payload: %w", err)
		}
		return audio, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return nil, fmt.Errorf("no audio stream in response")
}

func probableCause(status int, lang string) string {
	switch {
	case status == http.StatusForbidden:
		return "bad token or upstream API changes"
	case status == http.StatusNotFound:
		return "unsupported language " + lang
	case status >= 500:
		return "upstream API error, try again later"
	default:
		return "unknown"
	}
}

func (g *GoogleTTS) transportError(err error) error {
	return domain.NewStageError(domain.StageSynthesis, domain.KindTransport, providerGoogle, "", err)
}
