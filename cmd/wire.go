package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/adapters/llm"
	"github.com/satriahrh/scanspeak/server/adapters/ocr"
	"github.com/satriahrh/scanspeak/server/adapters/translate"
	"github.com/satriahrh/scanspeak/server/adapters/tts"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
	"github.com/satriahrh/scanspeak/server/internal/config"
	"github.com/satriahrh/scanspeak/server/usecase"
)

// services holds the usecases built from configuration
type services struct {
	pipeline *usecase.PipelineService
	speech   *usecase.SpeechService
	closers  []func() error
	logger   *zap.Logger
}

// Close releases every collaborator, logging the ones that fail.
func (s *services) Close() {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			s.logger.Error("Failed to close collaborator", zap.Error(err))
		}
	}
}

func newServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*services, error) {
	svc := &services{logger: logger}

	extractor, err := newExtractor(ctx, cfg, logger, svc)
	if err != nil {
		return nil, err
	}

	model, err := newLanguageModel(ctx, cfg, logger)
	if err != nil {
		svc.Close()
		return nil, err
	}

	translator := translate.NewGoogleTranslator(translate.GoogleConfig{
		URL:     cfg.TranslateURL,
		Timeout: cfg.TranslateTimeout,
	}, logger)

	speaker, err := newTextToSpeech(cfg, logger)
	if err != nil {
		svc.Close()
		return nil, err
	}

	summaries := usecase.NewSummaryService(model, cfg.SummaryMinWords, cfg.SummaryTemperature, logger)
	svc.pipeline = usecase.NewPipelineService(extractor, summaries, translator, usecase.PipelineConfig{
		SourceLanguage: cfg.SourceLanguage,
		TargetLanguage: cfg.TargetLanguage,
	}, logger)
	svc.speech = usecase.NewSpeechService(speaker, logger)

	logger.Info("Collaborators configured",
		zap.String("ocr", extractor.Name()),
		zap.String("llm", model.Name()),
		zap.String("translate", translator.Name()),
		zap.String("tts", speaker.Name()))

	return svc, nil
}

func newExtractor(ctx context.Context, cfg *config.Config, logger *zap.Logger, svc *services) (repositories.TextExtractor, error) {
	switch cfg.OCRProvider {
	case config.ProviderVision:
		vision, err := ocr.NewGoogleVision(ctx, ocr.VisionConfig{
			CredentialsJSON: cfg.GoogleCredentials,
			CredentialsFile: cfg.GoogleCredentialsFile,
		}, logger)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, vision.Close)
		return vision, nil
	case config.ProviderOCRSpace:
		return ocr.NewOCRSpace(ocr.OCRSpaceConfig{
			APIKey:   cfg.OCRSpaceAPIKey,
			URL:      cfg.OCRSpaceURL,
			Language: cfg.OCRLanguage,
			Timeout:  cfg.OCRTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.OCRProvider)
	}
}

func newLanguageModel(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.LargeLanguageModel, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return llm.NewGeminiLLM(ctx, llm.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.LLMTimeout,
		}, logger)
	case config.ProviderCohere:
		return llm.NewCohere(llm.CohereConfig{
			APIKey:  cfg.CohereAPIKey,
			BaseURL: cfg.CohereURL,
			Model:   cfg.CohereModel,
			Timeout: cfg.LLMTimeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func newTextToSpeech(cfg *config.Config, logger *zap.Logger) (repositories.TextToSpeech, error) {
	switch cfg.TTSProvider {
	case config.ProviderElevenLabs:
		return tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey:  cfg.ElevenLabsAPIKey,
			Timeout: cfg.TTSTimeout,
		}, logger)
	case config.ProviderGoogle:
		return tts.NewGoogleTTS(tts.GoogleConfig{
			URL:     cfg.TTSURL,
			Timeout: cfg.TTSTimeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider %q", cfg.TTSProvider)
	}
}
