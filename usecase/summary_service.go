package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

// summaryInstruction is prepended to the extracted text
const summaryInstruction = `Clean OCR text and summarize it in 3-4 sentences.

Rules:
- Remove OCR noise
- Fix broken sentences
- Be concise

Text:
`

const (
	DefaultSummaryMinWords    = 30
	DefaultSummaryTemperature = 0.3
)

// SummaryService condenses extracted text with a language model
type SummaryService struct {
	llm         repositories.LargeLanguageModel
	minWords    int
	temperature float32
	logger      *zap.Logger
}

// NewSummaryService creates a summary service. A non-positive minWords or a
// negative temperature falls back to the defaults.
func NewSummaryService(llm repositories.LargeLanguageModel, minWords int, temperature float32, logger *zap.Logger) *SummaryService {
	if minWords <= 0 {
		minWords = DefaultSummaryMinWords
	}
	if temperature < 0 {
		temperature = DefaultSummaryTemperature
	}
	return &SummaryService{
		llm:         llm,
		minWords:    minWords,
		temperature: temperature,
		logger:      logger,
	}
}

// Summarize returns a short summary of text. Texts below the word threshold
// are returned unchanged and passthrough is true.
func (s *SummaryService) Summarize(ctx context.Context, text string) (summary string, passthrough bool, err error) {
	words := len(strings.Fields(text))
	if words < s.minWords {
		s.logger.Debug("Text too short to summarize",
			zap.Int("words", words),
			zap.Int("minWords", s.minWords))
		return text, true, nil
	}

	reply, err := s.llm.Generate(ctx, BuildSummaryPrompt(text), repositories.GenerateOptions{
		Temperature: s.temperature,
	})
	if err != nil {
		return "", false, asStageError(domain.StageSummarization, s.llm.Name(), err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", false, domain.NewStageError(domain.StageSummarization, domain.KindServiceReported, s.llm.Name(), "empty response from model", nil)
	}

	s.logger.Info("Text summarized",
		zap.String("provider", s.llm.Name()),
		zap.Int("words", words),
		zap.Int("summaryLength", len(reply)))

	return reply, false, nil
}

// BuildSummaryPrompt returns the full instruction sent to the model for text
func BuildSummaryPrompt(text string) string {
	return summaryInstruction + text + "\n"
}
