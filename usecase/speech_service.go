package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/entities"
	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

const audioContentType = "audio/mpeg"

// SpeechService turns text into a downloadable MP3 clip
type SpeechService struct {
	tts    repositories.TextToSpeech
	logger *zap.Logger
}

// NewSpeechService creates a new speech service
func NewSpeechService(tts repositories.TextToSpeech, logger *zap.Logger) *SpeechService {
	return &SpeechService{tts: tts, logger: logger}
}

// Synthesize speaks text in lang. Only languages with an audio route are accepted.
func (s *SpeechService) Synthesize(ctx context.Context, text, lang string) (*entities.AudioClip, error) {
	filename, ok := entities.AudioFilename(lang)
	if !ok {
		return nil, domain.NewStageError(domain.StageSynthesis, domain.KindInvalidInput, s.tts.Name(),
			fmt.Sprintf("unsupported language %q", lang), domain.ErrUnsupportedLanguage)
	}

	audio, err := s.tts.Synthesize(ctx, text, lang)
	if err != nil {
		s.logger.Error("Speech synthesis failed",
			zap.String("lang", lang),
			zap.String("provider", s.tts.Name()),
			zap.Error(err))
		return nil, asStageError(domain.StageSynthesis, s.tts.Name(), err)
	}

	s.logger.Info("Speech synthesized",
		zap.String("lang", lang),
		zap.Int("textLength", len(text)),
		zap.Int("audioSize", len(audio)))

	return &entities.AudioClip{
		Language:    lang,
		Filename:    filename,
		ContentType: audioContentType,
		Data:        audio,
	}, nil
}
