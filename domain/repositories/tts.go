package repositories

import "context"

// TextToSpeech abstracts speech synthesis services
type TextToSpeech interface {
	// Synthesize returns MP3 encoded speech for text spoken in lang
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
	Name() string
}
