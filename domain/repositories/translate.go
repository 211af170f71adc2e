package repositories

import "context"

// Translator abstracts machine translation services
type Translator interface {
	// Translate converts text from the source language to the target language
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}
