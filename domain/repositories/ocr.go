package repositories

import "context"

// TextExtractor abstracts OCR services
type TextExtractor interface {
	// ExtractText returns the text found in an encoded image (PNG, JPEG, ...)
	ExtractText(ctx context.Context, image []byte) (string, error)
	// Name returns the short provider name used in logs and error messages
	Name() string
}
