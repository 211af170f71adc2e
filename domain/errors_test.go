package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestStageError_Display(t *testing.T) {
	tests := []struct {
		name string
		err  *StageError
		want string
	}{
		{"ocr service message", NewStageError(StageExtraction, KindServiceReported, "ocrspace", "bad format", nil), "bad format"},
		{"ocr transport", NewStageError(StageExtraction, KindTransport, "ocrspace", "", errors.New("timeout")), "OCR Exception: timeout"},
		{"no text", NewStageError(StageExtraction, KindNoText, "vision", "", ErrNoTextDetected), "No text detected"},
		{"cohere", NewStageError(StageSummarization, KindServiceReported, "cohere", "status_code: 429, body: slow down", nil), "Cohere Error: status_code: 429, body: slow down"},
		{"gemini", NewStageError(StageSummarization, KindTransport, "gemini", "", errors.New("quota")), "Gemini Error: quota"},
		{"translation", NewStageError(StageTranslation, KindTransport, "google", "", errors.New("reset")), "Translation Error: reset"},
		{"speech", NewStageError(StageSynthesis, KindInvalidInput, "google", "No text to speak", ErrEmptyText), "Speech Error: No text to speak"},
		{"input missing", NewStageError(StageInput, KindInputMissing, "", "", ErrNoImage), "No image provided"},
		{"decode", NewStageError(StageInput, KindDecodeFailure, "", "missing comma in data URL", nil), "Invalid image data: missing comma in data URL"},
		{"skipped", NewStageError(StageTranslation, KindSkipped, "", "", ErrStageSkipped), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOfAndDisplay_Wrapped(t *testing.T) {
	inner := NewStageError(StageExtraction, KindNoText, "ocrspace", "", ErrNoTextDetected)
	wrapped := fmt.Errorf("pipeline: %w", inner)

	if KindOf(wrapped) != KindNoText {
		t.Errorf("Expected KindNoText through wrapping, got %s", KindOf(wrapped))
	}
	if !errors.Is(wrapped, ErrNoTextDetected) {
		t.Error("Expected sentinel to unwrap")
	}
	if Display(wrapped) != "No text detected" {
		t.Errorf("Unexpected display %q", Display(wrapped))
	}
	if KindOf(errors.New("plain")) != "" || Display(errors.New("plain")) != "plain" {
		t.Error("Plain errors should have no kind and render as-is")
	}
	if Display(nil) != "" {
		t.Error("nil should render empty")
	}
}
