package domain

import (
	"errors"
	"fmt"
)

// Common pipeline errors
var (
	// ErrNoImage is returned when a request carries neither a captured image nor an upload.
	ErrNoImage = errors.New("no image provided")

	// ErrNoTextDetected is returned when the OCR provider finds no text in the image.
	ErrNoTextDetected = errors.New("no text detected")

	// ErrEmptyText is returned when a provider refuses to work on blank input.
	ErrEmptyText = errors.New("no text to speak")

	// ErrUnsupportedLanguage is returned for language codes without a configured route.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrMissingConfig is returned when a required setting is absent from the environment.
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrStageSkipped marks a stage that never ran because an earlier stage failed.
	ErrStageSkipped = errors.New("skipped after upstream failure")
)

// NoImageMessage is the exact body sent back when /process receives no image.
const NoImageMessage = "No image provided"

// Stage names one step of the processing pipeline
type Stage string

const (
	StageInput         Stage = "input"
	StageExtraction    Stage = "extraction"
	StageSummarization Stage = "summarization"
	StageTranslation   Stage = "translation"
	StageSynthesis     Stage = "synthesis"
)

// ErrorKind classifies why a stage failed
type ErrorKind string

const (
	KindTransport       ErrorKind = "transport"
	KindServiceReported ErrorKind = "service_reported"
	KindInputMissing    ErrorKind = "input_missing"
	KindDecodeFailure   ErrorKind = "decode_failure"
	KindNoText          ErrorKind = "no_text"
	KindInvalidInput    ErrorKind = "invalid_input"
	KindConfiguration   ErrorKind = "configuration"
	KindSkipped         ErrorKind = "skipped"
)

// StageError is the typed failure every collaborator adapter returns.
type StageError struct {
	// Stage is the pipeline step that failed.
	Stage Stage

	// Kind classifies the failure.
	Kind ErrorKind

	// Provider is the short name of the remote collaborator, e.g. "ocrspace" or "cohere".
	Provider string

	// Message is the human readable reason, usually straight from the remote service.
	Message string

	// Err is the underlying error.
	Err error
}

// NewStageError creates a new StageError.
func NewStageError(stage Stage, kind ErrorKind, provider, message string, err error) *StageError {
	return &StageError{
		Stage:    stage,
		Kind:     kind,
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// Error implements the error interface.
func (e *StageError) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Display renders the failure the way it is shown to an end user.
func (e *StageError) Display() string {
	switch e.Kind {
	case KindNoText:
		return "No text detected"
	case KindInputMissing:
		return NoImageMessage
	case KindSkipped:
		return ""
	}

	if e.Stage == StageExtraction && e.Kind == KindServiceReported {
		return e.detail()
	}

	return fmt.Sprintf("%s: %s", e.displayPrefix(), e.detail())
}

func (e *StageError) detail() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *StageError) displayPrefix() string {
	switch e.Stage {
	case StageExtraction:
		return "OCR Exception"
	case StageSummarization:
		switch e.Provider {
		case "", "cohere":
			return "Cohere Error"
		case "gemini":
			return "Gemini Error"
		default:
			return "Summary Error"
		}
	case StageTranslation:
		return "Translation Error"
	case StageSynthesis:
		return "Speech Error"
	case StageInput:
		return "Invalid image data"
	default:
		return "Error"
	}
}

// KindOf returns the ErrorKind carried by err, or "" when err is not a StageError.
func KindOf(err error) ErrorKind {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Kind
	}
	return ""
}

// Display renders any error for an end user.
func Display(err error) string {
	if err == nil {
		return ""
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Display()
	}
	return err.Error()
}
