package api

import (
	"github.com/satriahrh/scanspeak/server/domain/entities"
)

// ProcessResponse represents the JSON payload of /api/v1/process
type ProcessResponse struct {
	RequestID      string          `json:"request_id"`
	ExtractedText  string          `json:"extracted_text"`
	Summary        string          `json:"summary"`
	TranslatedText string          `json:"translated_text"`
	Stages         []StageResponse `json:"stages"`
	DurationMS     int64           `json:"duration_ms"`
}

// StageResponse describes one stage so clients can tell content from failures
type StageResponse struct {
	Stage       string `json:"stage"`
	Text        string `json:"text,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Passthrough bool   `json:"passthrough,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResultView is the data handed to result.html
type ResultView struct {
	RequestID      string
	ExtractedText  string
	Summary        string
	TranslatedText string
	// SpeechEnabled is false when there is nothing meaningful to speak
	SpeechEnabled bool
}

// NewProcessResponse flattens a result for JSON clients
func NewProcessResponse(result *entities.ProcessResult) ProcessResponse {
	resp := ProcessResponse{
		RequestID:      result.RequestID,
		ExtractedText:  result.Extraction.Display(),
		Summary:        result.Summary.Display(),
		TranslatedText: result.Translation.Display(),
		DurationMS:     result.Duration.Milliseconds(),
	}

	for _, outcome := range []entities.StageOutcome{result.Extraction, result.Summary, result.Translation} {
		stage := StageResponse{
			Stage:       string(outcome.Stage),
			Text:        outcome.Text,
			ErrorKind:   string(outcome.ErrorKind()),
			Passthrough: outcome.Passthrough,
			DurationMS:  outcome.Duration.Milliseconds(),
		}
		if outcome.Failed() {
			stage.Error = outcome.Err.Error()
		}
		resp.Stages = append(resp.Stages, stage)
	}

	return resp
}

func newResultView(result *entities.ProcessResult) ResultView {
	return ResultView{
		RequestID:      result.RequestID,
		ExtractedText:  result.Extraction.Display(),
		Summary:        result.Summary.Display(),
		TranslatedText: result.Translation.Display(),
		SpeechEnabled:  result.Succeeded(),
	}
}
