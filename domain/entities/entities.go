package entities

import (
	"time"

	"github.com/satriahrh/scanspeak/server/domain"
)

// Image sources
const (
	SourceCapture = "capture"
	SourceUpload  = "upload"
	SourceFile    = "file"
)

// ImagePayload is the raw image handed to the extraction stage
type ImagePayload struct {
	Data     []byte `json:"-"`
	Source   string `json:"source"`
	Filename string `json:"filename,omitempty"`
}

// Size returns the payload size in bytes
func (p ImagePayload) Size() int {
	return len(p.Data)
}

// StageOutcome records what a single pipeline stage produced
type StageOutcome struct {
	Stage     domain.Stage  `json:"stage"`
	Text      string        `json:"text"`
	Err       error         `json:"-"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	// Passthrough is set when the stage returned its input without a remote call,
	// e.g. summarization of a short text.
	Passthrough bool `json:"passthrough,omitempty"`
}

// Failed reports whether the stage ended with an error
func (o StageOutcome) Failed() bool {
	return o.Err != nil
}

// Display returns the stage text, or the rendered failure when the stage failed
func (o StageOutcome) Display() string {
	if o.Err != nil {
		return domain.Display(o.Err)
	}
	return o.Text
}

// ErrorKind returns the failure kind, or "" on success
func (o StageOutcome) ErrorKind() domain.ErrorKind {
	if o.Err == nil {
		return ""
	}
	return domain.KindOf(o.Err)
}

// ProcessResult is the outcome of running extraction, summarization and translation
// for one image
type ProcessResult struct {
	RequestID   string        `json:"request_id"`
	Image       ImagePayload  `json:"image"`
	Extraction  StageOutcome  `json:"extraction"`
	Summary     StageOutcome  `json:"summary"`
	Translation StageOutcome  `json:"translation"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

// NewProcessResult creates an empty result with every stage marked as not yet run
func NewProcessResult(requestID string, image ImagePayload) *ProcessResult {
	return &ProcessResult{
		RequestID:   requestID,
		Image:       image,
		Extraction:  StageOutcome{Stage: domain.StageExtraction},
		Summary:     StageOutcome{Stage: domain.StageSummarization},
		Translation: StageOutcome{Stage: domain.StageTranslation},
		StartedAt:   time.Now(),
	}
}

// Succeeded reports whether all three stages completed without error
func (r *ProcessResult) Succeeded() bool {
	return !r.Extraction.Failed() && !r.Summary.Failed() && !r.Translation.Failed()
}

// FirstError returns the error of the earliest failed stage, if any
func (r *ProcessResult) FirstError() error {
	for _, outcome := range []StageOutcome{r.Extraction, r.Summary, r.Translation} {
		if outcome.Err != nil {
			return outcome.Err
		}
	}
	return nil
}

// Speech languages wired to audio routes
const (
	LanguageEnglish = "en"
	LanguageTamil   = "ta"
)

var audioFilenames = map[string]string{
	LanguageEnglish: "summary_english.mp3",
	LanguageTamil:   "summary_tamil.mp3",
}

// AudioFilename returns the download name for a speech language
func AudioFilename(lang string) (string, bool) {
	name, ok := audioFilenames[lang]
	return name, ok
}

// SpeechLanguages returns the language codes that have an audio route, in a stable order
func SpeechLanguages() []string {
	return []string{LanguageEnglish, LanguageTamil}
}

// AudioClip is synthesized speech held in memory
type AudioClip struct {
	Language    string `json:"language"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Size returns the clip size in bytes
func (a *AudioClip) Size() int {
	return len(a.Data)
}
