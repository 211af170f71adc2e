package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/scanspeak/server/domain"
	"github.com/satriahrh/scanspeak/server/domain/entities"
)

type fakeProcessor struct {
	result *entities.ProcessResult
	calls  int
	image  entities.ImagePayload
}

func (f *fakeProcessor) Process(ctx context.Context, requestID string, image entities.ImagePayload) *entities.ProcessResult {
	f.calls++
	f.image = image
	f.result.RequestID = requestID
	return f.result
}

type fakeSpeech struct {
	err      error
	lastText string
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, lang string) (*entities.AudioClip, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	filename, _ := entities.AudioFilename(lang)
	return &entities.AudioClip{Language: lang, Filename: filename, ContentType: "audio/mpeg", Data: []byte("ID3 mp3")}, nil
}

func successResult() *entities.ProcessResult {
	result := entities.NewProcessResult("", entities.ImagePayload{})
	result.Extraction.Text = "RAW <TEXT>"
	result.Summary.Text = "Summary & more"
	result.Translation.Text = "தமிழ்"
	return result
}

func newTestServer(t *testing.T, processor *fakeProcessor, speech *fakeSpeech) *echo.Echo {
	t.Helper()

	renderer, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}

	e := echo.New()
	e.Renderer = renderer
	InitRoutes(e, processor, speech, zaptest.NewLogger(t))
	return e
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, &fakeProcessor{}, &fakeSpeech{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"service":"scanspeak-server"`) {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestIndex(t *testing.T) {
	e := newTestServer(t, &fakeProcessor{}, &fakeSpeech{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="captured_image"`) || !strings.Contains(body, `name="image"`) {
		t.Error("Index page is missing the image inputs")
	}
}

func TestProcess_NoImage(t *testing.T) {
	processor := &fakeProcessor{result: successResult()}
	e := newTestServer(t, processor, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "No image provided" {
		t.Errorf("Expected exact body, got %q", rec.Body.String())
	}
	if processor.calls != 0 {
		t.Error("Pipeline must not run without an image")
	}
}

func TestProcess_BadDataURL(t *testing.T) {
	processor := &fakeProcessor{result: successResult()}
	e := newTestServer(t, processor, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader("captured_image=data%3Aimage%2Fpng%3Bbase64%2C%25%25%25"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "Invalid image data: ") {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if processor.calls != 0 {
		t.Error("Pipeline must not run on undecodable input")
	}
}

func TestProcess_RendersResult(t *testing.T) {
	processor := &fakeProcessor{result: successResult()}
	e := newTestServer(t, processor, &fakeSpeech{})

	req := multipartRequest(t, "/process", []byte("img"), nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		"RAW &lt;TEXT&gt;",
		"Summary &amp; more",
		"தமிழ்",
		`/audio/en?text=Summary%20%26%20more`,
		`data-request-id="req-42"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Result page missing %q", want)
		}
	}
	if string(processor.image.Data) != "img" {
		t.Error("Uploaded bytes not handed to the pipeline")
	}
}

func TestProcess_RendersStageFailure(t *testing.T) {
	result := entities.NewProcessResult("", entities.ImagePayload{})
	result.Extraction.Err = domain.NewStageError(domain.StageExtraction, domain.KindNoText, "ocrspace", "", domain.ErrNoTextDetected)
	result.Summary.Err = domain.NewStageError(domain.StageSummarization, domain.KindSkipped, "", "", domain.ErrStageSkipped)
	result.Translation.Err = domain.NewStageError(domain.StageTranslation, domain.KindSkipped, "", "", domain.ErrStageSkipped)

	e := newTestServer(t, &fakeProcessor{result: result}, &fakeSpeech{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/process", []byte("img"), nil))

	body := rec.Body.String()
	if !strings.Contains(body, "No text detected") {
		t.Error("Expected the extraction failure on the page")
	}
	if strings.Contains(body, "/audio/") {
		t.Error("Audio links should not be offered for a failed run")
	}
}

func TestProcessJSON(t *testing.T) {
	result := successResult()
	result.Summary.Passthrough = true
	result.Translation.Text = ""
	result.Translation.Err = domain.NewStageError(domain.StageTranslation, domain.KindTransport, "google", "", errors.New("timeout"))

	e := newTestServer(t, &fakeProcessor{result: result}, &fakeSpeech{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, multipartRequest(t, "/api/v1/process", []byte("img"), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp ProcessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TranslatedText != "Translation Error: timeout" {
		t.Errorf("Unexpected translated text %q", resp.TranslatedText)
	}
	if len(resp.Stages) != 3 {
		t.Fatalf("Expected 3 stages, got %d", len(resp.Stages))
	}
	if !resp.Stages[1].Passthrough {
		t.Error("Expected summary passthrough flag")
	}
	if resp.Stages[2].ErrorKind != "transport" || resp.Stages[2].Text != "" {
		t.Errorf("Unexpected translation stage %+v", resp.Stages[2])
	}
}

func TestProcessJSON_NoImage(t *testing.T) {
	e := newTestServer(t, &fakeProcessor{result: successResult()}, &fakeSpeech{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/process", strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var resp ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "input_missing" || resp.Message != "No image provided" {
		t.Errorf("Unexpected error response %+v", resp)
	}
}

func TestAudio(t *testing.T) {
	tests := []struct {
		path     string
		text     string
		filename string
	}{
		{"/audio/en?text=Hello", "Hello", "summary_english.mp3"},
		{"/audio/ta?text=%E0%AE%B5%E0%AE%A3%E0%AE%95%E0%AF%8D%E0%AE%95%E0%AE%AE%E0%AF%8D", "வணக்கம்", "summary_tamil.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			speech := &fakeSpeech{}
			e := newTestServer(t, &fakeProcessor{}, speech)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get(echo.HeaderContentType); ct != "audio/mpeg" {
				t.Errorf("Expected audio/mpeg, got %s", ct)
			}
			if cd := rec.Header().Get(echo.HeaderContentDisposition); cd != `attachment; filename="`+tt.filename+`"` {
				t.Errorf("Unexpected Content-Disposition %s", cd)
			}
			if rec.Body.Len() == 0 {
				t.Error("Expected audio bytes")
			}
			if speech.lastText != tt.text {
				t.Errorf("Expected text %q, got %q", tt.text, speech.lastText)
			}
		})
	}
}

func TestAudio_Failures(t *testing.T) {
	t.Run("unknown language", func(t *testing.T) {
		e := newTestServer(t, &fakeProcessor{}, &fakeSpeech{})
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/fr?text=Bonjour", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
		if !strings.HasSuffix(rec.Body.String(), "supported: en, ta") {
			t.Errorf("Expected supported languages in body, got %q", rec.Body.String())
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		speech := &fakeSpeech{err: domain.NewStageError(domain.StageSynthesis, domain.KindTransport, "google", "", errors.New("connection refused"))}
		e := newTestServer(t, &fakeProcessor{}, speech)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/en?text=Hello", nil))
		if rec.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", rec.Code)
		}
		if rec.Body.String() != "Speech Error: connection refused" {
			t.Errorf("Unexpected body %q", rec.Body.String())
		}
	})

	t.Run("empty text", func(t *testing.T) {
		speech := &fakeSpeech{err: domain.NewStageError(domain.StageSynthesis, domain.KindInvalidInput, "google", "No text to speak", domain.ErrEmptyText)}
		e := newTestServer(t, &fakeProcessor{}, speech)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/en", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}
