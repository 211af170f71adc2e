package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/scanspeak/server/domain"
)

func TestSummaryService_ShortTextPassesThrough(t *testing.T) {
	for _, text := range []string{"", "   ", "No text detected", words(29)} {
		llm := &fakeLLM{reply: "should not be used"}
		svc := NewSummaryService(llm, 30, 0.3, zaptest.NewLogger(t))

		summary, passthrough, err := svc.Summarize(context.Background(), text)
		if err != nil {
			t.Fatalf("Summarize(%q) returned error: %v", text, err)
		}
		if summary != text {
			t.Errorf("Expected input unchanged, got %q", summary)
		}
		if !passthrough {
			t.Error("Expected passthrough")
		}
		if llm.calls != 0 {
			t.Errorf("Expected no model call for %d words, got %d", len(strings.Fields(text)), llm.calls)
		}
	}
}

func TestSummaryService_LongTextCallsModel(t *testing.T) {
	llm := &fakeLLM{reply: "\n  A short summary.  \n"}
	svc := NewSummaryService(llm, 30, 0.3, zaptest.NewLogger(t))

	text := words(30)
	summary, passthrough, err := svc.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "A short summary." {
		t.Errorf("Expected trimmed reply, got %q", summary)
	}
	if passthrough {
		t.Error("Did not expect passthrough")
	}
	if llm.calls != 1 {
		t.Errorf("Expected one model call, got %d", llm.calls)
	}
	if llm.lastOpts.Temperature != 0.3 {
		t.Errorf("Expected temperature 0.3, got %v", llm.lastOpts.Temperature)
	}
	if !strings.HasPrefix(llm.lastPrompt, "Clean OCR text and summarize it in 3-4 sentences.") {
		t.Errorf("Unexpected prompt start %q", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "Text:\n"+text) {
		t.Error("Prompt does not carry the text")
	}
}

func TestSummaryService_EmptyReplyFails(t *testing.T) {
	svc := NewSummaryService(&fakeLLM{reply: "   "}, 30, 0.3, zaptest.NewLogger(t))

	_, _, err := svc.Summarize(context.Background(), words(40))
	if domain.KindOf(err) != domain.KindServiceReported {
		t.Fatalf("Expected service reported failure, got %v", err)
	}
}

func TestSummaryService_ModelErrorDisplay(t *testing.T) {
	svc := NewSummaryService(&fakeLLM{err: errors.New("connection reset")}, 30, 0.3, zaptest.NewLogger(t))

	_, _, err := svc.Summarize(context.Background(), words(40))
	if err == nil {
		t.Fatal("Expected error")
	}
	if got := domain.Display(err); got != "Cohere Error: connection reset" {
		t.Errorf("Unexpected display %q", got)
	}
}

func TestNewSummaryService_Defaults(t *testing.T) {
	svc := NewSummaryService(&fakeLLM{}, 0, -1, zaptest.NewLogger(t))
	if svc.minWords != DefaultSummaryMinWords {
		t.Errorf("Expected default min words, got %d", svc.minWords)
	}
	if svc.temperature != DefaultSummaryTemperature {
		t.Errorf("Expected default temperature, got %v", svc.temperature)
	}
}
