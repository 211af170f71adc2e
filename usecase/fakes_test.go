package usecase

import (
	"context"
	"strings"

	"github.com/satriahrh/scanspeak/server/domain/repositories"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeExtractor) Name() string { return "fake-ocr" }

type fakeLLM struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
	lastOpts   repositories.GenerateOptions
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options repositories.GenerateOptions) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastOpts = options
	return f.reply, f.err
}

func (f *fakeLLM) Name() string { return "cohere" }

type fakeTranslator struct {
	prefix     string
	err        error
	calls      int
	lastSource string
	lastTarget string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.calls++
	f.lastSource = source
	f.lastTarget = target
	if f.err != nil {
		return "", f.err
	}
	return f.prefix + text, nil
}

func (f *fakeTranslator) Name() string { return "google" }

type fakeTTS struct {
	audio    []byte
	err      error
	calls    int
	lastLang string
}

func (f *fakeTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	f.calls++
	f.lastLang = lang
	return f.audio, f.err
}

func (f *fakeTTS) Name() string { return "google" }

// words returns n space separated words
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}
