package tts

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitText_Sentences(t *testing.T) {
	got := splitText("Hello world. How are you? Fine!", maxChunkRunes)
	want := []string{"Hello world.", "How are you?", "Fine!"}

	if len(got) != len(want) {
		t.Fatalf("Expected %d chunks, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitText_LongSentence(t *testing.T) {
	text := strings.Repeat("word ", 60)

	chunks := splitText(text, maxChunkRunes)
	if len(chunks) < 3 {
		t.Fatalf("Expected the sentence to be split, got %d chunks", len(chunks))
	}
	for _, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > maxChunkRunes {
			t.Errorf("Chunk exceeds limit (%d runes): %q", n, chunk)
		}
		if strings.HasPrefix(chunk, " ") || strings.HasSuffix(chunk, " ") {
			t.Errorf("Chunk not trimmed: %q", chunk)
		}
	}
	if strings.Join(chunks, " ") != strings.TrimSpace(text) {
		t.Error("Chunks do not reassemble into the original text")
	}
}

func TestSplitText_UnbrokenRun(t *testing.T) {
	text := strings.Repeat("த", 250)

	chunks := splitText(text, maxChunkRunes)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 hard-cut chunks, got %d", len(chunks))
	}
	if utf8.RuneCountInString(chunks[2]) != 50 {
		t.Errorf("Expected last chunk of 50 runes, got %d", utf8.RuneCountInString(chunks[2]))
	}
}

func TestSplitText_DropsPunctuationOnly(t *testing.T) {
	chunks := splitText("Hi. . , ! -\n", maxChunkRunes)
	if len(chunks) != 1 || chunks[0] != "Hi." {
		t.Errorf("Expected only %q, got %q", "Hi.", chunks)
	}
}

func TestSplitText_JoinsHyphenatedLineBreaks(t *testing.T) {
	chunks := splitText("infor-\nmation", maxChunkRunes)
	if len(chunks) != 1 || chunks[0] != "information" {
		t.Errorf("Expected hyphenated word to be joined, got %q", chunks)
	}
}

func TestSplitText_KeepsNumbersAndAbbreviations(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Total 12.50 paid", []string{"Total 12.50 paid"}},
		{"Open 10:30 daily", []string{"Open 10:30 daily"}},
		{"Sum $1,234 due", []string{"Sum $1,234 due"}},
		{"Dr. Smith arrived.", []string{"Dr. Smith arrived."}},
		{"See e.g. the receipt.", []string{"See e.g. the receipt."}},
		{"Milk 2.50, bread 1.20. Thanks", []string{"Milk 2.50,", "bread 1.20.", "Thanks"}},
		{"Note: paid at 09:15", []string{"Note:", "paid at 09:15"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := splitText(tt.text, maxChunkRunes)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("splitText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
