package tts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxChunkRunes is the longest text the Google TTS endpoint speaks in one call
const maxChunkRunes = 100

// sentenceBreaks always end a chunk
const sentenceBreaks = "?!？！¡¿;。、，…\n"

// abbreviations keep their trailing period without ending a chunk
var abbreviations = map[string]bool{
	"dr": true, "jr": true, "mr": true, "mrs": true, "ms": true,
	"msgr": true, "prof": true, "sr": true, "st": true,
}

// splitText cuts text into chunks of at most limit runes, preferring sentence
// punctuation, then whitespace, and finally hard cuts for unbroken runs.
// Chunks made only of punctuation and spaces are dropped.
func splitText(text string, limit int) []string {
	text = strings.ReplaceAll(text, "-\n", "")

	var chunks []string
	for _, sentence := range splitSentences(text) {
		for _, piece := range minimize(sentence, limit) {
			piece = strings.TrimSpace(piece)
			if piece == "" || onlyPunctuation(piece) {
				continue
			}
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

func splitSentences(text string) []string {
	runes := []rune(text)

	var sentences []string
	start := 0
	for i := range runes {
		if !breaksAfter(runes, i) {
			continue
		}
		sentences = append(sentences, string(runes[start:i+1]))
		start = i + 1
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

// breaksAfter reports whether a chunk may end right after runes[i].
// Periods and commas only count before whitespace or the end of text, so
// "12.50" and "1,234" stay whole. A colon after a digit is a time like "10:30".
func breaksAfter(runes []rune, i int) bool {
	r := runes[i]
	switch r {
	case '.', ',':
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			return false
		}
		if r == '.' && (isAbbreviation(runes, i) || isInitialism(runes, i)) {
			return false
		}
		return true
	case ':':
		return i == 0 || !unicode.IsDigit(runes[i-1])
	default:
		return strings.ContainsRune(sentenceBreaks, r)
	}
}

// isAbbreviation reports whether the word ending at the period at i is a title like "Dr"
func isAbbreviation(runes []rune, i int) bool {
	start := i
	for start > 0 && unicode.IsLetter(runes[start-1]) {
		start--
	}
	return abbreviations[strings.ToLower(string(runes[start:i]))]
}

// isInitialism matches the last period of forms like "e.g." or "U.S."
func isInitialism(runes []rune, i int) bool {
	return i >= 2 && unicode.IsLetter(runes[i-1]) && runes[i-2] == '.'
}

// minimize splits s at the last space before limit until every piece fits
func minimize(s string, limit int) []string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return []string{s}
	}

	runes := []rune(s)
	cut := -1
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	if cut <= 0 {
		cut = limit
	}

	head := string(runes[:cut])
	tail := string(runes[cut:])
	return append([]string{head}, minimize(tail, limit)...)
}

func onlyPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSpace(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
