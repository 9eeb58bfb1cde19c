package util

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Excerpt returns the first maxRunes runes of s, appending "..." when the
// text was cut. Leading and trailing whitespace is trimmed first.
func Excerpt(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// CollapseWhitespace replaces runs of whitespace (including newlines) with a
// single space.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Summarize produces a short summary of a transcript: its first sentence,
// and for longer texts the first and last sentences joined by an ellipsis.
func Summarize(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= 2 {
		return sentences[0]
	}
	return sentences[0] + " [...] " + sentences[len(sentences)-1]
}

func splitSentences(text string) []string {
	text = CollapseWhitespace(text)
	if text == "" {
		return nil
	}

	var out []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			s := strings.TrimSpace(b.String())
			if s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func ConvertStructToJson(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
