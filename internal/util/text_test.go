package util

import "testing"

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{
			name:     "short text untouched",
			input:    "quick call",
			maxRunes: 100,
			want:     "quick call",
		},
		{
			name:     "long text truncated",
			input:    "aaaaaaaaaa",
			maxRunes: 4,
			want:     "aaaa...",
		},
		{
			name:     "whitespace trimmed",
			input:    "  padded  ",
			maxRunes: 100,
			want:     "padded",
		},
		{
			name:     "multibyte runes kept whole",
			input:    "ééééé",
			maxRunes: 3,
			want:     "ééé...",
		},
		{
			name:     "zero budget",
			input:    "anything",
			maxRunes: 0,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Excerpt(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Fatalf("unexpected excerpt: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("one\n two\t\tthree  ")
	if got != "one two three" {
		t.Fatalf("unexpected collapsed text: got %q", got)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "single sentence",
			input: "Meet me at noon.",
			want:  "Meet me at noon.",
		},
		{
			name:  "two sentences keep first",
			input: "Meet me at noon. Bring the cash.",
			want:  "Meet me at noon.",
		},
		{
			name:  "long text keeps first and last",
			input: "Meet me at noon. Bring the cash. Use the back door.",
			want:  "Meet me at noon. [...] Use the back door.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected summary: got %q, want %q", got, tt.want)
			}
		})
	}
}
