package ai

import (
	"strings"
	"testing"
)

func TestUnmarshalFlexible(t *testing.T) {
	type verdict struct {
		Label string  `json:"label"`
		Score float64 `json:"score,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  verdict
	}{
		{
			name:  "valid json object",
			input: `{"label":"NEGATIVE","score":0.91}`,
			want:  verdict{Label: "NEGATIVE", Score: 0.91},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{label: 'NEGATIVE'}`,
			want:  verdict{Label: "NEGATIVE"},
		},
		{
			name:  "trailing comma",
			input: `{"label":"NEUTRAL",}`,
			want:  verdict{Label: "NEUTRAL"},
		},
		{
			name:  "missing endbracket",
			input: `{"label":"POSITIVE"`,
			want:  verdict{Label: "POSITIVE"},
		},
		{
			name:  "double-encoded json string",
			input: `"{\"label\":\"NEGATIVE\"}"`,
			want:  verdict{Label: "NEGATIVE"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"label\": \"NEGATIVE\"\n}\n",
			want:  verdict{Label: "NEGATIVE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got verdict
			if err := UnmarshalFlexible(tt.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected result: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type verdict struct {
		Label string `json:"label"`
	}

	var out verdict
	if err := UnmarshalFlexible("hello", &out); err == nil {
		t.Fatal("expected error for unrecoverable input")
	}
}

func TestGenerateSchema(t *testing.T) {
	type verdict struct {
		Label string `json:"label" jsonschema:"enum=POSITIVE,enum=NEGATIVE,enum=NEUTRAL"`
	}

	schema := GenerateSchema(verdict{})
	if schema == nil {
		t.Fatal("expected schema, got nil")
	}

	ptrSchema := GenerateSchema(&verdict{})
	if ptrSchema == nil {
		t.Fatal("expected schema for pointer type, got nil")
	}
}

func TestStripDuplicateLeadingBrace(t *testing.T) {
	got := stripDuplicateLeadingBrace("{ { \"a\": 1 }")
	if !strings.HasPrefix(got, "{") || strings.HasPrefix(strings.TrimSpace(got[1:]), "{") {
		t.Fatalf("expected single leading brace, got %q", got)
	}
}
