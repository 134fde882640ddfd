package jsonx

import (
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantOk  bool
	}{
		{
			name:   "bare object",
			text:   `{"a": 1}`,
			want:   `{"a": 1}`,
			wantOk: true,
		},
		{
			name:   "object wrapped in prose",
			text:   "Sure! Here is the JSON you asked for: {\"a\": 1} Hope it helps.",
			want:   `{"a": 1}`,
			wantOk: true,
		},
		{
			name:   "markdown fenced",
			text:   "```json\n{\"a\": 1}\n```",
			want:   "{\"a\": 1}",
			wantOk: true,
		},
		{
			name:   "nested objects",
			text:   `{"a": {"b": {"c": 2}}} trailing`,
			want:   `{"a": {"b": {"c": 2}}}`,
			wantOk: true,
		},
		{
			name:   "braces inside strings",
			text:   `{"a": "}{", "b": "\" {"}`,
			want:   `{"a": "}{", "b": "\" {"}`,
			wantOk: true,
		},
		{
			name:   "no object at all",
			text:   "the model refused to answer",
			wantOk: false,
		},
		{
			name:   "unbalanced",
			text:   `{"a": {"b": 1}`,
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.text)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeObject(t *testing.T) {
	var out struct {
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	}

	err := DecodeObject("the grade is ```json\n{\"score\": 72, \"reason\": \"close match\"}\n```", &out)
	if err != nil {
		t.Fatalf("DecodeObject returned error: %v", err)
	}
	if out.Score != 72 || out.Reason != "close match" {
		t.Errorf("decoded %+v", out)
	}

	if err := DecodeObject("no json here", &out); err == nil {
		t.Error("expected error for text without JSON")
	}
	if err := DecodeObject(`{"score": "not a number"}`, &out); err == nil {
		t.Error("expected error for mismatched types")
	}
}
