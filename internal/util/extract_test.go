package util

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "plain object",
			input: `{"is_visible": true}`,
			want:  `{"is_visible": true}`,
			ok:    true,
		},
		{
			name:  "object wrapped in prose",
			input: "Sure, here is the analysis:\n{\"is_visible\": false}\nLet me know if you need more.",
			want:  `{"is_visible": false}`,
			ok:    true,
		},
		{
			name:  "fenced json block",
			input: "```json\n{\"sentiment_score\": 0.4}\n```",
			want:  `{"sentiment_score": 0.4}`,
			ok:    true,
		},
		{
			name:  "nested objects stay balanced",
			input: `prefix {"a": {"b": {"c": 1}}} suffix`,
			want:  `{"a": {"b": {"c": 1}}}`,
			ok:    true,
		},
		{
			name:  "braces inside strings are ignored",
			input: `{"note": "use {curly} braces", "ok": true}`,
			want:  `{"note": "use {curly} braces", "ok": true}`,
			ok:    true,
		},
		{
			name:  "escaped quote inside string",
			input: `{"note": "she said \"hi\" {", "ok": true}`,
			want:  `{"note": "she said \"hi\" {", "ok": true}`,
			ok:    true,
		},
		{
			name:  "no object at all",
			input: "I cannot answer that.",
			ok:    false,
		},
		{
			name:  "unterminated object",
			input: `{"is_visible": true`,
			ok:    false,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
