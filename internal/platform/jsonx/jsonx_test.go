package jsonx

import "testing"

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "wrapped in prose",
			in:   "Sure, here is the plan:\n{\"a\":1}\nLet me know!",
			want: `{"a":1}`,
		},
		{
			name: "code fence",
			in:   "```json\n{\"a\": {\"b\": 2}}\n```",
			want: `{"a": {"b": 2}}`,
		},
		{
			name: "braces inside strings",
			in:   `prefix {"text":"use {curly} braces \" ok"} suffix`,
			want: `{"text":"use {curly} braces \" ok"}`,
		},
		{
			name: "returns first object only",
			in:   `{"first":true} {"second":true}`,
			want: `{"first":true}`,
		},
		{
			name:    "no object",
			in:      "I could not produce a plan for that.",
			wantErr: true,
		},
		{
			name:    "unbalanced",
			in:      `{"a": {"b": 1}`,
			wantErr: true,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractObject(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestDecodeObject(t *testing.T) {
	var out struct {
		Summary string `json:"summary"`
	}
	if err := DecodeObject("noise {\"summary\":\"lose 10kg\"} noise", &out); err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if out.Summary != "lose 10kg" {
		t.Fatalf("summary = %q", out.Summary)
	}

	if err := DecodeObject("{not json}", &out); err == nil {
		t.Fatalf("expected error for invalid JSON payload")
	}
}
