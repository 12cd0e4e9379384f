package services

import (
	"html"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestFormatWrappers(t *testing.T) {
	tests := []struct {
		name     string
		format   func(string) string
		input    string
		expected string
	}{
		{"bold", FormatBold, "Q1: What is Java?", "<b>Q1: What is Java?</b>"},
		{"bold escapes", FormatBold, "List<T> & Map", "<b>List&lt;T&gt; &amp; Map</b>"},
		{"italic", FormatItalic, "<script>", "<i>&lt;script&gt;</i>"},
		{"code", FormatCode, "/start abc", "<pre>/start abc</pre>"},
		{"quote trims", FormatQuote, "  it's fine \n", "<blockquote>it&#39;s fine</blockquote>"},
		{"empty", FormatBold, "", "<b></b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProperty_EscapeRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")

		escaped := Escape(text)

		if strings.ContainsAny(escaped, "<>\"'") {
			t.Fatalf("escaped text %q still contains markup characters", escaped)
		}
		if html.UnescapeString(escaped) != text {
			t.Fatalf("unescape(escape(%q)) = %q", text, html.UnescapeString(escaped))
		}
		if bold := FormatBold(text); !strings.HasPrefix(bold, "<b>") || !strings.Contains(bold, escaped) {
			t.Fatalf("bold %q does not wrap %q", bold, escaped)
		}
	})
}
