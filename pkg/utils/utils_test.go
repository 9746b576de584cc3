package utils

import (
	"testing"
	"unicode/utf8"
)

func TestStringHelper_NormalizeWhitespace(t *testing.T) {
	s := NewStringHelper()

	got := s.NormalizeWhitespace("  Hello \n\t world  \r\n today ")
	if got != "Hello world today" {
		t.Errorf("NormalizeWhitespace = %q", got)
	}
}

func TestStringHelper_CutFrom(t *testing.T) {
	s := NewStringHelper()

	tests := []struct {
		in, marker, want string
	}{
		{"body. SA Transcripts more", "SA Transcripts", "body. "},
		{"no marker here", "SA Transcripts", "no marker here"},
		{"Editor's Note: all of it", "Editor's Note:", ""},
		{"a x b x c", "x", "a "},
	}

	for _, tt := range tests {
		if got := s.CutFrom(tt.in, tt.marker); got != tt.want {
			t.Errorf("CutFrom(%q, %q) = %q, want %q", tt.in, tt.marker, got, tt.want)
		}
	}
}

func TestStringHelper_TruncateString(t *testing.T) {
	s := NewStringHelper()

	if got := s.TruncateString("abcdef", 3); got != "abc..." {
		t.Errorf("TruncateString = %q", got)
	}

	if got := s.TruncateString("abc", 3); got != "abc" {
		t.Errorf("TruncateString = %q", got)
	}

	got := s.TruncateString("café crème", 4)
	if got != "café..." || !utf8.ValidString(got) {
		t.Errorf("TruncateString split a rune: %q", got)
	}
}

func TestHTTPHelper_BuildHeaders(t *testing.T) {
	h := NewHTTPHelper()

	headers := h.BuildHeaders(map[string]string{
		"x-rapidapi-key":  "secret",
		"x-rapidapi-host": "seeking-alpha.p.rapidapi.com",
	})

	if got := headers.Get("X-Rapidapi-Key"); got != "secret" {
		t.Errorf("key header = %q", got)
	}

	if got := headers.Get("X-Rapidapi-Host"); got != "seeking-alpha.p.rapidapi.com" {
		t.Errorf("host header = %q", got)
	}

	if got := headers.Get("User-Agent"); got != UserAgent {
		t.Errorf("User-Agent = %q", got)
	}
}
