package normalizer

import (
	"encoding/json"
	"errors"
	"testing"

	"newsfetch/internal/models"
)

// payload wraps content the way the get-details endpoint does.
func payload(t *testing.T, content string) string {
	t.Helper()

	raw, err := json.Marshal(map[string]any{
		"data": map[string]any{
			"id":         "4123",
			"attributes": map[string]any{"content": content},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	return string(raw)
}

func TestNormalize_Examples(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "tags entities and read more",
			content: "<p>Hello <b>world</b>&nbsp;today. Read more at XYZ.",
			want:    "Hello world today.",
		},
		{
			name:    "editor's note",
			content: "...end of article. Editor's Note: this post has been updated.",
			want:    "...end of article.",
		},
		{
			name:    "transcripts promo",
			content: "<p>Q3 results were strong.</p><p>SA Transcripts offers full calls.</p>",
			want:    "Q3 results were strong.",
		},
		{
			name:    "earliest marker wins",
			content: "Body text. See also: peers. More on AAPL here.",
			want:    "Body text.",
		},
		{
			name:    "case insensitive marker",
			content: "Body text. READ MORE below",
			want:    "Body text.",
		},
		{
			name:    "marker must be whole words",
			content: "We learned moreover that Seesaw also moved.",
			want:    "We learned moreover that Seesaw also moved.",
		},
		{
			name:    "numeric and hex entities deleted",
			content: "A&#38;B &#x26; C&amp;D",
			want:    "AB CD",
		},
		{
			name:    "newlines collapse",
			content: "<p>Line one\n\n</p>\n<p>  Line   two</p>",
			want:    "Line one Line two",
		},
		{
			name:    "note before marker still removed",
			content: "Story. Editor's Note: fixed typo. This article was written by X.",
			want:    "Story.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(payload(t, tt.content))
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Normalize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_Gaps(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty blob", "", ErrContentAbsent},
		{"blank blob", "   ", ErrContentAbsent},
		{"not json", "<html>rate limited</html>", ErrMalformedPayload},
		{"json array", `[1,2,3]`, ErrMalformedPayload},
		{"content wrong type", `{"data":{"attributes":{"content":42}}}`, ErrMalformedPayload},
		{"no data", `{"errors":[{"status":"404"}]}`, ErrContentAbsent},
		{"no attributes", `{"data":{"id":"1"}}`, ErrContentAbsent},
		{"empty content", `{"data":{"attributes":{"content":""}}}`, ErrContentAbsent},
		{"content only markup", `{"data":{"attributes":{"content":"<p> </p>&nbsp;<br/>"}}}`, ErrContentAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if got != "" {
				t.Errorf("Expected empty result, got %q", got)
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}

			if !errors.Is(err, ErrNormalizationGap) {
				t.Errorf("Expected gap error, got %v", err)
			}
		})
	}
}

func TestNormalize_DeterministicAndIdempotent(t *testing.T) {
	raw := payload(t, "<div><p>Apple&nbsp;shares rose.</p>\n<p>Analysts were upbeat.</p> Learn more about AAPL.</div>")

	first, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	second, _ := Normalize(raw)
	if first != second {
		t.Fatalf("Normalize is not deterministic: %q vs %q", first, second)
	}

	again, err := Normalize(payload(t, first))
	if err != nil {
		t.Fatalf("Normalize on cleaned text failed: %v", err)
	}

	if again != first {
		t.Errorf("Normalize is not idempotent: %q -> %q", first, again)
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor()

	records := []models.ArticleRecord{
		{ID: "1", Content: payload(t, "<p>First body.</p>")},
		{ID: "2", Content: ""},
		{ID: "3", Content: "not json"},
		{ID: "4", Content: payload(t, "Second body. Original post on blog.")},
	}

	stats := p.Process(records)

	if stats.Cleaned != 2 {
		t.Errorf("Cleaned = %d, want 2", stats.Cleaned)
	}

	if stats.Absent != 1 {
		t.Errorf("Absent = %d, want 1", stats.Absent)
	}

	if len(stats.Malformed) != 1 || stats.Malformed[0] != "3" {
		t.Errorf("Malformed = %v, want [3]", stats.Malformed)
	}

	want := []string{"First body.", "", "", "Second body."}
	for i, w := range want {
		if records[i].Extracted != w {
			t.Errorf("records[%d].Extracted = %q, want %q", i, records[i].Extracted, w)
		}
	}
}
