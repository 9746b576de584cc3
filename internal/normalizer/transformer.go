package normalizer

import (
	"regexp"
	"strings"

	"newsfetch/pkg/utils"
)

// Markers that open the trailing "continue reading" block of an article.
var continuationMarkers = []string{
	"More on",
	"Read more",
	"See also",
	"Learn more",
	"Related articles",
	"This article was",
	"Original post",
}

// Literal suffixes cut from the cleaned text, in this order.
var trailingBlocks = []string{
	"Editor's Note:",
	"SA Transcripts",
}

// nonWord matches one character that is not a letter, digit or underscore
// in any script, so a marker glued to a word is not a marker.
const nonWord = `[^\p{L}\p{N}_]`

// Transformer applies the text cleanup rules to extracted content.
type Transformer struct {
	markupPattern  *regexp.Regexp
	spaceEntity    *regexp.Regexp
	markerPatterns []*regexp.Regexp
	helper         *utils.StringHelper
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	markers := make([]*regexp.Regexp, 0, len(continuationMarkers))
	for _, m := range continuationMarkers {
		markers = append(markers, regexp.MustCompile(`(?i)(?:^|`+nonWord+`)(`+regexp.QuoteMeta(m)+`)(?:`+nonWord+`|$)`))
	}

	return &Transformer{
		markupPattern:  regexp.MustCompile(`<.*?>|&([a-z0-9]+|#[0-9]{1,6}|#x[0-9a-f]{1,6});`),
		spaceEntity:    regexp.MustCompile(`&(nbsp|ensp|emsp|thinsp|#160|#x[aA]0);`),
		markerPatterns: markers,
		helper:         utils.NewStringHelper(),
	}
}

// StripMarkup deletes tags and character references. Non-breaking space
// references become a plain space so the words around them stay apart.
func (t *Transformer) StripMarkup(s string) string {
	s = t.spaceEntity.ReplaceAllString(s, " ")

	return t.markupPattern.ReplaceAllString(s, "")
}

// CollapseWhitespace turns every whitespace run into one space and trims.
func (t *Transformer) CollapseWhitespace(s string) string {
	return t.helper.NormalizeWhitespace(s)
}

// MarkerOffset returns the earliest start of any continuation marker, or -1.
func (t *Transformer) MarkerOffset(s string) int {
	earliest := -1

	for _, re := range t.markerPatterns {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}

		if earliest < 0 || loc[2] < earliest {
			earliest = loc[2]
		}
	}

	return earliest
}

// TruncateAtMarker cuts s right before the earliest continuation marker.
func (t *Transformer) TruncateAtMarker(s string) string {
	if i := t.MarkerOffset(s); i >= 0 {
		return s[:i]
	}

	return s
}

// StripTrailingBlocks removes editorial notes and transcript promos.
func (t *Transformer) StripTrailingBlocks(s string) string {
	for _, block := range trailingBlocks {
		s = t.helper.CutFrom(s, block)
	}

	return s
}

// Transform runs the cleanup rules over already extracted content. It
// returns ErrContentAbsent when nothing is left after whitespace collapsing.
//
// Cutting a trailing block can expose a marker at the new end of the text,
// so the cuts repeat until the text stops changing.
func (t *Transformer) Transform(content string) (string, error) {
	text := t.CollapseWhitespace(t.StripMarkup(content))
	if text == "" {
		return "", ErrContentAbsent
	}

	for {
		cut := strings.TrimSpace(t.StripTrailingBlocks(t.TruncateAtMarker(text)))
		if cut == text {
			return text, nil
		}

		text = cut
	}
}
