// Package normalizer turns raw article detail payloads into clean body text.
package normalizer

import (
	"errors"

	"newsfetch/internal/models"
)

// Processor chains payload decoding and text cleanup.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

var defaultProcessor = NewProcessor()

// Normalize cleans a raw detail payload with the default processor.
func Normalize(raw string) (string, error) {
	return defaultProcessor.Normalize(raw)
}

// Normalize extracts and cleans the article body of raw. The result is a
// pure function of raw. Errors wrap ErrNormalizationGap.
func (p *Processor) Normalize(raw string) (string, error) {
	content, err := p.validator.Content(raw)
	if err != nil {
		return "", err
	}

	return p.transformer.Transform(content)
}

// Stats counts the outcomes of a Process call.
type Stats struct {
	Cleaned   int
	Absent    int
	Malformed []string
}

// Process fills Extracted for every record from its Content, in place.
// Records without usable content get an empty Extracted value.
func (p *Processor) Process(records []models.ArticleRecord) Stats {
	var stats Stats

	for i := range records {
		text, err := p.Normalize(records[i].Content)
		records[i].Extracted = text

		switch {
		case err == nil:
			stats.Cleaned++
		case errors.Is(err, ErrMalformedPayload):
			stats.Malformed = append(stats.Malformed, records[i].ID)
		default:
			stats.Absent++
		}
	}

	return stats
}
