package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Normalization gaps. Both are non-fatal: the record keeps an empty
// extracted text and the pass continues.
var (
	ErrNormalizationGap = errors.New("no extractable content")
	ErrContentAbsent    = fmt.Errorf("%w: content field absent or empty", ErrNormalizationGap)
	ErrMalformedPayload = fmt.Errorf("%w: malformed detail payload", ErrNormalizationGap)
)

// detailPayload mirrors the part of the get-details response we read.
type detailPayload struct {
	Data *struct {
		Attributes *struct {
			Content *string `json:"content"`
		} `json:"attributes"`
	} `json:"data"`
}

// Validator decodes a raw detail payload and checks that it carries content.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Content returns data.attributes.content from raw.
func (v *Validator) Content(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrContentAbsent
	}

	var payload detailPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if payload.Data == nil || payload.Data.Attributes == nil || payload.Data.Attributes.Content == nil {
		return "", ErrContentAbsent
	}

	content := *payload.Data.Attributes.Content
	if content == "" {
		return "", ErrContentAbsent
	}

	return content, nil
}
