// Package models defines data structures shared by the fetcher passes.
package models

import "strings"

// NoImage is stored when the API does not return an image URL.
const NoImage = "N/A"

// TickerSeparator joins ticker lists in a single table cell.
const TickerSeparator = ", "

// ArticleRecord is one row of a symbol dataset. Content holds the raw detail
// payload and Extracted its cleaned text; both start empty.
type ArticleRecord struct {
	ID               string   `json:"id"`
	PublishDate      string   `json:"publishDate"`
	Title            string   `json:"title"`
	AuthorID         string   `json:"authorId"`
	CommentCount     int      `json:"commentCount"`
	PrimaryTickers   []string `json:"primaryTickers"`
	SecondaryTickers []string `json:"secondaryTickers"`
	ImageURL         string   `json:"imageUrl"`
	Content          string   `json:"content,omitempty"`
	Extracted        string   `json:"extracted,omitempty"`
}

// HasContent reports whether the raw payload was already fetched.
func (a *ArticleRecord) HasContent() bool {
	return strings.TrimSpace(a.Content) != ""
}

// JoinTickers renders a ticker list for a table cell.
func JoinTickers(tickers []string) string {
	return strings.Join(tickers, TickerSeparator)
}

// SplitTickers parses a table cell back into a ticker list.
func SplitTickers(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}

	parts := strings.Split(cell, ",")

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
