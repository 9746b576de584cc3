package models

import (
	"strconv"
	"time"
)

// APIErrorMarker replaces the article count of a symbol whose listing failed.
const APIErrorMarker = "API Error"

// SymbolStatus is one row of the per-run summary table.
type SymbolStatus struct {
	Symbol   string `json:"symbol"`
	Articles int    `json:"articles"`
	Failed   bool   `json:"failed"`
}

// Count renders the article count, or the API error marker.
func (s SymbolStatus) Count() string {
	if s.Failed {
		return APIErrorMarker
	}

	return strconv.Itoa(s.Articles)
}

// LogLevel classifies process log entries.
type LogLevel string

// Process log levels.
const (
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogEntry is one line of the process log shown to the operator.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   LogLevel  `json:"level"`
	Message string    `json:"message"`
}
