package models

import (
	"reflect"
	"testing"
)

func TestSplitTickers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "146", []string{"146"}},
		{"joined", "146, 1534", []string{"146", "1534"}},
		{"loose spacing", " 146 ,1534,, ", []string{"146", "1534"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTickers(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTickers(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinTickers_RoundTrip(t *testing.T) {
	in := []string{"AAPL", "MSFT"}

	if got := JoinTickers(in); got != "AAPL, MSFT" {
		t.Fatalf("JoinTickers = %q", got)
	}

	if got := SplitTickers(JoinTickers(in)); !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %v", got)
	}
}

func TestSymbolStatus_Count(t *testing.T) {
	if got := (SymbolStatus{Symbol: "AAPL", Articles: 12}).Count(); got != "12" {
		t.Errorf("Count = %q, want 12", got)
	}

	if got := (SymbolStatus{Symbol: "AAPL", Failed: true}).Count(); got != APIErrorMarker {
		t.Errorf("Count = %q, want %q", got, APIErrorMarker)
	}
}

func TestArticleRecord_HasContent(t *testing.T) {
	if (&ArticleRecord{Content: "  "}).HasContent() {
		t.Error("blank content should count as missing")
	}

	if !(&ArticleRecord{Content: `{"data":{}}`}).HasContent() {
		t.Error("payload should count as present")
	}
}
