// Package satest provides an in-process fake of the news API for tests.
package satest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// Item is one entry of a list-by-symbol page.
type Item struct {
	ID        string
	Title     string
	PublishOn string
	AuthorID  string
	Comments  int
	Primary   []string
	Secondary []string
	Image     string
}

// Server is a fake upstream. Pages and details can be changed between runs.
type Server struct {
	*httptest.Server

	mu sync.Mutex
	// Pages holds the pages per symbol; page N is Pages[symbol][N-1].
	Pages map[string][][]Item
	// Details holds the get-details body per article ID.
	Details map[string]string
	// FailSymbols answers every list request for these symbols with 500.
	FailSymbols map[string]bool
	// FailPages answers page N of a symbol's listing with 500; earlier
	// pages are served normally.
	FailPages map[string]int
	// RawPages replaces every list page of a symbol with a fixed body.
	RawPages map[string]string
	// FailDetails answers detail requests for these IDs with 500.
	FailDetails map[string]bool

	Requests       []string
	DetailRequests []string
	Keys           []string
}

// NewServer starts a fake upstream.
func NewServer() *Server {
	s := &Server{
		Pages:       map[string][][]Item{},
		Details:     map[string]string{},
		FailSymbols: map[string]bool{},
		FailPages:   map[string]int{},
		RawPages:    map[string]string{},
		FailDetails: map[string]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/news/v2/list-by-symbol", s.list)
	mux.HandleFunc("/news/get-details", s.detail)
	s.Server = httptest.NewServer(mux)

	return s
}

// DetailCount returns how many detail requests were served.
func (s *Server) DetailCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.DetailRequests)
}

// Payload builds a get-details body with the given content.
func Payload(id, content string) string {
	body, _ := json.Marshal(map[string]any{
		"data": map[string]any{
			"id":         id,
			"type":       "news",
			"attributes": map[string]any{"content": content},
		},
	})

	return string(body)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	s.Requests = append(s.Requests, r.URL.RawQuery)
	s.Keys = append(s.Keys, r.Header.Get("x-rapidapi-key"))

	symbol := q.Get("id")
	if s.FailSymbols[symbol] {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		return
	}

	page, _ := strconv.Atoi(q.Get("number"))
	if n, ok := s.FailPages[symbol]; ok && page == n {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
		return
	}

	if body, ok := s.RawPages[symbol]; ok {
		_, _ = w.Write([]byte(body))
		return
	}

	var items []Item
	if pages := s.Pages[symbol]; page >= 1 && page <= len(pages) {
		items = pages[page-1]
	}

	data := make([]map[string]any, 0, len(items))
	for _, it := range items {
		data = append(data, encodeItem(it))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (s *Server) detail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := r.URL.Query().Get("id")
	s.DetailRequests = append(s.DetailRequests, id)

	if s.FailDetails[id] {
		http.Error(w, "upstream error", http.StatusInternalServerError)
		return
	}

	body, ok := s.Details[id]
	if !ok {
		body = Payload(id, fmt.Sprintf("<p>Body of %s.</p>", id))
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func encodeItem(it Item) map[string]any {
	refs := func(ids []string) map[string]any {
		data := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			data = append(data, map[string]any{"id": id, "type": "tag"})
		}

		return map[string]any{"data": data}
	}

	attrs := map[string]any{
		"publishOn":    it.PublishOn,
		"title":        it.Title,
		"commentCount": it.Comments,
	}
	if it.Image != "" {
		attrs["gettyImageUrl"] = it.Image
	}

	return map[string]any{
		"id":         it.ID,
		"type":       "news",
		"attributes": attrs,
		"relationships": map[string]any{
			"author":           map[string]any{"data": map[string]any{"id": it.AuthorID, "type": "author"}},
			"primaryTickers":   refs(it.Primary),
			"secondaryTickers": refs(it.Secondary),
		},
	}
}
