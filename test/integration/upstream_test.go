package integration

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"newsfetch/internal/config"
)

const expectedExtract = "Apple (NASDAQ:AAPL) shares rose 2% hit a record. The company reported strong iPhone demand."

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	content, err := os.ReadFile(filepath.Join("..", "fixtures", name))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	return content
}

// upstream replays the recorded fixtures. Article 4012346 always fails.
type upstream struct {
	*httptest.Server

	mu      sync.Mutex
	details []string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	listPage := readFixture(t, "list_page.json")
	detail := readFixture(t, "detail.json")

	u := &upstream{}

	mux := http.NewServeMux()
	mux.HandleFunc("/news/v2/list-by-symbol", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("id") == "AAPL" && r.URL.Query().Get("number") == "1" {
			w.Write(listPage)
			return
		}

		w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/news/get-details", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")

		u.mu.Lock()
		u.details = append(u.details, id)
		u.mu.Unlock()

		if id != "4012345" {
			http.Error(w, `{"message":"Too many requests"}`, http.StatusTooManyRequests)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(detail)
	})

	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)

	return u
}

func (u *upstream) detailRequests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	return append([]string{}, u.details...)
}

// loadConfig writes a YAML config pointing at the upstream and loads it.
func loadConfig(t *testing.T, u *upstream) *config.Config {
	t.Helper()

	dir := t.TempDir()
	yaml := `
api:
  base_url: ` + u.URL + `
  key: integration-key
  pacing_ms: 1
  timeout_sec: 5
output:
  dir: ` + filepath.Join(dir, "out") + `
session:
  db_path: ` + filepath.Join(dir, "session.db") + `
window:
  from: "2023-10-01"
  to: "2023-10-31"
`

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	return cfg
}
