package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"newsfetch/internal/batch"
	"newsfetch/internal/dataset"
	"newsfetch/internal/handler"
	"newsfetch/internal/logger"
	"newsfetch/internal/seekingalpha"
	"newsfetch/internal/session"
)

func TestAPIFlow_RunThenDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	u := newUpstream(t)
	cfg := loadConfig(t, u)

	sessions, err := session.OpenStore(cfg.Session.DBPath)
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	defer sessions.Close()

	log := logger.Discard()
	store := dataset.NewStore(cfg.Output.Dir)
	runner := batch.NewRunner(seekingalpha.NewClient(&cfg.API), store, sessions, log)

	symbols := func() ([]string, error) { return []string{"AAPL"}, nil }
	runs := handler.NewRunHandler(context.Background(), runner, symbols, cfg.Window, log)
	router := handler.NewRouter(runs, handler.NewFileHandler(store, log), nil)

	do := func(method, target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, target, nil))

		return w
	}

	if w := do("POST", "/runs"); w.Code != http.StatusAccepted {
		t.Fatalf("POST /runs = %d: %s", w.Code, w.Body.String())
	}

	runs.Wait()

	w := do("GET", "/status")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /status = %d", w.Code)
	}

	var status handler.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Invalid status body: %v", err)
	}

	if status.Running || status.Run == nil || !status.Run.Finished() {
		t.Fatalf("Expected a finished run, got %+v", status)
	}

	if !strings.Contains(status.Table, "| AAPL   | 2        |") {
		t.Errorf("Unexpected status table:\n%s", status.Table)
	}

	w = do("GET", "/files/aapl_news_data.csv")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /files/aapl_news_data.csv = %d", w.Code)
	}

	if !strings.Contains(w.Body.String(), expectedExtract) {
		t.Errorf("Downloaded table misses the extracted text:\n%s", w.Body.String())
	}

	if w := do("POST", "/reset"); w.Code != http.StatusOK {
		t.Fatalf("POST /reset = %d", w.Code)
	}

	if w := do("GET", "/files"); w.Body.String() != "[]" {
		t.Errorf("Expected no files after reset, got %s", w.Body.String())
	}
}
