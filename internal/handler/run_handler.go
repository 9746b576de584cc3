// Package handler exposes batch runs and their output over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"newsfetch/internal/batch"
	"newsfetch/internal/config"
	"newsfetch/internal/formatter"
	"newsfetch/internal/logger"
	"newsfetch/internal/seekingalpha"
	"newsfetch/internal/session"
)

// Runner starts, inspects and resets batch runs.
type Runner interface {
	Start(symbols []string, since, until time.Time) (*session.Run, error)
	Execute(ctx context.Context, run *session.Run, symbols []string) (*batch.Result, error)
	Latest(ctx context.Context) (*session.Snapshot, error)
	Reset(ctx context.Context) error
	Busy() bool
}

// SymbolSource returns the default symbol list.
type SymbolSource func() ([]string, error)

// RunHandler serves the run endpoints. Runs execute in the background on
// baseCtx, which outlives the request that started them.
type RunHandler struct {
	runner  Runner
	symbols SymbolSource
	window  config.WindowConfig
	baseCtx context.Context
	log     *logger.Logger
	wg      sync.WaitGroup
}

// NewRunHandler creates a run handler. window supplies the dates used when a
// request does not name them.
func NewRunHandler(baseCtx context.Context, runner Runner, symbols SymbolSource, window config.WindowConfig, log *logger.Logger) *RunHandler {
	return &RunHandler{
		runner:  runner,
		symbols: symbols,
		window:  window,
		baseCtx: baseCtx,
		log:     log,
	}
}

// StartRunRequest is the optional body of POST /runs.
type StartRunRequest struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Symbols []string `json:"symbols"`
}

// StartRunResponse is returned when a run was accepted.
type StartRunResponse struct {
	RunID string    `json:"runId"`
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Running bool              `json:"running"`
	Run     *session.Snapshot `json:"run"`
	Table   string            `json:"table"`
}

// StartRun validates the request and starts a run in the background.
func (h *RunHandler) StartRun(c *gin.Context) {
	var req StartRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	window := h.window
	if req.From != "" {
		window.From = req.From
	}

	if req.To != "" {
		window.To = req.To
	}

	since, until, err := window.Bounds()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		if symbols, err = h.symbols(); err != nil {
			h.log.Error("error reading symbol list", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read symbol list"})
			return
		}
	}

	run, err := h.runner.Start(symbols, since, until)

	switch {
	case errors.Is(err, batch.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, seekingalpha.ErrMissingCredential):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Please provide API key"})
		return
	case errors.Is(err, batch.ErrNoSymbols):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error("error starting run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not start run"})
		return
	}

	h.wg.Add(1)

	go func() {
		defer h.wg.Done()

		if _, err := h.runner.Execute(h.baseCtx, run, symbols); err != nil {
			h.log.Error("run stopped", "run_id", run.ID(), "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, StartRunResponse{RunID: run.ID(), Since: since, Until: until})
}

// Wait blocks until every background run has returned.
func (h *RunHandler) Wait() {
	h.wg.Wait()
}

// GetStatus returns the status table and process log of the latest run.
func (h *RunHandler) GetStatus(c *gin.Context) {
	snap, err := h.runner.Latest(c.Request.Context())
	if err != nil {
		h.log.Error("error loading session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session store error"})
		return
	}

	res := StatusResponse{Running: h.runner.Busy(), Run: snap}
	if snap != nil {
		res.Table = formatter.StatusTable(snap.Status)
	}

	c.JSON(http.StatusOK, res)
}

// Reset wipes the output directory and the session state.
func (h *RunHandler) Reset(c *gin.Context) {
	err := h.runner.Reset(c.Request.Context())
	if errors.Is(err, batch.ErrRunInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err != nil {
		h.log.Error("error resetting", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// GetHealth reports liveness.
func (h *RunHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"running": h.runner.Busy(),
	})
}
