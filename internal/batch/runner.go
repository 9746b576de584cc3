// Package batch runs the list, content and extract passes over a symbol list.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"newsfetch/internal/dataset"
	"newsfetch/internal/logger"
	"newsfetch/internal/models"
	"newsfetch/internal/normalizer"
	"newsfetch/internal/seekingalpha"
	"newsfetch/internal/session"
	"newsfetch/pkg/utils"
)

// maxLoggedError bounds error text copied into the process log.
const maxLoggedError = 300

var (
	// ErrRunInProgress is returned when a run or reset is requested while
	// another run is active.
	ErrRunInProgress = errors.New("a batch run is already in progress")

	// ErrNoSymbols is returned when the symbol list is empty.
	ErrNoSymbols = errors.New("symbol list is empty")
)

// Source is the upstream news API.
type Source interface {
	HasCredential() bool
	ListArticles(ctx context.Context, symbol string, since, until time.Time) ([]models.ArticleRecord, error)
	FetchContent(ctx context.Context, articleID string) (string, error)
}

// Runner executes batch runs. At most one run is active at a time.
type Runner struct {
	source    Source
	store     *dataset.Store
	sessions  *session.Store
	processor *normalizer.Processor
	helper    *utils.StringHelper
	logger    *logger.Logger

	mu      sync.Mutex
	current *session.Run
	busy    bool
}

// NewRunner creates a runner. sessions may be nil, in which case runs are
// kept in memory only.
func NewRunner(source Source, store *dataset.Store, sessions *session.Store, log *logger.Logger) *Runner {
	return &Runner{
		source:    source,
		store:     store,
		sessions:  sessions,
		processor: normalizer.NewProcessor(),
		helper:    utils.NewStringHelper(),
		logger:    log,
	}
}

// Result summarizes one run.
type Result struct {
	RunID          string
	Symbols        int
	FailedSymbols  int
	Articles       int
	ContentFetched int
	ContentFailed  int
	Cleaned        int
	Absent         int
	Malformed      int
	Duration       time.Duration
}

// Run performs a full batch over symbols for the [since, until) window.
func (r *Runner) Run(ctx context.Context, symbols []string, since, until time.Time) (*Result, error) {
	run, err := r.Start(symbols, since, until)
	if err != nil {
		return nil, err
	}

	return r.Execute(ctx, run, symbols)
}

// Start checks the preconditions of a run and claims the runner. The
// returned run must be passed to Execute.
func (r *Runner) Start(symbols []string, since, until time.Time) (*session.Run, error) {
	if !r.source.HasCredential() {
		return nil, seekingalpha.ErrMissingCredential
	}

	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy {
		return nil, ErrRunInProgress
	}

	r.busy = true
	r.current = session.NewRun(since, until, r.logger)

	return r.current, nil
}

// Execute runs the three passes in order. Each pass finishes every symbol
// before the next one starts. Per-symbol and per-article failures are
// recorded in the run and do not stop the batch; only cancellation or a
// storage failure does.
func (r *Runner) Execute(ctx context.Context, run *session.Run, symbols []string) (*Result, error) {
	defer r.release()

	start := time.Now()
	result := &Result{RunID: run.ID(), Symbols: len(symbols)}

	since, until := run.Window()
	run.Infof("Starting run for %d symbols from %s to %s",
		len(symbols), since.Format(time.DateOnly), until.Format(time.DateOnly))

	err := r.execute(ctx, run, symbols, result)
	if err != nil {
		run.Errorf("Run stopped: %v", err)
	} else {
		run.Infof("Run complete in %v", time.Since(start).Round(time.Millisecond))
	}

	run.Finish()
	r.checkpoint(context.WithoutCancel(ctx), run)

	result.Duration = time.Since(start)

	return result, err
}

func (r *Runner) execute(ctx context.Context, run *session.Run, symbols []string, result *Result) error {
	if err := r.store.Ensure(); err != nil {
		return err
	}

	// Phase 1: listing
	if err := r.ListPass(ctx, run, symbols, result); err != nil {
		return err
	}

	r.checkpoint(ctx, run)

	// Phase 2: content
	if err := r.ContentPass(ctx, run, result); err != nil {
		return err
	}

	r.checkpoint(ctx, run)

	// Phase 3: extraction
	return r.ExtractPass(run, result)
}

func (r *Runner) release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.busy = false
}

// Busy reports whether a run is active.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.busy
}

// Latest returns the state of the current or last run, or nil when there
// has been none since the last reset.
func (r *Runner) Latest(ctx context.Context) (*session.Snapshot, error) {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()

	if current != nil {
		snap := current.Snapshot()
		return &snap, nil
	}

	if r.sessions == nil {
		return nil, nil
	}

	return r.sessions.Latest(ctx)
}

// Reset deletes every table and clears the status table and process log.
func (r *Runner) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.busy {
		return ErrRunInProgress
	}

	if err := r.store.Reset(); err != nil {
		return err
	}

	if r.sessions != nil {
		if err := r.sessions.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}
	}

	r.current = nil
	r.logger.Info("Output directory and session state reset", "dir", r.store.Dir())

	return nil
}

func (r *Runner) checkpoint(ctx context.Context, run *session.Run) {
	if r.sessions == nil {
		return
	}

	if err := r.sessions.Save(ctx, run.Snapshot()); err != nil {
		r.logger.Warn("Failed to save session", "run_id", run.ID(), "error", err)
	}
}

func (r *Runner) errorText(err error) string {
	return r.helper.TruncateString(err.Error(), maxLoggedError)
}
