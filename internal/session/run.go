// Package session holds the state of a batch run: its window, the per-symbol
// status table and the process log shown to the operator.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsfetch/internal/logger"
	"newsfetch/internal/models"
)

// Snapshot is a copy of a run's state, safe to hand out.
type Snapshot struct {
	ID         string                `json:"id"`
	Since      time.Time             `json:"since"`
	Until      time.Time             `json:"until"`
	StartedAt  time.Time             `json:"startedAt"`
	FinishedAt time.Time             `json:"finishedAt"`
	Status     []models.SymbolStatus `json:"status"`
	Log        []models.LogEntry     `json:"log"`
}

// Finished reports whether the run has ended.
func (s *Snapshot) Finished() bool {
	return !s.FinishedAt.IsZero()
}

// Run is the context passed through every pass of one batch run. The
// status table and log are append-only. A run may be read while it is
// being written, e.g. by the HTTP status endpoint.
type Run struct {
	mu    sync.Mutex
	state Snapshot
	log   *logger.Logger
	now   func() time.Time
}

// NewRun starts a run over the [since, until) window.
func NewRun(since, until time.Time, log *logger.Logger) *Run {
	id := uuid.NewString()

	r := &Run{
		log: log.With("run_id", id),
		now: time.Now,
	}

	r.state = Snapshot{
		ID:        id,
		Since:     since,
		Until:     until,
		StartedAt: r.now(),
		Status:    []models.SymbolStatus{},
		Log:       []models.LogEntry{},
	}

	return r
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.state.ID
}

// Window returns the publish-date window of the run.
func (r *Run) Window() (time.Time, time.Time) {
	return r.state.Since, r.state.Until
}

// Logger returns the run's logger.
func (r *Run) Logger() *logger.Logger {
	return r.log
}

// Infof appends an info line to the process log.
func (r *Run) Infof(format string, args ...any) {
	r.append(models.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf appends a warning line to the process log.
func (r *Run) Warnf(format string, args ...any) {
	r.append(models.LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf appends an error line to the process log.
func (r *Run) Errorf(format string, args ...any) {
	r.append(models.LevelError, fmt.Sprintf(format, args...))
}

func (r *Run) append(level models.LogLevel, msg string) {
	r.mu.Lock()
	r.state.Log = append(r.state.Log, models.LogEntry{Time: r.now(), Level: level, Message: msg})
	r.mu.Unlock()

	switch level {
	case models.LevelError:
		r.log.Error(msg)
	case models.LevelWarn:
		r.log.Warn(msg)
	default:
		r.log.Info(msg)
	}
}

// RecordStatus adds a row to the status table.
func (r *Run) RecordStatus(status models.SymbolStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Status = append(r.state.Status, status)
}

// Finish marks the run as ended.
func (r *Run) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.FinishedAt = r.now()
}

// Snapshot returns a copy of the current state.
func (r *Run) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	s.Status = append([]models.SymbolStatus{}, r.state.Status...)
	s.Log = append([]models.LogEntry{}, r.state.Log...)

	return s
}
