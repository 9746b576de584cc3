package session

import (
	"testing"
	"time"

	"newsfetch/internal/logger"
	"newsfetch/internal/models"
)

func window() (time.Time, time.Time) {
	since := time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)
	return since, since.AddDate(0, 0, 30)
}

func TestRun_AppendsStatusAndLog(t *testing.T) {
	since, until := window()
	run := NewRun(since, until, logger.Discard())

	if run.ID() == "" {
		t.Fatal("Expected run ID")
	}

	run.Infof("listing %s", "AAPL")
	run.RecordStatus(models.SymbolStatus{Symbol: "AAPL", Articles: 2})
	run.RecordStatus(models.SymbolStatus{Symbol: "MSFT", Failed: true})
	run.Errorf("listing %s failed", "MSFT")

	snap := run.Snapshot()
	if len(snap.Status) != 2 || snap.Status[1].Count() != models.APIErrorMarker {
		t.Errorf("status = %+v", snap.Status)
	}

	if len(snap.Log) != 2 {
		t.Fatalf("log = %+v", snap.Log)
	}

	if snap.Log[0].Message != "listing AAPL" || snap.Log[0].Level != models.LevelInfo {
		t.Errorf("log[0] = %+v", snap.Log[0])
	}

	if snap.Log[1].Level != models.LevelError {
		t.Errorf("log[1] level = %s", snap.Log[1].Level)
	}

	if snap.Finished() {
		t.Error("run should not be finished yet")
	}

	run.Finish()

	finished := run.Snapshot()
	if !finished.Finished() {
		t.Error("run should be finished")
	}
}

func TestRun_SnapshotIsCopy(t *testing.T) {
	since, until := window()
	run := NewRun(since, until, logger.Discard())
	run.RecordStatus(models.SymbolStatus{Symbol: "AAPL", Articles: 1})

	snap := run.Snapshot()
	snap.Status[0].Articles = 99

	if got := run.Snapshot().Status[0].Articles; got != 1 {
		t.Errorf("snapshot mutation leaked into run: %d", got)
	}
}
