package scheduler

import (
	"sync"
	"testing"
	"time"
)

func TestScheduleAndStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	defer s.Stop()

	if !s.Next().IsZero() {
		t.Error("Expected no next run before scheduling")
	}

	if err := s.Schedule("0 6 * * 1-5", func() {}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	s.Start()

	if entries := s.cron.Entries(); len(entries) != 1 {
		t.Errorf("expected 1 cron entry, got %d", len(entries))
	}

	next := s.Next()
	if next.IsZero() || next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("unexpected next run: %v", next)
	}

	if wd := next.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.Errorf("next run on weekend: %v", next)
	}
}

func TestScheduleReplacesJob(t *testing.T) {
	s := NewScheduler(time.UTC)
	defer s.Stop()

	if err := s.Schedule("0 6 * * *", func() {}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if err := s.Schedule("30 18 * * *", func() {}); err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if entries := s.cron.Entries(); len(entries) != 1 {
		t.Errorf("expected 1 cron entry, got %d", len(entries))
	}
}

func TestStopWaitsForRunningJob(t *testing.T) {
	s := NewScheduler(time.UTC)

	started := make(chan struct{})
	release := make(chan struct{})

	var once sync.Once

	err := s.Schedule("@every 1s", func() {
		once.Do(func() { close(started) })
		<-release
	})
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	s.Start()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never fired")
	}

	done := s.Stop()

	select {
	case <-done.Done():
		t.Fatal("Stop returned done while the job was still running")
	default:
	}

	close(release)

	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Stop never reported the job finished")
	}

	select {
	case <-s.Stop().Done():
	default:
		t.Error("Stop on a stopped scheduler should be done at once")
	}
}

func TestScheduleInvalidSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	defer s.Stop()

	tests := []string{
		"",
		"invalid",
		"61 * * * *",
		"* * * *",
	}

	for _, tt := range tests {
		if err := s.Schedule(tt, func() {}); err == nil {
			t.Errorf("Schedule(%q) expected error", tt)
		}
	}
}

func TestWindow(t *testing.T) {
	now := time.Date(2023, time.October, 31, 6, 0, 0, 0, time.UTC)

	since, until := Window(now, 1)

	if want := time.Date(2023, time.October, 31, 0, 0, 0, 0, time.UTC); !since.Equal(want) {
		t.Errorf("since = %v, want %v", since, want)
	}

	if want := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC); !until.Equal(want) {
		t.Errorf("until = %v, want %v", until, want)
	}

	since, _ = Window(now, 7)

	if want := time.Date(2023, time.October, 25, 0, 0, 0, 0, time.UTC); !since.Equal(want) {
		t.Errorf("since (7 days) = %v, want %v", since, want)
	}
}
