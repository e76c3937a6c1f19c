package services

import (
	"errors"
	"testing"
	"time"

	"mlb-streak-go/models"
)

func TestCanPickBeforeDailyOpen(t *testing.T) {
	window := NewPickWindow(10*time.Minute, 6, 1, time.UTC)

	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)
	now := time.Date(2026, 5, 14, 5, 30, 0, 0, time.UTC)

	if err := window.CanPick(now, start); !errors.Is(err, models.ErrWindowClosed) {
		t.Errorf("expected ErrWindowClosed before daily open, got %v", err)
	}
}

func TestCanPickAfterDailyOpen(t *testing.T) {
	window := NewPickWindow(10*time.Minute, 6, 1, time.UTC)

	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)
	now := time.Date(2026, 5, 14, 6, 1, 0, 0, time.UTC)

	if err := window.CanPick(now, start); err != nil {
		t.Errorf("expected pick allowed at open time, got %v", err)
	}
}

func TestCanPickLockMargin(t *testing.T) {
	window := NewPickWindow(10*time.Minute, 6, 1, time.UTC)
	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"well before lock", start.Add(-time.Hour), false},
		{"one second before lock", start.Add(-10*time.Minute - time.Second), false},
		{"exactly at lock", start.Add(-10 * time.Minute), true},
		{"after start", start.Add(time.Minute), true},
	}

	for _, tt := range tests {
		err := window.CanPick(tt.now, start)
		if tt.wantErr && !errors.Is(err, models.ErrWindowClosed) {
			t.Errorf("%s: expected ErrWindowClosed, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: expected pick allowed, got %v", tt.name, err)
		}
	}
}

func TestCanModifyIgnoresDailyOpen(t *testing.T) {
	window := NewPickWindow(10*time.Minute, 6, 1, time.UTC)

	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)
	now := time.Date(2026, 5, 14, 5, 0, 0, 0, time.UTC)

	if err := window.CanModify(now, start); err != nil {
		t.Errorf("expected clear allowed before daily open, got %v", err)
	}
}

func TestPickWindowTimezoneConversion(t *testing.T) {
	loc, err := time.LoadLocation("US/Eastern")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	window := NewPickWindow(10*time.Minute, 6, 1, loc)

	// 10:30 UTC is 06:30 Eastern in May, past the daily open.
	start := time.Date(2026, 5, 14, 23, 5, 0, 0, time.UTC)
	now := time.Date(2026, 5, 14, 10, 30, 0, 0, time.UTC)

	if err := window.CanPick(now, start); err != nil {
		t.Errorf("expected pick allowed at 06:30 Eastern, got %v", err)
	}

	// 09:30 UTC is 05:30 Eastern, before the daily open.
	now = time.Date(2026, 5, 14, 9, 30, 0, 0, time.UTC)
	if err := window.CanPick(now, start); !errors.Is(err, models.ErrWindowClosed) {
		t.Errorf("expected ErrWindowClosed at 05:30 Eastern, got %v", err)
	}
}
