package services

import (
	"time"

	"mlb-streak-go/models"
)

// PickWindow decides whether pick operations are allowed at a given instant.
// Two rules apply: nothing may be picked before the daily open time (the
// catalog refresh for the new day may not have run yet), and a contest locks
// once the current instant reaches its start time minus the lock margin.
type PickWindow struct {
	LockMargin time.Duration
	OpenHour   int
	OpenMinute int
	Location   *time.Location
}

// NewPickWindow builds a window policy. openHour/openMinute are wall-clock
// values in loc.
func NewPickWindow(lockMargin time.Duration, openHour, openMinute int, loc *time.Location) PickWindow {
	if loc == nil {
		loc = time.UTC
	}
	return PickWindow{
		LockMargin: lockMargin,
		OpenHour:   openHour,
		OpenMinute: openMinute,
		Location:   loc,
	}
}

// CanPick reports whether a pick may be created or changed at now for a
// contest starting at startTime. Fails with models.ErrWindowClosed before
// the daily open time or once the contest has locked.
func (w PickWindow) CanPick(now, startTime time.Time) error {
	local := now.In(w.Location)
	open := time.Date(local.Year(), local.Month(), local.Day(), w.OpenHour, w.OpenMinute, 0, 0, w.Location)
	if local.Before(open) {
		return models.ErrWindowClosed
	}

	return w.CanModify(now, startTime)
}

// CanModify reports whether an existing pick on a contest starting at
// startTime may still be cleared at now. Only the lock-margin rule applies;
// clearing is not subject to the daily open time.
func (w PickWindow) CanModify(now, startTime time.Time) error {
	if !now.Before(startTime.Add(-w.LockMargin)) {
		return models.ErrWindowClosed
	}
	return nil
}
