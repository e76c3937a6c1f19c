package services

import (
	"context"
	"time"

	"mlb-streak-go/models"
)

// ContestRepository is the persistence interface for the daily contest
// catalog. Implemented by database.MongoContestRepository and by the
// in-memory repository used in demo mode and tests.
type ContestRepository interface {
	// Upsert inserts the contest if unknown; an existing row is left untouched.
	Upsert(ctx context.Context, contest *models.Contest) error
	// FindByID returns models.ErrContestNotFound for an unknown ID.
	FindByID(ctx context.Context, contestID string) (*models.Contest, error)
	// ListForDay returns a snapshot of contests starting on the given
	// calendar date in loc, earliest first.
	ListForDay(ctx context.Context, day time.Time, loc *time.Location) ([]*models.Contest, error)
	// SetResult records a result exactly once; a second call returns
	// models.ErrAlreadyResolved and leaves the stored value unchanged.
	SetResult(ctx context.Context, contestID string, result models.ContestResult) error
}

// ProfileRepository is the persistence interface for user profiles. Pick
// mutations must be atomic per profile: the pick and its contest reference
// change together or not at all.
type ProfileRepository interface {
	// Create returns models.ErrAlreadyRegistered for a duplicate user ID.
	Create(ctx context.Context, profile *models.UserProfile) error
	// FindByID returns models.ErrNotRegistered for an unknown user ID.
	FindByID(ctx context.Context, userID string) (*models.UserProfile, error)
	SetPick(ctx context.Context, userID, contestID, pick string) error
	// ClearPick returns models.ErrNoActivePick when both pick fields are
	// already null.
	ClearPick(ctx context.Context, userID string) error
	// ApplyResult settles the pick on contestID: streak+1 on a win, 0 on a
	// loss, pick fields nulled. Returns false without error when the profile
	// no longer carries a pick on that contest.
	ApplyResult(ctx context.Context, userID, contestID string, won bool) (bool, error)
	// VoidPick clears the pick on contestID without touching the streak.
	VoidPick(ctx context.Context, userID, contestID string) (bool, error)
	ListWithActivePick(ctx context.Context) ([]*models.UserProfile, error)
	// ListAll returns every profile in registration order.
	ListAll(ctx context.Context) ([]*models.UserProfile, error)
}
