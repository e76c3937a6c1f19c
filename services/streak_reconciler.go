package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"

	"github.com/google/uuid"
)

// ScoreProvider is the provider read used to settle finished contests.
// Implemented by OddsAPIService.
type ScoreProvider interface {
	GetScores(ctx context.Context, daysFrom int) ([]ScoreEvent, error)
}

// StreakReconciler is the daily batch that resolves finished contests into
// the catalog and settles every affected pick. Both phases are safe to
// re-run: result writes are guarded at the contest level (write-once), and a
// settled pick is nulled in the same update that moves the streak, so a
// second run finds nothing left to apply.
type StreakReconciler struct {
	provider     ScoreProvider
	contestRepo  ContestRepository
	profileRepo  ProfileRepository
	lookbackDays int
	logger       *logging.Logger
}

// ReconcileStats summarizes one reconciler run.
type ReconcileStats struct {
	Resolved int // contests whose result was recorded this run
	Settled  int // picks settled (win or loss applied)
	Voided   int // picks voided on drawn contests
	Skipped  int // picks left pending or referencing missing contests
}

// NewStreakReconciler creates a new reconciler. lookbackDays bounds the
// provider score query; one day matches the daily schedule.
func NewStreakReconciler(provider ScoreProvider, contestRepo ContestRepository, profileRepo ProfileRepository, lookbackDays int) *StreakReconciler {
	if lookbackDays < 1 {
		lookbackDays = 1
	}
	return &StreakReconciler{
		provider:     provider,
		contestRepo:  contestRepo,
		profileRepo:  profileRepo,
		lookbackDays: lookbackDays,
		logger:       logging.WithPrefix("StreakReconciler"),
	}
}

// Run executes one reconciliation pass. A provider failure aborts the run
// before any result is written; every later write is an independent durable
// update, so a crash mid-run leaves resumable state for the next invocation.
func (r *StreakReconciler) Run(ctx context.Context) (ReconcileStats, error) {
	runID := uuid.NewString()[:8]
	started := time.Now()
	var stats ReconcileStats

	scores, err := r.provider.GetScores(ctx, r.lookbackDays)
	if err != nil {
		r.logger.Errorf("Run %s aborted, provider unavailable: %v", runID, err)
		return stats, fmt.Errorf("failed to fetch scores: %w", err)
	}

	r.logger.Infof("Run %s: %d score events in %d-day lookback", runID, len(scores), r.lookbackDays)

	stats.Resolved = r.resolveContests(ctx, runID, scores)

	if err := r.settlePicks(ctx, runID, &stats); err != nil {
		return stats, err
	}

	r.logger.Infof("Run %s finished in %v: %d resolved, %d settled, %d voided, %d skipped",
		runID, time.Since(started).Round(time.Millisecond),
		stats.Resolved, stats.Settled, stats.Voided, stats.Skipped)
	return stats, nil
}

// resolveContests records the winner of every completed contest that is not
// yet resolved. AlreadyResolved means another run got there first and is
// skipped silently; a contest the catalog never saw is skipped with a log.
func (r *StreakReconciler) resolveContests(ctx context.Context, runID string, scores []ScoreEvent) int {
	resolved := 0

	for _, event := range scores {
		if !event.Completed {
			continue
		}

		result, ok := event.Result()
		if !ok {
			r.logger.Warnf("Run %s: contest %s completed without usable scores, skipping", runID, event.ID)
			continue
		}

		err := r.contestRepo.SetResult(ctx, event.ID, result)
		switch {
		case err == nil:
			resolved++
			if result.IsDraw() {
				r.logger.Infof("Run %s: contest %s resolved as a draw (%d-%d)",
					runID, event.ID, result.AwayScore, result.HomeScore)
			} else {
				r.logger.Infof("Run %s: contest %s resolved, winner %s (%d-%d)",
					runID, event.ID, result.Winner, result.AwayScore, result.HomeScore)
			}
		case errors.Is(err, models.ErrAlreadyResolved):
			// A previous run recorded this result.
		case errors.Is(err, models.ErrContestNotFound):
			r.logger.Debugf("Run %s: contest %s was never ingested, skipping", runID, event.ID)
		default:
			r.logger.Errorf("Run %s: failed to resolve contest %s: %v", runID, event.ID, err)
		}
	}

	return resolved
}

// settlePicks walks every profile holding an active pick and applies the
// contest's recorded result. Profiles whose pick was settled by an earlier
// run no longer appear here (their pick fields are null), which is the
// user-level exactly-once guard.
func (r *StreakReconciler) settlePicks(ctx context.Context, runID string, stats *ReconcileStats) error {
	profiles, err := r.profileRepo.ListWithActivePick(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiles with active picks: %w", err)
	}

	for _, profile := range profiles {
		contestID := *profile.CurrentContestID

		contest, err := r.contestRepo.FindByID(ctx, contestID)
		if err != nil {
			// A dangling reference must never crash the run.
			r.logger.Warnf("Run %s: user %s pick references contest %s: %v",
				runID, profile.UserID, contestID, err)
			stats.Skipped++
			continue
		}

		if !contest.IsResolved() {
			// Contest not finished yet; retry on the next run.
			stats.Skipped++
			continue
		}

		if contest.Result.IsDraw() {
			applied, err := r.profileRepo.VoidPick(ctx, profile.UserID, contestID)
			if err != nil {
				r.logger.Errorf("Run %s: failed to void pick for user %s: %v", runID, profile.UserID, err)
				continue
			}
			if applied {
				stats.Voided++
				r.logger.Infof("Run %s: voided user %s pick on drawn contest %s", runID, profile.UserID, contestID)
			}
			continue
		}

		won := *profile.CurrentPick == contest.Result.Winner
		applied, err := r.profileRepo.ApplyResult(ctx, profile.UserID, contestID, won)
		if err != nil {
			r.logger.Errorf("Run %s: failed to settle pick for user %s: %v", runID, profile.UserID, err)
			continue
		}
		if !applied {
			// Pick changed or was settled concurrently; nothing to do.
			continue
		}

		stats.Settled++
		if won {
			r.logger.Infof("Run %s: user %s won with %s on contest %s, streak extended",
				runID, profile.UserID, *profile.CurrentPick, contestID)
		} else {
			r.logger.Infof("Run %s: user %s lost with %s on contest %s, streak reset",
				runID, profile.UserID, *profile.CurrentPick, contestID)
		}
	}

	return nil
}
