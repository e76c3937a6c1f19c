package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"mlb-streak-go/models"
)

type fakeScoreProvider struct {
	events []ScoreEvent
	err    error
	calls  int
}

func (f *fakeScoreProvider) GetScores(ctx context.Context, daysFrom int) ([]ScoreEvent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func scoreEvent(id, away, home string, awayScore, homeScore string, completed bool) ScoreEvent {
	event := ScoreEvent{
		ID:        id,
		AwayTeam:  away,
		HomeTeam:  home,
		Completed: completed,
	}
	if awayScore != "" {
		event.Scores = []TeamScore{
			{Name: away, Score: awayScore},
			{Name: home, Score: homeScore},
		}
	}
	return event
}

func seedProfileWithPick(t *testing.T, repo *MemoryProfileRepository, userID string, streak int, contestID, pick string) {
	t.Helper()
	ctx := context.Background()
	if err := repo.Create(ctx, &models.UserProfile{UserID: userID, DisplayName: userID, Streak: streak}); err != nil {
		t.Fatalf("failed to seed profile %s: %v", userID, err)
	}
	if err := repo.SetPick(ctx, userID, contestID, pick); err != nil {
		t.Fatalf("failed to seed pick for %s: %v", userID, err)
	}
}

func TestReconcilerSettlesWinLossAndDraw(t *testing.T) {
	ctx := context.Background()
	contestRepo := NewMemoryContestRepository()
	profileRepo := NewMemoryProfileRepository()

	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)
	contests := []*models.Contest{
		{ID: "g1", Away: "New York Yankees", Home: "Boston Red Sox", StartTime: start},
		{ID: "g2", Away: "Los Angeles Dodgers", Home: "San Francisco Giants", StartTime: start},
		{ID: "g3", Away: "Chicago Cubs", Home: "Milwaukee Brewers", StartTime: start},
	}
	for _, contest := range contests {
		if err := contestRepo.Upsert(ctx, contest); err != nil {
			t.Fatalf("failed to seed contest: %v", err)
		}
	}

	seedProfileWithPick(t, profileRepo, "winner", 3, "g1", "New York Yankees")
	seedProfileWithPick(t, profileRepo, "loser", 5, "g2", "Los Angeles Dodgers")
	seedProfileWithPick(t, profileRepo, "drawn", 2, "g3", "Chicago Cubs")

	provider := &fakeScoreProvider{events: []ScoreEvent{
		scoreEvent("g1", "New York Yankees", "Boston Red Sox", "5", "3", true),
		scoreEvent("g2", "Los Angeles Dodgers", "San Francisco Giants", "1", "4", true),
		scoreEvent("g3", "Chicago Cubs", "Milwaukee Brewers", "2", "2", true),
	}}

	reconciler := NewStreakReconciler(provider, contestRepo, profileRepo, 1)
	stats, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Resolved != 3 || stats.Settled != 2 || stats.Voided != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	winner, _ := profileRepo.FindByID(ctx, "winner")
	if winner.Streak != 4 || winner.HasActivePick() {
		t.Errorf("winner: expected streak 4 and no pick, got streak %d, pick %v", winner.Streak, winner.CurrentPick)
	}

	loser, _ := profileRepo.FindByID(ctx, "loser")
	if loser.Streak != 0 || loser.HasActivePick() {
		t.Errorf("loser: expected streak 0 and no pick, got streak %d, pick %v", loser.Streak, loser.CurrentPick)
	}

	drawn, _ := profileRepo.FindByID(ctx, "drawn")
	if drawn.Streak != 2 || drawn.HasActivePick() {
		t.Errorf("drawn: expected streak untouched at 2 and no pick, got streak %d, pick %v", drawn.Streak, drawn.CurrentPick)
	}
}

func TestReconcilerIdempotent(t *testing.T) {
	ctx := context.Background()
	contestRepo := NewMemoryContestRepository()
	profileRepo := NewMemoryProfileRepository()

	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)
	if err := contestRepo.Upsert(ctx, &models.Contest{
		ID: "g1", Away: "New York Yankees", Home: "Boston Red Sox", StartTime: start,
	}); err != nil {
		t.Fatalf("failed to seed contest: %v", err)
	}
	seedProfileWithPick(t, profileRepo, "alice", 3, "g1", "New York Yankees")

	provider := &fakeScoreProvider{events: []ScoreEvent{
		scoreEvent("g1", "New York Yankees", "Boston Red Sox", "5", "3", true),
	}}
	reconciler := NewStreakReconciler(provider, contestRepo, profileRepo, 1)

	if _, err := reconciler.Run(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	stats, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if stats.Resolved != 0 || stats.Settled != 0 {
		t.Errorf("second run must be a no-op, got %+v", stats)
	}

	alice, _ := profileRepo.FindByID(ctx, "alice")
	if alice.Streak != 4 {
		t.Errorf("streak must be applied exactly once, got %d", alice.Streak)
	}
}

func TestReconcilerProviderFailureAborts(t *testing.T) {
	ctx := context.Background()
	contestRepo := NewMemoryContestRepository()
	profileRepo := NewMemoryProfileRepository()

	provider := &fakeScoreProvider{err: models.ErrProviderUnavailable}
	reconciler := NewStreakReconciler(provider, contestRepo, profileRepo, 1)

	if _, err := reconciler.Run(ctx); !errors.Is(err, models.ErrProviderUnavailable) {
		t.Errorf("expected provider error surfaced, got %v", err)
	}
}

func TestReconcilerSkipsUnfinishedContests(t *testing.T) {
	ctx := context.Background()
	contestRepo := NewMemoryContestRepository()
	profileRepo := NewMemoryProfileRepository()

	start := time.Date(2026, 5, 14, 19, 5, 0, 0, time.UTC)
	if err := contestRepo.Upsert(ctx, &models.Contest{
		ID: "g1", Away: "New York Yankees", Home: "Boston Red Sox", StartTime: start,
	}); err != nil {
		t.Fatalf("failed to seed contest: %v", err)
	}
	seedProfileWithPick(t, profileRepo, "alice", 3, "g1", "New York Yankees")

	// In-progress contest: not completed, partial score.
	provider := &fakeScoreProvider{events: []ScoreEvent{
		scoreEvent("g1", "New York Yankees", "Boston Red Sox", "2", "1", false),
	}}
	reconciler := NewStreakReconciler(provider, contestRepo, profileRepo, 1)

	stats, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Resolved != 0 || stats.Settled != 0 || stats.Skipped != 1 {
		t.Errorf("expected pick left pending, got %+v", stats)
	}

	alice, _ := profileRepo.FindByID(ctx, "alice")
	if alice.Streak != 3 || !alice.HasActivePick() {
		t.Error("pending pick must remain untouched")
	}
}

func TestReconcilerSkipsPickOnMissingContest(t *testing.T) {
	ctx := context.Background()
	contestRepo := NewMemoryContestRepository()
	profileRepo := NewMemoryProfileRepository()

	seedProfileWithPick(t, profileRepo, "alice", 3, "ghost", "New York Yankees")

	provider := &fakeScoreProvider{}
	reconciler := NewStreakReconciler(provider, contestRepo, profileRepo, 1)

	stats, err := reconciler.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("expected dangling pick skipped, got %+v", stats)
	}
}
