package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"
)

// PickService handles registration, pick placement, and the leaderboard. It
// enforces the pick-window policy before any profile mutation; the atomicity
// of each mutation itself is the repository's job.
type PickService struct {
	profileRepo ProfileRepository
	contestRepo ContestRepository
	window      PickWindow
	logger      *logging.Logger
	now         func() time.Time
}

// NewPickService creates a new pick service.
func NewPickService(profileRepo ProfileRepository, contestRepo ContestRepository, window PickWindow) *PickService {
	return &PickService{
		profileRepo: profileRepo,
		contestRepo: contestRepo,
		window:      window,
		logger:      logging.WithPrefix("PickService"),
		now:         time.Now,
	}
}

// Register creates a new profile with a zero streak and no pick. A second
// registration for the same user ID fails with models.ErrAlreadyRegistered
// and changes nothing.
func (s *PickService) Register(ctx context.Context, userID, displayName, passphrase string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if displayName == "" {
		displayName = userID
	}

	profile := &models.UserProfile{
		UserID:      userID,
		DisplayName: displayName,
	}
	if err := profile.HashPassphrase(passphrase); err != nil {
		return nil, fmt.Errorf("failed to hash passphrase: %w", err)
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Infof("Registered user %s (%s)", userID, displayName)
	return profile, nil
}

// SetPick records a pick for today. The query is matched case-insensitively
// as a substring against the participants of today's contests; exactly one
// participant must match. The window policy is checked against the matched
// contest before the profile is touched, and an existing pick is simply
// overwritten (both fields together).
func (s *PickService) SetPick(ctx context.Context, userID, query string) (*models.UserProfile, *models.Contest, error) {
	if _, err := s.profileRepo.FindByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	now := s.now()
	contests, err := s.contestRepo.ListForDay(ctx, now, s.window.Location)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list today's contests: %w", err)
	}

	contest, participant, err := resolvePick(contests, query)
	if err != nil {
		return nil, nil, err
	}

	if err := s.window.CanPick(now, contest.StartTime); err != nil {
		return nil, nil, err
	}

	if err := s.profileRepo.SetPick(ctx, userID, contest.ID, participant); err != nil {
		return nil, nil, err
	}

	s.logger.Infof("User %s picked %s (%s at %s)", userID, participant, contest.Away, contest.Home)

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return profile, contest, nil
}

// ClearPick removes the user's active pick. The lock-margin rule still
// applies to the contest the pick refers to: once the contest is imminent
// the pick can no longer be walked back.
func (s *PickService) ClearPick(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasActivePick() {
		return nil, models.ErrNoActivePick
	}

	contest, err := s.contestRepo.FindByID(ctx, *profile.CurrentContestID)
	if err == nil {
		if err := s.window.CanModify(s.now(), contest.StartTime); err != nil {
			return nil, err
		}
	} else {
		// A pick pointing at an unknown contest should not be stuck forever.
		s.logger.Warnf("User %s pick references missing contest %s, allowing clear",
			userID, *profile.CurrentContestID)
	}

	if err := s.profileRepo.ClearPick(ctx, userID); err != nil {
		return nil, err
	}

	s.logger.Infof("User %s cleared pick", userID)
	return s.profileRepo.FindByID(ctx, userID)
}

// GetProfile returns the profile for a user ID.
func (s *PickService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.profileRepo.FindByID(ctx, userID)
}

// Leaderboard returns up to limit profiles ordered by streak descending.
// The sort is stable over registration order, so equal streaks keep a
// consistent order across calls.
func (s *PickService) Leaderboard(ctx context.Context, limit int) ([]*models.UserProfile, error) {
	profiles, err := s.profileRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].Streak > profiles[j].Streak
	})

	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

// resolvePick matches a participant query against today's contests. The
// match must be unique both across contests and within the matched contest.
func resolvePick(contests []*models.Contest, query string) (*models.Contest, string, error) {
	var (
		matched     *models.Contest
		participant string
		total       int
	)

	for _, contest := range contests {
		name, count := contest.MatchParticipant(query)
		if count == 0 {
			continue
		}
		total += count
		matched = contest
		participant = name
	}

	switch {
	case total == 0:
		return nil, "", fmt.Errorf("%w: no contest today with participant matching %q",
			models.ErrContestNotFound, query)
	case total > 1:
		return nil, "", fmt.Errorf("%w: %q matches more than one participant today",
			models.ErrContestNotFound, query)
	}

	return matched, participant, nil
}
