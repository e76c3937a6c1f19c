package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"mlb-streak-go/models"
)

// MemoryContestRepository implements ContestRepository in memory. Used in demo
// mode when no database is reachable, and by tests.
type MemoryContestRepository struct {
	mu       sync.RWMutex
	contests map[string]*models.Contest
}

// NewMemoryContestRepository creates an empty in-memory contest repository.
func NewMemoryContestRepository() *MemoryContestRepository {
	return &MemoryContestRepository{
		contests: make(map[string]*models.Contest),
	}
}

func (r *MemoryContestRepository) Upsert(ctx context.Context, contest *models.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contests[contest.ID]; exists {
		return nil
	}

	stored := *contest
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.contests[contest.ID] = &stored
	return nil
}

func (r *MemoryContestRepository) FindByID(ctx context.Context, contestID string) (*models.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contest, exists := r.contests[contestID]
	if !exists {
		return nil, models.ErrContestNotFound
	}
	copied := *contest
	return &copied, nil
}

func (r *MemoryContestRepository) ListForDay(ctx context.Context, day time.Time, loc *time.Location) ([]*models.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	local := day.In(loc)
	var contests []*models.Contest
	for _, contest := range r.contests {
		start := contest.StartTime.In(loc)
		if start.Year() == local.Year() && start.YearDay() == local.YearDay() {
			copied := *contest
			contests = append(contests, &copied)
		}
	}

	sort.Slice(contests, func(i, j int) bool {
		if !contests[i].StartTime.Equal(contests[j].StartTime) {
			return contests[i].StartTime.Before(contests[j].StartTime)
		}
		return contests[i].Home < contests[j].Home
	})
	return contests, nil
}

func (r *MemoryContestRepository) SetResult(ctx context.Context, contestID string, result models.ContestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contest, exists := r.contests[contestID]
	if !exists {
		return models.ErrContestNotFound
	}
	if contest.Result != nil {
		return models.ErrAlreadyResolved
	}
	stored := result
	contest.Result = &stored
	return nil
}

// MemoryProfileRepository implements ProfileRepository in memory.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]*models.UserProfile
}

// NewMemoryProfileRepository creates an empty in-memory profile repository.
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[string]*models.UserProfile),
	}
}

func (r *MemoryProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[profile.UserID]; exists {
		return models.ErrAlreadyRegistered
	}

	stored := *profile
	now := time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	r.profiles[profile.UserID] = &stored
	return nil
}

func (r *MemoryProfileRepository) FindByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, exists := r.profiles[userID]
	if !exists {
		return nil, models.ErrNotRegistered
	}
	return copyProfile(profile), nil
}

func (r *MemoryProfileRepository) SetPick(ctx context.Context, userID, contestID, pick string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.profiles[userID]
	if !exists {
		return models.ErrNotRegistered
	}
	profile.CurrentPick = &pick
	profile.CurrentContestID = &contestID
	profile.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryProfileRepository) ClearPick(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.profiles[userID]
	if !exists || profile.CurrentPick == nil {
		return models.ErrNoActivePick
	}
	profile.CurrentPick = nil
	profile.CurrentContestID = nil
	profile.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryProfileRepository) ApplyResult(ctx context.Context, userID, contestID string, won bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.profiles[userID]
	if !exists || profile.CurrentContestID == nil || *profile.CurrentContestID != contestID {
		return false, nil
	}
	if won {
		profile.Streak++
	} else {
		profile.Streak = 0
	}
	profile.CurrentPick = nil
	profile.CurrentContestID = nil
	profile.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryProfileRepository) VoidPick(ctx context.Context, userID, contestID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, exists := r.profiles[userID]
	if !exists || profile.CurrentContestID == nil || *profile.CurrentContestID != contestID {
		return false, nil
	}
	profile.CurrentPick = nil
	profile.CurrentContestID = nil
	profile.UpdatedAt = time.Now()
	return true, nil
}

func (r *MemoryProfileRepository) ListWithActivePick(ctx context.Context) ([]*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var profiles []*models.UserProfile
	for _, profile := range r.profiles {
		if profile.HasActivePick() {
			profiles = append(profiles, copyProfile(profile))
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (r *MemoryProfileRepository) ListAll(ctx context.Context) ([]*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]*models.UserProfile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		profiles = append(profiles, copyProfile(profile))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
	return profiles, nil
}

// copyProfile deep-copies a profile so callers cannot mutate stored state.
func copyProfile(profile *models.UserProfile) *models.UserProfile {
	copied := *profile
	if profile.CurrentPick != nil {
		pick := *profile.CurrentPick
		copied.CurrentPick = &pick
	}
	if profile.CurrentContestID != nil {
		contestID := *profile.CurrentContestID
		copied.CurrentContestID = &contestID
	}
	return &copied
}
