package services

import (
	"context"
	"fmt"
	"time"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"
)

// SlateProvider is the provider read used to build the day's contest slate.
// Implemented by OddsAPIService.
type SlateProvider interface {
	GetOdds(ctx context.Context) ([]OddsEvent, error)
}

// ContestIngestService pulls the day's slate from the odds provider and
// upserts it into the contest catalog. The upsert is keyed on the provider's
// event ID, so re-running ingestion never duplicates or overwrites a contest.
type ContestIngestService struct {
	provider    SlateProvider
	contestRepo ContestRepository
	location    *time.Location
	logger      *logging.Logger
	now         func() time.Time
}

// NewContestIngestService creates a new ingest service. loc is the reference
// timezone used to decide which events belong to today.
func NewContestIngestService(provider SlateProvider, contestRepo ContestRepository, loc *time.Location) *ContestIngestService {
	return &ContestIngestService{
		provider:    provider,
		contestRepo: contestRepo,
		location:    loc,
		logger:      logging.WithPrefix("ContestIngest"),
		now:         time.Now,
	}
}

// IngestToday fetches the provider slate and stores every contest commencing
// today in the reference timezone. Returns the number of contests ingested.
func (s *ContestIngestService) IngestToday(ctx context.Context) (int, error) {
	events, err := s.provider.GetOdds(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch slate: %w", err)
	}

	today := s.now().In(s.location)
	count := 0

	for _, event := range events {
		local := event.CommenceTime.In(s.location)
		if local.Year() != today.Year() || local.YearDay() != today.YearDay() {
			continue
		}

		contest := &models.Contest{
			ID:        event.ID,
			Away:      event.AwayTeam,
			Home:      event.HomeTeam,
			StartTime: event.CommenceTime,
		}

		if err := s.contestRepo.Upsert(ctx, contest); err != nil {
			return count, fmt.Errorf("failed to store contest %s: %w", event.ID, err)
		}
		count++
	}

	s.logger.Infof("Ingested %d of %d provider events for %s",
		count, len(events), today.Format("2006-01-02"))
	return count, nil
}
