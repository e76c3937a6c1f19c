package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"
)

// OddsAPIConfig holds the provider settings for the-odds-api.com.
type OddsAPIConfig struct {
	APIKey     string
	BaseURL    string
	Sport      string
	Regions    string
	Markets    string
	Bookmakers string
	Timeout    time.Duration
}

// OddsAPIService is a typed client for the odds/results provider. Requests
// use a short timeout so callers on the command path never hang on the
// provider; any transport or non-200 failure surfaces as
// models.ErrProviderUnavailable with an empty result.
type OddsAPIService struct {
	client *http.Client
	config OddsAPIConfig
	logger *logging.Logger
}

// NewOddsAPIService creates a new provider client.
func NewOddsAPIService(config OddsAPIConfig) *OddsAPIService {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &OddsAPIService{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
		logger: logging.WithPrefix("OddsAPI"),
	}
}

// Provider response structures

// OddsEvent is one upcoming contest with current market prices.
type OddsEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker holds one book's markets for an event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market is one priced market (h2h, spreads, totals).
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one side of a market. Price is in american odds; Point is the
// spread or total line and is absent for h2h.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// ScoreEvent is one recent contest with completion status and final scores.
// Scores is null until the contest starts.
type ScoreEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	Completed    bool        `json:"completed"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Scores       []TeamScore `json:"scores"`
}

// TeamScore is one participant's running or final score. The provider sends
// the score as a string.
type TeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// FinalScores returns the away and home final scores. ok is false when the
// score list is missing either participant or holds a non-numeric value.
func (e *ScoreEvent) FinalScores() (away, home int, ok bool) {
	foundAway, foundHome := false, false
	for _, s := range e.Scores {
		value, err := strconv.Atoi(s.Score)
		if err != nil {
			return 0, 0, false
		}
		switch s.Name {
		case e.AwayTeam:
			away = value
			foundAway = true
		case e.HomeTeam:
			home = value
			foundHome = true
		}
	}
	return away, home, foundAway && foundHome
}

// Result computes the contest result from the final scores. The higher score
// wins; level scores produce a result with an empty winner (a draw).
func (e *ScoreEvent) Result() (models.ContestResult, bool) {
	away, home, ok := e.FinalScores()
	if !ok {
		return models.ContestResult{}, false
	}

	result := models.ContestResult{AwayScore: away, HomeScore: home}
	if away > home {
		result.Winner = e.AwayTeam
	} else if home > away {
		result.Winner = e.HomeTeam
	}
	return result, true
}

// GetOdds fetches the sport's upcoming contests with current market prices.
func (s *OddsAPIService) GetOdds(ctx context.Context) ([]OddsEvent, error) {
	params := url.Values{}
	params.Set("apiKey", s.config.APIKey)
	params.Set("dateFormat", "iso")
	params.Set("oddsFormat", "american")
	params.Set("regions", s.config.Regions)
	params.Set("markets", s.config.Markets)
	params.Set("bookmakers", s.config.Bookmakers)

	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds/?%s", s.config.BaseURL, s.config.Sport, params.Encode())

	var events []OddsEvent
	if err := s.get(ctx, endpoint, &events); err != nil {
		return nil, err
	}

	s.logger.Debugf("Received %d odds events", len(events))
	return events, nil
}

// GetScores fetches recent contests with completion status and final
// scores, looking back daysFrom calendar days.
func (s *OddsAPIService) GetScores(ctx context.Context, daysFrom int) ([]ScoreEvent, error) {
	params := url.Values{}
	params.Set("apiKey", s.config.APIKey)
	params.Set("dateFormat", "iso")
	params.Set("daysFrom", strconv.Itoa(daysFrom))

	endpoint := fmt.Sprintf("%s/v4/sports/%s/scores/?%s", s.config.BaseURL, s.config.Sport, params.Encode())

	var events []ScoreEvent
	if err := s.get(ctx, endpoint, &events); err != nil {
		return nil, err
	}

	s.logger.Debugf("Received %d score events", len(events))
	return events, nil
}

func (s *OddsAPIService) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Errorf("Provider request failed: %v", err)
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Errorf("Provider returned status %d", resp.StatusCode)
		return fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}

	return nil
}

// HealthCheck verifies the provider is reachable.
func (s *OddsAPIService) HealthCheck(ctx context.Context) bool {
	endpoint := fmt.Sprintf("%s/v4/sports/?apiKey=%s", s.config.BaseURL, url.QueryEscape(s.config.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
