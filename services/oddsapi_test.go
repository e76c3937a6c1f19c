package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mlb-streak-go/models"
)

func newTestOddsService(t *testing.T, handler http.HandlerFunc) *OddsAPIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service := NewOddsAPIService(OddsAPIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Sport:      "baseball_mlb",
		Regions:    "us,us2",
		Markets:    "h2h,spreads,totals",
		Bookmakers: "fanduel,draftkings",
	})
	return service
}

func TestGetOdds(t *testing.T) {
	service := newTestOddsService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/sports/baseball_mlb/odds/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("apiKey") != "test-key" {
			t.Errorf("missing api key, got %q", query.Get("apiKey"))
		}
		if query.Get("oddsFormat") != "american" {
			t.Errorf("expected american odds format, got %q", query.Get("oddsFormat"))
		}
		if query.Get("markets") != "h2h,spreads,totals" {
			t.Errorf("unexpected markets %q", query.Get("markets"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"id": "g1",
			"sport_key": "baseball_mlb",
			"commence_time": "2026-05-14T23:05:00Z",
			"home_team": "Boston Red Sox",
			"away_team": "New York Yankees",
			"bookmakers": [{
				"key": "fanduel",
				"title": "FanDuel",
				"markets": [{
					"key": "h2h",
					"outcomes": [
						{"name": "New York Yankees", "price": -130},
						{"name": "Boston Red Sox", "price": 110}
					]
				}]
			}]
		}]`))
	})

	events, err := service.GetOdds(context.Background())
	if err != nil {
		t.Fatalf("GetOdds failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ID != "g1" || event.AwayTeam != "New York Yankees" {
		t.Errorf("unexpected event: %+v", event)
	}
	if len(event.Bookmakers) != 1 || len(event.Bookmakers[0].Markets) != 1 {
		t.Fatalf("unexpected market structure: %+v", event.Bookmakers)
	}
	if price := event.Bookmakers[0].Markets[0].Outcomes[0].Price; price != -130 {
		t.Errorf("expected price -130, got %v", price)
	}
}

func TestGetScores(t *testing.T) {
	service := newTestOddsService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/sports/baseball_mlb/scores/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("daysFrom") != "2" {
			t.Errorf("expected daysFrom=2, got %q", r.URL.Query().Get("daysFrom"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"id": "g1",
			"sport_key": "baseball_mlb",
			"commence_time": "2026-05-14T23:05:00Z",
			"completed": true,
			"home_team": "Boston Red Sox",
			"away_team": "New York Yankees",
			"scores": [
				{"name": "New York Yankees", "score": "5"},
				{"name": "Boston Red Sox", "score": "3"}
			]
		}]`))
	})

	events, err := service.GetScores(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetScores failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	result, ok := events[0].Result()
	if !ok {
		t.Fatal("expected usable result")
	}
	if result.Winner != "New York Yankees" || result.AwayScore != 5 || result.HomeScore != 3 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestGetScoresProviderError(t *testing.T) {
	service := newTestOddsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := service.GetScores(context.Background(), 1); !errors.Is(err, models.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestScoreEventResult(t *testing.T) {
	tests := []struct {
		name       string
		event      ScoreEvent
		wantOK     bool
		wantWinner string
	}{
		{
			name: "home win",
			event: ScoreEvent{
				AwayTeam: "A", HomeTeam: "B",
				Scores: []TeamScore{{Name: "A", Score: "2"}, {Name: "B", Score: "7"}},
			},
			wantOK: true, wantWinner: "B",
		},
		{
			name: "draw has empty winner",
			event: ScoreEvent{
				AwayTeam: "A", HomeTeam: "B",
				Scores: []TeamScore{{Name: "A", Score: "4"}, {Name: "B", Score: "4"}},
			},
			wantOK: true, wantWinner: "",
		},
		{
			name:   "missing scores",
			event:  ScoreEvent{AwayTeam: "A", HomeTeam: "B"},
			wantOK: false,
		},
		{
			name: "non-numeric score",
			event: ScoreEvent{
				AwayTeam: "A", HomeTeam: "B",
				Scores: []TeamScore{{Name: "A", Score: "x"}, {Name: "B", Score: "4"}},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		result, ok := tt.event.Result()
		if ok != tt.wantOK {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.wantOK)
			continue
		}
		if ok && result.Winner != tt.wantWinner {
			t.Errorf("%s: winner = %q, want %q", tt.name, result.Winner, tt.wantWinner)
		}
	}
}
