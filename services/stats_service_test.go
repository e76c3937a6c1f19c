package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const gameLogFixture = `<html><body>
<table>
  <thead>
    <tr>
      <th>Date</th><th>Opp</th><th>H Hits</th><th>R Runs</th><th>HR Home Runs</th>
    </tr>
  </thead>
  <tbody>
    <tr><td>05-14</td><td>BOS</td><td>2</td><td>1</td><td>0</td></tr>
    <tr><td>05-13</td><td>BOS</td><td>0</td><td>0</td><td>0</td></tr>
    <tr><td>05-12</td><td>TB</td><td>3</td><td>2</td><td>1</td></tr>
    <tr><td>05-11</td><td>TB</td><td>1</td><td>0</td><td>0</td></tr>
    <tr><td>05-10</td><td>TOR</td><td>2</td><td>1</td><td>1</td></tr>
    <tr><td>05-09</td><td>TOR</td><td>4</td><td>3</td><td>2</td></tr>
  </tbody>
</table>
</body></html>`

func newTestStatsService(t *testing.T, handler http.HandlerFunc) *StatsService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewStatsService(server.URL, 0)
}

func TestLastFiveGames(t *testing.T) {
	service := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aaron-judge/game-log/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(gameLogFixture))
	})

	values, err := service.LastFiveGames(context.Background(), "aaron-judge", "hits")
	if err != nil {
		t.Fatalf("LastFiveGames failed: %v", err)
	}

	want := []string{"2", "0", "3", "1", "2"}
	if len(values) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(values))
	}
	for i, value := range want {
		if values[i] != value {
			t.Errorf("value %d: got %q, want %q", i, values[i], value)
		}
	}
}

func TestLastFiveGamesHomeRunsColumn(t *testing.T) {
	service := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gameLogFixture))
	})

	values, err := service.LastFiveGames(context.Background(), "aaron-judge", "homeruns")
	if err != nil {
		t.Fatalf("LastFiveGames failed: %v", err)
	}
	if len(values) != 5 || values[2] != "1" {
		t.Errorf("unexpected values %v", values)
	}
}

func TestLastFiveGamesUnsupportedProp(t *testing.T) {
	service := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be made for an unsupported prop")
	})

	if _, err := service.LastFiveGames(context.Background(), "aaron-judge", "stolenbases"); err == nil {
		t.Fatal("expected error for unsupported prop")
	}
}

func TestLastFiveGamesMissingColumn(t *testing.T) {
	service := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><table>
			<thead><tr><th>Date</th><th>Opp</th></tr></thead>
			<tbody><tr><td>05-14</td><td>BOS</td></tr></tbody>
		</table></body></html>`))
	})

	if _, err := service.LastFiveGames(context.Background(), "aaron-judge", "hits"); err == nil {
		t.Fatal("expected error when the prop column is absent")
	}
}

func TestLastFiveGamesNotFound(t *testing.T) {
	service := newTestStatsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := service.LastFiveGames(context.Background(), "nobody", "hits"); err == nil {
		t.Fatal("expected error for missing player page")
	}
}
