package services

import (
	"strings"
	"testing"
)

func TestMarketDisplayName(t *testing.T) {
	tests := map[string]string{
		"h2h":     "Head to Head",
		"spreads": "Spreads",
		"totals":  "Totals",
		"custom":  "custom",
	}
	for key, want := range tests {
		if got := marketDisplayName(key); got != want {
			t.Errorf("marketDisplayName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(110); got != "+110" {
		t.Errorf("formatPrice(110) = %q, want +110", got)
	}
	if got := formatPrice(-130); got != "-130" {
		t.Errorf("formatPrice(-130) = %q, want -130", got)
	}
}

func TestFormatOutcome(t *testing.T) {
	line := 1.5
	total := 8.5
	tests := []struct {
		market  string
		outcome Outcome
		want    string
	}{
		{"h2h", Outcome{Name: "New York Yankees", Price: -130}, "New York Yankees: -130"},
		{"spreads", Outcome{Name: "Boston Red Sox", Price: 110, Point: &line}, "Boston Red Sox: +110 (+1.5)"},
		{"totals", Outcome{Name: "Over", Price: -105, Point: &total}, "Over: -105 (8.5)"},
	}

	for _, tt := range tests {
		if got := formatOutcome(tt.market, tt.outcome); got != tt.want {
			t.Errorf("formatOutcome(%q, %v) = %q, want %q", tt.market, tt.outcome, got, tt.want)
		}
	}
}

func TestAnnounceTemplatesRender(t *testing.T) {
	data := struct {
		Date  string
		Games []slateGame
	}{
		Date: "05-14-26",
		Games: []slateGame{{
			Away:      "New York Yankees",
			Home:      "Boston Red Sox",
			StartTime: "05-14-26 7:05 PM",
			Books: []slateBook{{
				Title: "FanDuel",
				Markets: []slateMarket{{
					Name:     "Head to Head",
					Outcomes: []string{"New York Yankees: -130", "Boston Red Sox: +110"},
				}},
			}},
		}},
	}

	text, err := executeText(announceTextTemplate, data)
	if err != nil {
		t.Fatalf("text template failed: %v", err)
	}
	if !strings.Contains(text, "New York Yankees at Boston Red Sox") {
		t.Errorf("text output missing matchup:\n%s", text)
	}
	if !strings.Contains(text, "New York Yankees: -130 | Boston Red Sox: +110") {
		t.Errorf("text output missing prices:\n%s", text)
	}

	html, err := executeHTML(announceHTMLTemplate, data)
	if err != nil {
		t.Fatalf("html template failed: %v", err)
	}
	if !strings.Contains(html, "<strong>FanDuel</strong>") {
		t.Errorf("html output missing bookmaker:\n%s", html)
	}
}
