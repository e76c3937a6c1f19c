package models

import (
	"fmt"
	"strings"
	"time"
)

// ContestResult holds the final outcome of a contest. Winner is the full
// participant name, or empty when the final scores were level (a drawn
// contest voids every pick on it).
type ContestResult struct {
	Winner    string `json:"winner" bson:"winner"`
	AwayScore int    `json:"awayScore" bson:"awayScore"`
	HomeScore int    `json:"homeScore" bson:"homeScore"`
}

// IsDraw reports whether the contest ended with level scores.
func (r ContestResult) IsDraw() bool {
	return r.Winner == ""
}

// Loser returns the name of the losing participant, or empty for a draw.
func (r ContestResult) Loser(away, home string) string {
	switch r.Winner {
	case away:
		return home
	case home:
		return away
	}
	return ""
}

// Contest represents one scheduled matchup for a given day. The ID is the
// provider-assigned event identifier and is the unique key; rows are never
// deleted so streak history stays auditable.
type Contest struct {
	ID        string         `json:"id" bson:"id"`
	Away      string         `json:"away" bson:"away"`
	Home      string         `json:"home" bson:"home"`
	StartTime time.Time      `json:"startTime" bson:"startTime"`
	Result    *ContestResult `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// IsResolved reports whether a final result has been recorded.
func (c *Contest) IsResolved() bool {
	return c.Result != nil
}

// MatchParticipant matches a user-supplied query against the two participant
// names, case-insensitively as a substring. It returns the canonical name of
// the matched participant and how many of the two names matched; a count of
// 2 means the query was ambiguous within this contest.
func (c *Contest) MatchParticipant(query string) (string, int) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", 0
	}

	matches := 0
	name := ""
	if strings.Contains(strings.ToLower(c.Away), q) {
		matches++
		name = c.Away
	}
	if strings.Contains(strings.ToLower(c.Home), q) {
		matches++
		name = c.Home
	}
	return name, matches
}

// LocalStartTime returns the start time converted to the reference timezone.
func (c *Contest) LocalStartTime(loc *time.Location) time.Time {
	return c.StartTime.In(loc)
}

// FormatStartTime renders the start time for display, e.g. "05-14-26 7:05 PM".
func (c *Contest) FormatStartTime(loc *time.Location) string {
	return c.LocalStartTime(loc).Format("01-02-06 3:04 PM")
}

// ScoreLine renders the final score, away side first, e.g. "Yankees 5 - 3 Red Sox".
func (c *Contest) ScoreLine() string {
	if c.Result == nil {
		return ""
	}
	return fmt.Sprintf("%s %d - %d %s", c.Away, c.Result.AwayScore, c.Result.HomeScore, c.Home)
}
