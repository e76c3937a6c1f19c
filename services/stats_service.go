package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mlb-streak-go/logging"

	"golang.org/x/net/html"
)

// StatsService scrapes a player's game-log page and answers prop questions
// ("how many hits in the last five games"). This is lookup glue with no
// bearing on picks or streaks.
type StatsService struct {
	client  *http.Client
	baseURL string
	logger  *logging.Logger
}

// propIdentifiers maps a user-facing prop name to the normalized header text
// of the matching game-log column.
var propIdentifiers = map[string]string{
	"hits":       "hhits",
	"runs":       "rruns",
	"rbi":        "rbirunsbattedin",
	"homeruns":   "hrhomeruns",
	"strikeouts": "sostrikeouts",
	"walks":      "bbbaseonballs(walk)",
	"doubles":    "2bdoubles",
	"triples":    "3btriples",
}

// NewStatsService creates a new stats lookup service. baseURL is the player
// page root; the game-log path is appended per player.
func NewStatsService(baseURL string, timeout time.Duration) *StatsService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StatsService{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		logger:  logging.WithPrefix("StatsService"),
	}
}

// SupportedProps lists the prop names LastFiveGames understands.
func SupportedProps() []string {
	props := make([]string, 0, len(propIdentifiers))
	for prop := range propIdentifiers {
		props = append(props, prop)
	}
	return props
}

// LastFiveGames fetches the player's game log and returns the values of the
// requested prop column for the five most recent games.
func (s *StatsService) LastFiveGames(ctx context.Context, playerSlug, prop string) ([]string, error) {
	headerName, ok := propIdentifiers[strings.ToLower(prop)]
	if !ok {
		return nil, fmt.Errorf("unsupported prop %q", prop)
	}

	pageURL := s.baseURL + strings.Trim(playerSlug, "/") + "/game-log/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("game log page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse game log page: %w", err)
	}

	table := findElement(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("no stats table found on game log page")
	}

	headers := collectCellText(findElement(table, "thead"), "th")
	colIndex := -1
	for i, header := range headers {
		if normalizeHeader(header) == headerName {
			colIndex = i
			break
		}
	}
	if colIndex < 0 {
		return nil, fmt.Errorf("column for prop %q not found in game log", prop)
	}

	tbody := findElement(table, "tbody")
	if tbody == nil {
		return nil, fmt.Errorf("no rows found in game log table")
	}

	var values []string
	for row := range elements(tbody, "tr") {
		cells := collectCellText(row, "td")
		if colIndex < len(cells) {
			values = append(values, cells[colIndex])
		}
		if len(values) == 5 {
			break
		}
	}

	s.logger.Debugf("Scraped %d %s values for %s", len(values), prop, playerSlug)
	return values, nil
}

func normalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(header), " ", "")
}

// findElement returns the first descendant element with the given tag.
func findElement(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// elements yields every descendant element with the given tag, in document order.
func elements(n *html.Node, tag string) func(yield func(*html.Node) bool) {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(node *html.Node) bool {
			if node.Type == html.ElementNode && node.Data == tag {
				return yield(node)
			}
			for child := node.FirstChild; child != nil; child = child.NextSibling {
				if !walk(child) {
					return false
				}
			}
			return true
		}
		if n != nil {
			walk(n)
		}
	}
}

// collectCellText returns the trimmed text of every cell with the given tag.
func collectCellText(n *html.Node, tag string) []string {
	var texts []string
	for cell := range elements(n, tag) {
		texts = append(texts, strings.TrimSpace(nodeText(cell)))
	}
	return texts
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
