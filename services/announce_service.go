package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"

	"mlb-streak-go/logging"
)

// AnnounceService renders the day's slate with current market prices and
// delivers it to the community mailing list. Rendering is glue only; the
// catalog stays the source of truth for what is announced.
type AnnounceService struct {
	provider    SlateProvider
	contestRepo ContestRepository
	email       *EmailService
	recipients  []string
	location    *time.Location
	logger      *logging.Logger
	now         func() time.Time
}

// NewAnnounceService creates a new announcement service.
func NewAnnounceService(provider SlateProvider, contestRepo ContestRepository, email *EmailService, recipients []string, loc *time.Location) *AnnounceService {
	return &AnnounceService{
		provider:    provider,
		contestRepo: contestRepo,
		email:       email,
		recipients:  recipients,
		location:    loc,
		logger:      logging.WithPrefix("Announce"),
		now:         time.Now,
	}
}

// slateGame is the rendering view of one contest.
type slateGame struct {
	Away      string
	Home      string
	StartTime string
	Books     []slateBook
}

type slateBook struct {
	Title   string
	Markets []slateMarket
}

type slateMarket struct {
	Name     string
	Outcomes []string
}

const announceTextTemplate = `Today's games - {{.Date}}
{{range .Games}}
{{.Away}} at {{.Home}} - {{.StartTime}}
{{- range .Books}}
  {{.Title}}:
{{- range .Markets}}
    {{.Name}}: {{range $i, $o := .Outcomes}}{{if $i}} | {{end}}{{$o}}{{end}}
{{- end}}
{{- end}}
{{end}}
Make your pick before first pitch. Good luck!
`

const announceHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>&#9918; Today's games - {{.Date}}</h2>
  {{range .Games}}
  <div style="margin-bottom: 16px;">
    <h3>{{.Away}} at {{.Home}} <small>{{.StartTime}}</small></h3>
    {{range .Books}}
    <p><strong>{{.Title}}</strong><br>
    {{range .Markets}}{{.Name}}: {{range $i, $o := .Outcomes}}{{if $i}} | {{end}}{{$o}}{{end}}<br>{{end}}
    </p>
    {{end}}
  </div>
  {{end}}
  <p>Make your pick before first pitch. Good luck!</p>
</body>
</html>
`

// AnnounceToday sends the slate email for today's contests. No contests and
// no recipients are both quiet no-ops.
func (s *AnnounceService) AnnounceToday(ctx context.Context) error {
	if len(s.recipients) == 0 {
		s.logger.Debug("No recipients configured, skipping announcement")
		return nil
	}

	today := s.now()
	contests, err := s.contestRepo.ListForDay(ctx, today, s.location)
	if err != nil {
		return fmt.Errorf("failed to list today's contests: %w", err)
	}
	if len(contests) == 0 {
		s.logger.Info("No games today, skipping announcement")
		return nil
	}

	// Prices are decoration; an unavailable provider still announces the slate.
	priced := map[string]OddsEvent{}
	if events, err := s.provider.GetOdds(ctx); err == nil {
		for _, event := range events {
			priced[event.ID] = event
		}
	} else {
		s.logger.Warnf("Announcing without prices: %v", err)
	}

	games := make([]slateGame, 0, len(contests))
	for _, contest := range contests {
		game := slateGame{
			Away:      contest.Away,
			Home:      contest.Home,
			StartTime: contest.FormatStartTime(s.location),
		}
		if event, ok := priced[contest.ID]; ok {
			game.Books = renderBooks(event)
		}
		games = append(games, game)
	}

	data := struct {
		Date  string
		Games []slateGame
	}{
		Date:  today.In(s.location).Format("Monday, January 2"),
		Games: games,
	}

	textBody, err := executeText(announceTextTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render text body: %w", err)
	}
	htmlBody, err := executeHTML(announceHTMLTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render HTML body: %w", err)
	}

	subject := fmt.Sprintf("MLB picks for %s", data.Date)
	sent := 0
	for _, recipient := range s.recipients {
		if err := s.email.Send(recipient, subject, textBody, htmlBody); err != nil {
			s.logger.Errorf("Failed to send announcement to %s: %v", recipient, err)
			continue
		}
		sent++
	}

	s.logger.Infof("Announced %d games to %d of %d recipients", len(games), sent, len(s.recipients))
	return nil
}

// renderBooks turns an odds event into displayable market lines.
func renderBooks(event OddsEvent) []slateBook {
	books := make([]slateBook, 0, len(event.Bookmakers))
	for _, bookmaker := range event.Bookmakers {
		book := slateBook{Title: bookmaker.Title}
		for _, market := range bookmaker.Markets {
			rendered := slateMarket{Name: marketDisplayName(market.Key)}
			for _, outcome := range market.Outcomes {
				rendered.Outcomes = append(rendered.Outcomes, formatOutcome(market.Key, outcome))
			}
			book.Markets = append(book.Markets, rendered)
		}
		books = append(books, book)
	}
	return books
}

func marketDisplayName(key string) string {
	switch key {
	case "h2h":
		return "Head to Head"
	case "spreads":
		return "Spreads"
	case "totals":
		return "Totals"
	}
	return key
}

func formatOutcome(marketKey string, outcome Outcome) string {
	price := formatPrice(outcome.Price)
	if outcome.Point == nil {
		return fmt.Sprintf("%s: %s", outcome.Name, price)
	}

	point := *outcome.Point
	if marketKey == "spreads" {
		return fmt.Sprintf("%s: %s (%s)", outcome.Name, price, formatSigned(point))
	}
	return fmt.Sprintf("%s: %s (%.1f)", outcome.Name, price, point)
}

// formatPrice renders an american-odds price with its conventional sign.
func formatPrice(price float64) string {
	if price > 0 {
		return fmt.Sprintf("+%.0f", price)
	}
	return fmt.Sprintf("%.0f", price)
}

func formatSigned(point float64) string {
	if point > 0 {
		return fmt.Sprintf("+%.1f", point)
	}
	return fmt.Sprintf("%.1f", point)
}

func executeText(tmpl string, data interface{}) (string, error) {
	t, err := texttemplate.New("text").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func executeHTML(tmpl string, data interface{}) (string, error) {
	t, err := template.New("html").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
