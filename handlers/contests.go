package handlers

import (
	"net/http"
	"time"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"
	"mlb-streak-go/services"
)

// ContestHandler serves the daily contest slate
type ContestHandler struct {
	contestRepo services.ContestRepository
	location    *time.Location
	logger      *logging.Logger

	now func() time.Time
}

// NewContestHandler creates a new contest handler
func NewContestHandler(contestRepo services.ContestRepository, loc *time.Location) *ContestHandler {
	return &ContestHandler{
		contestRepo: contestRepo,
		location:    loc,
		logger:      logging.WithPrefix("ContestHandler"),
		now:         time.Now,
	}
}

type contestView struct {
	ID        string                `json:"id"`
	Away      string                `json:"away"`
	Home      string                `json:"home"`
	StartTime string                `json:"startTime"`
	Result    *models.ContestResult `json:"result,omitempty"`
}

// Today lists contests starting on the current calendar day
func (h *ContestHandler) Today(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestRepo.ListForDay(r.Context(), h.now(), h.location)
	if err != nil {
		h.logger.Errorf("Failed to list today's contests: %v", err)
		writeError(w, err)
		return
	}

	views := make([]contestView, 0, len(contests))
	for _, contest := range contests {
		views = append(views, contestView{
			ID:        contest.ID,
			Away:      contest.Away,
			Home:      contest.Home,
			StartTime: contest.FormatStartTime(h.location),
			Result:    contest.Result,
		})
	}

	writeJSON(w, http.StatusOK, views)
}
