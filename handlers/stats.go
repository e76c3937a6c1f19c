package handlers

import (
	"net/http"
	"sort"

	"mlb-streak-go/logging"
	"mlb-streak-go/services"
)

// StatsHandler serves player prop lookups
type StatsHandler struct {
	statsService *services.StatsService
	logger       *logging.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		logger:       logging.WithPrefix("StatsHandler"),
	}
}

type statsResponse struct {
	Player string   `json:"player"`
	Prop   string   `json:"prop"`
	Values []string `json:"values"`
}

// PlayerProps returns a player's prop values over their last five games
func (h *StatsHandler) PlayerProps(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	prop := r.URL.Query().Get("prop")
	if player == "" || prop == "" {
		writeBadRequest(w, "player and prop are required")
		return
	}

	values, err := h.statsService.LastFiveGames(r.Context(), player, prop)
	if err != nil {
		h.logger.Warnf("Stats lookup failed for %s/%s: %v", player, prop, err)
		writeBadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Player: player, Prop: prop, Values: values})
}

// Props lists the prop names the stats service understands
func (h *StatsHandler) Props(w http.ResponseWriter, r *http.Request) {
	props := services.SupportedProps()
	sort.Strings(props)
	writeJSON(w, http.StatusOK, props)
}
