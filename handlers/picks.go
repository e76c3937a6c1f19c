package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"mlb-streak-go/logging"
	"mlb-streak-go/middleware"
	"mlb-streak-go/models"
	"mlb-streak-go/services"

	"github.com/gorilla/mux"
)

// PickHandler handles pick and leaderboard requests
type PickHandler struct {
	pickService *services.PickService
	logger      *logging.Logger
}

// NewPickHandler creates a new pick handler
func NewPickHandler(pickService *services.PickService) *PickHandler {
	return &PickHandler{
		pickService: pickService,
		logger:      logging.WithPrefix("PickHandler"),
	}
}

type setPickRequest struct {
	Participant string `json:"participant"`
}

type pickResponse struct {
	Profile *models.UserProfile `json:"profile"`
	Contest *models.Contest     `json:"contest,omitempty"`
}

// SetPick places or replaces today's pick for the authenticated user
func (h *PickHandler) SetPick(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfileFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req setPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.Participant == "" {
		writeBadRequest(w, "participant is required")
		return
	}

	updated, contest, err := h.pickService.SetPick(r.Context(), profile.UserID, req.Participant)
	if err != nil {
		h.logger.Warnf("SetPick failed for %s (%q): %v", profile.UserID, req.Participant, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pickResponse{Profile: updated, Contest: contest})
}

// ClearPick withdraws the authenticated user's active pick
func (h *PickHandler) ClearPick(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfileFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	updated, err := h.pickService.ClearPick(r.Context(), profile.UserID)
	if err != nil {
		h.logger.Warnf("ClearPick failed for %s: %v", profile.UserID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pickResponse{Profile: updated})
}

// GetProfile returns any user's profile by ID
func (h *PickHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user"]

	profile, err := h.pickService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Leaderboard returns profiles ordered by streak, ties in registration order
func (h *PickHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	profiles, err := h.pickService.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}
