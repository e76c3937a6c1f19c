package handlers

import (
	"encoding/json"
	"net/http"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"
	"mlb-streak-go/services"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	pickService *services.PickService
	authService *services.AuthService
	logger      *logging.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(pickService *services.PickService, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		pickService: pickService,
		authService: authService,
		logger:      logging.WithPrefix("AuthHandler"),
	}
}

// Register creates a profile and returns it with a fresh token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.UserID == "" || req.Passphrase == "" {
		writeBadRequest(w, "user_id and passphrase are required")
		return
	}

	profile, err := h.pickService.Register(r.Context(), req.UserID, req.DisplayName, req.Passphrase)
	if err != nil {
		h.logger.Warnf("Registration failed for %s: %v", req.UserID, err)
		writeError(w, err)
		return
	}

	token, err := h.authService.GenerateToken(profile)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Infof("User %s registered", profile.UserID)
	writeJSON(w, http.StatusCreated, models.AuthResponse{Profile: *profile, Token: token})
}

// Login authenticates a profile and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.UserID == "" || req.Passphrase == "" {
		writeBadRequest(w, "user_id and passphrase are required")
		return
	}

	authResponse, err := h.authService.Login(r.Context(), req.UserID, req.Passphrase)
	if err != nil {
		h.logger.Warnf("Login failed for %s: %v", req.UserID, err)
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	h.logger.Infof("User %s logged in", authResponse.Profile.UserID)
	writeJSON(w, http.StatusOK, authResponse)
}
