package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lexio/internal/game"
	"lexio/internal/reporter"
	"lexio/internal/security"
	"lexio/internal/service"
	"lexio/internal/statestore"
)

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// APIHandler serves the play endpoints a game client talks to while a
// session runs
type APIHandler struct {
	sessions *service.SessionService
	games    *service.GameService
	csrf     *security.CSRFGenerator
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(sessions *service.SessionService, games *service.GameService, csrf *security.CSRFGenerator) *APIHandler {
	return &APIHandler{
		sessions: sessions,
		games:    games,
		csrf:     csrf,
	}
}

// Bootstrap hands a client everything it needs to run a session and issues
// the CSRF cookie its later reports must echo back as a header
func (h *APIHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	sessionURL := r.PathValue("sessionURL")

	session, cfg, err := h.sessions.Bootstrap(sessionURL)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithJSONError(w, http.StatusNotFound, "sesión no encontrada")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to bootstrap session", err)
		return
	}

	token, err := h.csrf.GenerateToken(sessionURL)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to generate CSRF token", err)
		return
	}
	// Not HttpOnly: browser clients read this cookie to build the header
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Secure:   security.IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, http.StatusOK, reporter.Bootstrap{Session: *session, Config: *cfg})
}

// QuestionResponse records one resolved question
func (h *APIHandler) QuestionResponse(w http.ResponseWriter, r *http.Request) {
	var report game.QuestionReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.validCSRF(r, report.SessionURL) {
		respondWithJSONError(w, http.StatusForbidden, "CSRF token missing or invalid")
		return
	}

	if err := h.sessions.RecordQuestionResult(r.Context(), report); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithJSONError(w, http.StatusNotFound, "sesión no encontrada")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to record question", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// LevelComplete records a finished level's totals
func (h *APIHandler) LevelComplete(w http.ResponseWriter, r *http.Request) {
	var report game.LevelReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.validCSRF(r, report.SessionURL) {
		respondWithJSONError(w, http.StatusForbidden, "CSRF token missing or invalid")
		return
	}

	if err := h.sessions.RecordLevelResult(r.Context(), report); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithJSONError(w, http.StatusNotFound, "sesión no encontrada")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to record level", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// FinishGame closes a session and tells the client where to go next. An
// unknown session still answers 200 so the client can show the rejection
func (h *APIHandler) FinishGame(w http.ResponseWriter, r *http.Request) {
	sessionURL := r.PathValue("sessionURL")

	var report game.FinishReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	report.SessionURL = sessionURL

	if !h.validCSRF(r, sessionURL) {
		respondWithJSONError(w, http.StatusForbidden, "CSRF token missing or invalid")
		return
	}

	resp, err := h.sessions.FinishSession(r.Context(), report)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondWithJSON(w, http.StatusOK, game.FinishResponse{Success: false, Error: "sesión no encontrada"})
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to finish session", err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// LiveState reports a running session's current totals
func (h *APIHandler) LiveState(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.LiveState(r.Context(), r.PathValue("sessionURL"))
	if err != nil {
		if errors.Is(err, statestore.ErrNotFound) {
			respondWithJSONError(w, http.StatusNotFound, "no live state for session")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to read live state", err)
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// gameView is the catalog entry shape the API exposes
type gameView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

// ListGames returns the playable game catalog
func (h *APIHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.ListActive()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list games", err)
		return
	}

	views := make([]gameView, 0, len(games))
	for _, g := range games {
		views = append(views, gameView{
			ID:          g.ID,
			Name:        g.Name,
			Slug:        g.Slug,
			Description: g.Description,
			Position:    g.Position,
		})
	}
	respondWithJSON(w, http.StatusOK, views)
}

func (h *APIHandler) validCSRF(r *http.Request, sessionURL string) bool {
	return h.csrf.ValidateToken(sessionURL, r.Header.Get(csrfHeaderName))
}
