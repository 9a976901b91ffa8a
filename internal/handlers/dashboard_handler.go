package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lexio/internal/models"
	"lexio/internal/repository"
	"lexio/internal/service"
	"lexio/internal/validation"
)

// DashboardHandler serves the professional-facing endpoints: children,
// evaluations and their results
type DashboardHandler struct {
	sessions *service.SessionService
	children *repository.ChildRepository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sessions *service.SessionService, children *repository.ChildRepository) *DashboardHandler {
	return &DashboardHandler{
		sessions: sessions,
		children: children,
	}
}

type childView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Grade string `json:"grade"`
	Notes string `json:"notes"`
}

type sessionView struct {
	SessionURL string `json:"session_url"`
	PlayURL    string `json:"play_url"`
	Position   int    `json:"position"`
	Status     string `json:"status"`
	GameName   string `json:"game_name"`
	GameSlug   string `json:"game_slug"`
	Score      int    `json:"score"`
}

type evaluationView struct {
	ID                int64         `json:"id"`
	ChildID           int64         `json:"child_id"`
	AIEvaluation      bool          `json:"es_evaluacion_ia"`
	Status            string        `json:"status"`
	TotalScore        int           `json:"total_score"`
	QuestionsAnswered int           `json:"questions_answered"`
	TotalTimeMinutes  float64       `json:"total_time_minutes"`
	AveragePrecision  float64       `json:"average_precision"`
	SessionsTotal     int           `json:"sessions_total"`
	CreatedAt         time.Time     `json:"created_at"`
	Sessions          []sessionView `json:"sessions"`
}

func buildEvaluationView(e *models.Evaluation, chain []models.SessionWithGame) evaluationView {
	view := evaluationView{
		ID:                e.ID,
		ChildID:           e.ChildID,
		AIEvaluation:      e.AIEvaluation,
		Status:            e.Status,
		TotalScore:        e.TotalScore,
		QuestionsAnswered: e.QuestionsAnswered,
		TotalTimeMinutes:  e.TotalTimeMinutes(),
		AveragePrecision:  e.AveragePrecision,
		SessionsTotal:     e.SessionsTotal,
		CreatedAt:         e.CreatedAt,
		Sessions:          make([]sessionView, 0, len(chain)),
	}
	for _, sg := range chain {
		view.Sessions = append(view.Sessions, sessionView{
			SessionURL: sg.Session.SessionURL,
			PlayURL:    "/play/" + sg.Session.SessionURL + "/",
			Position:   sg.Session.Position,
			Status:     sg.Session.Status,
			GameName:   sg.Game.Name,
			GameSlug:   sg.Game.Slug,
			Score:      sg.Session.Score,
		})
	}
	return view
}

// CreateChild registers a child under the authenticated professional
func (h *DashboardHandler) CreateChild(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		Name  string `json:"name"`
		Age   int    `json:"age"`
		Grade string `json:"grade"`
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	child, err := h.children.Create(claims.ProfessionalID, req.Name, req.Age, req.Grade, req.Notes)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create child", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, childView{
		ID: child.ID, Name: child.Name, Age: child.Age, Grade: child.Grade, Notes: child.Notes,
	})
}

// ListChildren returns the authenticated professional's children
func (h *DashboardHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	children, err := h.children.GetForProfessional(claims.ProfessionalID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to list children", err)
		return
	}

	views := make([]childView, 0, len(children))
	for _, c := range children {
		views = append(views, childView{ID: c.ID, Name: c.Name, Age: c.Age, Grade: c.Grade, Notes: c.Notes})
	}
	respondWithJSON(w, http.StatusOK, views)
}

// CreateEvaluation creates an evaluation and its session chain for a child
func (h *DashboardHandler) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var req struct {
		ChildID      int64 `json:"child_id"`
		AIEvaluation bool  `json:"es_evaluacion_ia"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	evaluation, chain, err := h.sessions.CreateEvaluation(req.ChildID, claims.ProfessionalID, req.AIEvaluation)
	if err != nil {
		if errors.Is(err, service.ErrChildNotFound) {
			respondWithJSONError(w, http.StatusNotFound, "child not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to create evaluation", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, buildEvaluationView(evaluation, chain))
}

type reportView struct {
	RiskIndex      float64 `json:"indice_riesgo"`
	RiskLevel      string  `json:"nivel_riesgo"`
	Classification string  `json:"clasificacion_riesgo"`
	Confidence     int     `json:"confianza"`
	Recommendation string  `json:"recomendaciones"`
	Simulated      bool    `json:"simulacion"`
}

// EvaluationResults returns an evaluation's totals, session chain, the
// confusion patterns its wrong answers exposed and, once the evaluation
// completed, its screening report
func (h *DashboardHandler) EvaluationResults(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithJSONError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	evaluation, chain, confusions, report, err := h.sessions.EvaluationResults(id, claims.ProfessionalID)
	if err != nil {
		if errors.Is(err, service.ErrEvaluationNotFound) {
			respondWithJSONError(w, http.StatusNotFound, "evaluation not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "Failed to load results", err)
		return
	}

	var reporte *reportView
	if report != nil {
		reporte = &reportView{
			RiskIndex:      report.RiskIndex,
			RiskLevel:      report.RiskLevel,
			Classification: report.Classification,
			Confidence:     report.Confidence,
			Recommendation: report.Recommendation,
			Simulated:      report.Simulated,
		}
	}

	respondWithJSON(w, http.StatusOK, struct {
		Evaluation evaluationView `json:"evaluation"`
		Confusions map[string]int `json:"confusions"`
		Report     *reportView    `json:"reporte_ia,omitempty"`
	}{
		Evaluation: buildEvaluationView(evaluation, chain),
		Confusions: confusions,
		Report:     reporte,
	})
}
