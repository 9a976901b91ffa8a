package game

import "context"

// QuestionReport is posted once per resolved question.
type QuestionReport struct {
	SessionURL     string `json:"session_url"`
	QuestionID     int    `json:"question_id"`
	Level          int    `json:"level"`
	IsCorrect      bool   `json:"is_correct"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	SelectedOption string `json:"selected_option"`
	PointsEarned   int    `json:"points_earned"`
	Attempts       int    `json:"attempts"`
	HintUsed       bool   `json:"hint_used"`
	AudioReplays   int    `json:"audio_replays,omitempty"`
	ConfusionType  string `json:"confusion_type,omitempty"`
}

// LevelReport is posted once per completed level in a normal play-through.
type LevelReport struct {
	SessionURL       string `json:"session_url"`
	Level            int    `json:"level"`
	TotalQuestions   int    `json:"total_questions"`
	CorrectAnswers   int    `json:"correct_answers"`
	IncorrectAnswers int    `json:"incorrect_answers"`
	TotalScore       int    `json:"total_score"`
}

// FinishReport is posted exactly once, at true game end.
type FinishReport struct {
	SessionURL       string `json:"session_url"`
	TotalScore       int    `json:"total_score"`
	TotalCorrect     int    `json:"total_correct"`
	TotalIncorrect   int    `json:"total_incorrect"`
	TotalTimeSeconds int    `json:"total_time_seconds"`
	LevelsCompleted  int    `json:"levels_completed"`
	TotalClicks      int    `json:"total_clicks"`
	TotalHits        int    `json:"total_hits"`
	TotalMisses      int    `json:"total_misses"`
}

// FinalStats summarizes a fully completed evaluation. The risk fields carry
// the screening outcome when the backend generated one.
type FinalStats struct {
	TotalScore         int     `json:"puntaje_total"`
	QuestionsAnswered  int     `json:"preguntas_respondidas"`
	TotalTimeMinutes   float64 `json:"tiempo_total_minutos"`
	AveragePrecision   float64 `json:"precision_promedio"`
	SessionsCompleted  int     `json:"sesiones_completadas"`
	SessionsTotal      int     `json:"sesiones_totales"`
	RiskIndex          float64 `json:"indice_riesgo,omitempty"`
	RiskLevel          string  `json:"nivel_riesgo,omitempty"`
	RiskClassification string  `json:"clasificacion_riesgo,omitempty"`
}

// Progress reports how far along the evaluation's session chain is.
type Progress struct {
	Completed  int     `json:"completadas"`
	Total      int     `json:"totales"`
	Percentage float64 `json:"porcentaje"`
}

// FinishResponse is the finish endpoint's answer. Exactly one of the three
// navigation outcomes applies: evaluation complete (RedirectURL + FinalStats),
// another minigame queued (NextURL + Progress), or neither (RedirectURL to the
// default results page).
type FinishResponse struct {
	Success             bool        `json:"success"`
	Error               string      `json:"error,omitempty"`
	EvaluationComplete  bool        `json:"evaluacion_completada,omitempty"`
	FinalStats          *FinalStats `json:"final_stats,omitempty"`
	RedirectURL         string      `json:"redirect_url,omitempty"`
	NextURL             string      `json:"siguiente_url,omitempty"`
	Progress            *Progress   `json:"progreso,omitempty"`
}

// NavOutcome is where the client goes after the finish report.
type NavOutcome int

const (
	// NavEvaluationComplete shows the summary and navigates to the final
	// results URL.
	NavEvaluationComplete NavOutcome = iota
	// NavNextGame navigates to the next queued minigame.
	NavNextGame
	// NavResults navigates to the default results page.
	NavResults
)

// Navigation is the engine's interpretation of a successful FinishResponse.
type Navigation struct {
	Outcome  NavOutcome
	URL      string
	Stats    *FinalStats
	Progress *Progress
}

// Reporter posts play-through results to the backend. Question and level
// reports are best-effort telemetry; the finish report is authoritative and
// its response decides what happens next.
type Reporter interface {
	ReportQuestion(ctx context.Context, r QuestionReport) error
	ReportLevel(ctx context.Context, r LevelReport) error
	ReportFinish(ctx context.Context, r FinishReport) (*FinishResponse, error)
}
