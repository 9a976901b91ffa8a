package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lexio/internal/game"
	"lexio/internal/models"
	"lexio/internal/repository"
	"lexio/internal/risk"
	"lexio/internal/security"
	"lexio/internal/statestore"
)

var (
	ErrChildNotFound      = errors.New("child not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
)

// SessionService runs the evaluation lifecycle: it seeds the session chain
// when an evaluation is created, records the reports a client posts while
// playing, and decides what the client does after each minigame finishes
type SessionService struct {
	sessions      *repository.SessionRepository
	evaluations   *repository.EvaluationRepository
	games         *repository.GameRepository
	children      *repository.ChildRepository
	professionals *repository.ProfessionalRepository
	trials        *repository.TrialRepository
	reports       *repository.ReportRepository
	gameSvc       *GameService
	live          statestore.Store
	email         *EmailService
}

// NewSessionService creates a new session service. email may be nil when
// report emails are disabled
func NewSessionService(
	sessions *repository.SessionRepository,
	evaluations *repository.EvaluationRepository,
	games *repository.GameRepository,
	children *repository.ChildRepository,
	professionals *repository.ProfessionalRepository,
	trials *repository.TrialRepository,
	reports *repository.ReportRepository,
	gameSvc *GameService,
	live statestore.Store,
	email *EmailService,
) *SessionService {
	return &SessionService{
		sessions:      sessions,
		evaluations:   evaluations,
		games:         games,
		children:      children,
		professionals: professionals,
		trials:        trials,
		reports:       reports,
		gameSvc:       gameSvc,
		live:          live,
		email:         email,
	}
}

// CreateEvaluation creates an evaluation for a child and seeds one pending
// session per catalog game, in catalog order
func (s *SessionService) CreateEvaluation(childID, professionalID int64, aiEvaluation bool) (*models.Evaluation, []models.SessionWithGame, error) {
	child, err := s.children.GetByID(childID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get child: %w", err)
	}
	if child == nil || child.ProfessionalID != professionalID {
		return nil, nil, ErrChildNotFound
	}

	games, err := s.games.GetActive()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list games: %w", err)
	}
	if len(games) == 0 {
		return nil, nil, errors.New("no active games to evaluate with")
	}

	evaluation, err := s.evaluations.Create(childID, professionalID, aiEvaluation, len(games))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create evaluation: %w", err)
	}

	chain := make([]models.SessionWithGame, 0, len(games))
	for _, g := range games {
		sess, err := s.sessions.Create(evaluation.ID, g.ID, security.GenerateSessionURL(), g.Position)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create session for %s: %w", g.Slug, err)
		}
		chain = append(chain, models.SessionWithGame{Session: *sess, Game: g})
	}
	return evaluation, chain, nil
}

// Bootstrap returns everything a client needs to run a session: its identity
// and report endpoints plus the game's configuration. The first bootstrap
// moves the session and its evaluation to in_progress
func (s *SessionService) Bootstrap(sessionURL string) (*game.Session, *game.GameConfig, error) {
	sess, err := s.sessions.GetByURL(sessionURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, nil, ErrSessionNotFound
	}

	g, err := s.games.GetByID(sess.GameID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game: %w", err)
	}
	if g == nil {
		return nil, nil, ErrUnknownGame
	}

	cfg, err := s.gameSvc.ConfigForSlug(g.Slug)
	if err != nil {
		return nil, nil, err
	}

	evaluation, err := s.evaluations.GetByID(sess.EvaluationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if evaluation == nil {
		return nil, nil, ErrEvaluationNotFound
	}

	if sess.Status == models.SessionPending {
		if err := s.sessions.MarkInProgress(sessionURL); err != nil {
			return nil, nil, err
		}
		if err := s.evaluations.MarkInProgress(evaluation.ID); err != nil {
			return nil, nil, err
		}
	}

	session := &game.Session{
		SessionURL:   sessionURL,
		EvaluationID: evaluation.ID,
		AIEvaluation: evaluation.AIEvaluation,
		Endpoints: game.Endpoints{
			QuestionResponse: "/api/sessions/question-response",
			LevelComplete:    "/api/sessions/level-complete",
			FinishGame:       fmt.Sprintf("/api/sessions/%s/finish", sessionURL),
			GameList:         "/games/",
		},
	}
	return session, cfg, nil
}

// RecordQuestionResult stores one resolved question as a cognitive trial and
// refreshes the session's live state. Repeated reports for the same question
// overwrite the earlier trial
func (s *SessionService) RecordQuestionResult(ctx context.Context, r game.QuestionReport) error {
	sess, err := s.sessions.GetByURL(r.SessionURL)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	trial := &models.CognitiveTrial{
		SessionID:      sess.ID,
		QuestionID:     r.QuestionID,
		Level:          r.Level,
		Attempts:       r.Attempts,
		IsCorrect:      r.IsCorrect,
		ResponseTimeMs: r.ResponseTimeMs,
		PointsEarned:   r.PointsEarned,
		SelectedOption: r.SelectedOption,
		HintUsed:       r.HintUsed,
		AudioReplays:   r.AudioReplays,
		ConfusionType:  r.ConfusionType,
	}
	if err := s.trials.Upsert(trial); err != nil {
		return fmt.Errorf("failed to store trial: %w", err)
	}

	s.refreshLiveState(ctx, r)
	return nil
}

// RecordLevelResult folds a completed level's totals into the session row
// and recomputes the evaluation aggregates
func (s *SessionService) RecordLevelResult(ctx context.Context, r game.LevelReport) error {
	sess, err := s.sessions.GetByURL(r.SessionURL)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return ErrSessionNotFound
	}

	if err := s.sessions.UpdateLevelTotals(r.SessionURL, r.TotalScore, r.CorrectAnswers, r.IncorrectAnswers); err != nil {
		return err
	}
	if err := s.evaluations.RecomputeTotals(sess.EvaluationID); err != nil {
		return err
	}
	return nil
}

// FinishSession closes a session with its final totals and answers the one
// question the client cannot decide alone: where to go next. Exactly one of
// the three outcomes applies, in this order: evaluation complete, next
// pending minigame, default results page
func (s *SessionService) FinishSession(ctx context.Context, r game.FinishReport) (*game.FinishResponse, error) {
	sess, err := s.sessions.GetByURL(r.SessionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	final := models.GameSession{
		Score:            r.TotalScore,
		CorrectAnswers:   r.TotalCorrect,
		IncorrectAnswers: r.TotalIncorrect,
		TimeSeconds:      r.TotalTimeSeconds,
		LevelsCompleted:  r.LevelsCompleted,
		TotalClicks:      r.TotalClicks,
		TotalHits:        r.TotalHits,
		TotalMisses:      r.TotalMisses,
	}
	if r.TotalClicks > 0 {
		final.Precision = 100.0 * float64(r.TotalHits) / float64(r.TotalClicks)
	}

	if err := s.sessions.Finish(r.SessionURL, final); err != nil {
		return nil, err
	}
	if err := s.evaluations.RecomputeTotals(sess.EvaluationID); err != nil {
		return nil, err
	}
	if err := s.live.Delete(ctx, r.SessionURL); err != nil && !errors.Is(err, statestore.ErrNotFound) {
		log.Printf("Failed to clear live state for %s: %v", r.SessionURL, err)
	}

	evaluation, err := s.evaluations.GetByID(sess.EvaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if evaluation == nil {
		return nil, ErrEvaluationNotFound
	}

	completed, err := s.sessions.CountByStatus(evaluation.ID, models.SessionCompleted)
	if err != nil {
		return nil, err
	}

	resultsURL := fmt.Sprintf("/evaluations/%d/results/", evaluation.ID)

	if completed >= evaluation.SessionsTotal {
		if err := s.evaluations.Complete(evaluation.ID); err != nil {
			return nil, err
		}
		report := s.generateRiskReport(evaluation)
		go s.sendReportEmail(evaluation)
		stats := &game.FinalStats{
			TotalScore:        evaluation.TotalScore,
			QuestionsAnswered: evaluation.QuestionsAnswered,
			TotalTimeMinutes:  evaluation.TotalTimeMinutes(),
			AveragePrecision:  evaluation.AveragePrecision,
			SessionsCompleted: completed,
			SessionsTotal:     evaluation.SessionsTotal,
		}
		if report != nil {
			stats.RiskIndex = report.RiskIndex
			stats.RiskLevel = report.RiskLevel
			stats.RiskClassification = report.Classification
		}
		return &game.FinishResponse{
			Success:            true,
			EvaluationComplete: true,
			FinalStats:         stats,
			RedirectURL:        resultsURL,
		}, nil
	}

	next, err := s.sessions.NextPending(evaluation.ID, sess.Position)
	if err != nil {
		return nil, err
	}
	if next != nil {
		return &game.FinishResponse{
			Success: true,
			NextURL: fmt.Sprintf("/play/%s/", next.SessionURL),
			Progress: &game.Progress{
				Completed:  completed,
				Total:      evaluation.SessionsTotal,
				Percentage: 100.0 * float64(completed) / float64(evaluation.SessionsTotal),
			},
		}, nil
	}

	return &game.FinishResponse{Success: true, RedirectURL: resultsURL}, nil
}

// LiveState returns the running totals of an in-progress session
func (s *SessionService) LiveState(ctx context.Context, sessionURL string) (*statestore.LiveState, error) {
	return s.live.Get(ctx, sessionURL)
}

// SessionsForEvaluation returns an evaluation's session chain with each
// session's game, ordered by position
func (s *SessionService) SessionsForEvaluation(evaluationID int64) ([]models.SessionWithGame, error) {
	sessions, err := s.sessions.GetForEvaluation(evaluationID)
	if err != nil {
		return nil, err
	}
	chain := make([]models.SessionWithGame, 0, len(sessions))
	for _, sess := range sessions {
		g, err := s.games.GetByID(sess.GameID)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, ErrUnknownGame
		}
		chain = append(chain, models.SessionWithGame{Session: sess, Game: *g})
	}
	return chain, nil
}

// EvaluationResults returns an evaluation with its session chain, per-game
// confusion counts and the screening report for the results view. The report
// is nil until the evaluation completes
func (s *SessionService) EvaluationResults(evaluationID, professionalID int64) (*models.Evaluation, []models.SessionWithGame, map[string]int, *models.AIReport, error) {
	evaluation, err := s.evaluations.GetByID(evaluationID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if evaluation == nil || evaluation.ProfessionalID != professionalID {
		return nil, nil, nil, nil, ErrEvaluationNotFound
	}

	chain, err := s.SessionsForEvaluation(evaluationID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	confusions := make(map[string]int)
	for _, sg := range chain {
		counts, err := s.trials.ConfusionCounts(sg.Session.ID)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		for confusion, n := range counts {
			confusions[confusion] += n
		}
	}

	report, err := s.reports.GetForEvaluation(evaluationID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return evaluation, chain, confusions, report, nil
}

// generateRiskReport runs the screening heuristic over the evaluation's
// trials and stores the result. The finish flow never blocks on the
// screening; failures are logged and the response goes out without it
func (s *SessionService) generateRiskReport(evaluation *models.Evaluation) *models.AIReport {
	sessions, err := s.sessions.GetForEvaluation(evaluation.ID)
	if err != nil {
		log.Printf("Failed to load sessions for screening of evaluation %d: %v", evaluation.ID, err)
		return nil
	}

	var totalMs int64
	var trialCount, mirror, other int
	for _, sess := range sessions {
		trials, err := s.trials.GetForSession(sess.ID)
		if err != nil {
			log.Printf("Failed to load trials for screening of evaluation %d: %v", evaluation.ID, err)
			return nil
		}
		for _, trial := range trials {
			totalMs += trial.ResponseTimeMs
			trialCount++
			if trial.IsCorrect || trial.ConfusionType == "" {
				continue
			}
			switch trial.ConfusionType {
			case "b-d", "d-b", "p-q", "q-p":
				mirror++
			default:
				other++
			}
		}
	}

	in := risk.Inputs{
		AveragePrecision: evaluation.AveragePrecision,
		MirrorConfusions: mirror,
		OtherConfusions:  other,
	}
	if trialCount > 0 {
		in.AvgResponseMs = float64(totalMs) / float64(trialCount)
	}

	assessed := risk.Assess(in)
	report := &models.AIReport{
		EvaluationID:   evaluation.ID,
		RiskIndex:      assessed.RiskIndex,
		RiskLevel:      assessed.RiskLevel,
		Classification: assessed.Classification,
		Confidence:     assessed.Confidence,
		Recommendation: assessed.Recommendation,
		Simulated:      assessed.Simulated,
	}
	if err := s.reports.Upsert(report); err != nil {
		log.Printf("Failed to store screening report for evaluation %d: %v", evaluation.ID, err)
	}
	return report
}

// refreshLiveState folds one question report into the session's live totals.
// The live store is a monitoring convenience, so failures are logged and
// swallowed
func (s *SessionService) refreshLiveState(ctx context.Context, r game.QuestionReport) {
	state, err := s.live.Get(ctx, r.SessionURL)
	if err != nil {
		if !errors.Is(err, statestore.ErrNotFound) {
			log.Printf("Failed to read live state for %s: %v", r.SessionURL, err)
			return
		}
		state = &statestore.LiveState{SessionURL: r.SessionURL}
	}

	state.Level = r.Level
	state.QuestionsAnswered++
	if r.IsCorrect {
		state.CorrectAnswers++
	}
	state.Score += r.PointsEarned
	state.UpdatedAt = time.Now()

	if err := s.live.Put(ctx, *state); err != nil {
		log.Printf("Failed to store live state for %s: %v", r.SessionURL, err)
	}
}

// sendReportEmail mails the evaluation summary to the owning professional.
// Best effort: a mail failure never blocks the finish response
func (s *SessionService) sendReportEmail(evaluation *models.Evaluation) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}

	professional, err := s.professionals.GetByID(evaluation.ProfessionalID)
	if err != nil || professional == nil {
		log.Printf("Failed to load professional %d for report email: %v", evaluation.ProfessionalID, err)
		return
	}
	child, err := s.children.GetByID(evaluation.ChildID)
	if err != nil || child == nil {
		log.Printf("Failed to load child %d for report email: %v", evaluation.ChildID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.email.SendEvaluationReport(ctx, professional.Email, professional.FullName, child.Name, evaluation); err != nil {
		log.Printf("Failed to send evaluation report for evaluation %d: %v", evaluation.ID, err)
	}
}
