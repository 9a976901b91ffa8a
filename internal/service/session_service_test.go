package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"lexio/internal/database"
	"lexio/internal/game"
	"lexio/internal/models"
	"lexio/internal/repository"
	"lexio/internal/risk"
	"lexio/internal/statestore"
)

type testEnv struct {
	db            *database.DB
	professionals *repository.ProfessionalRepository
	children      *repository.ChildRepository
	trials        *repository.TrialRepository
	reports       *repository.ReportRepository
	live          *statestore.MemoryStore
	games         *GameService
	sessions      *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	professionals := repository.NewProfessionalRepository(db)
	children := repository.NewChildRepository(db)
	gameRepo := repository.NewGameRepository(db)
	evaluations := repository.NewEvaluationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	trials := repository.NewTrialRepository(db)
	reports := repository.NewReportRepository(db)

	live := statestore.NewMemoryStore()
	games := NewGameService(gameRepo, "../../configs", nil)
	if err := games.SeedCatalog(); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	sessions := NewSessionService(sessionRepo, evaluations, gameRepo, children,
		professionals, trials, reports, games, live, nil)

	return &testEnv{
		db:            db,
		professionals: professionals,
		children:      children,
		trials:        trials,
		reports:       reports,
		live:          live,
		games:         games,
		sessions:      sessions,
	}
}

func (env *testEnv) createChild(t *testing.T) (*models.Professional, *models.Child) {
	t.Helper()
	professional, err := env.professionals.Create("ana@example.com", "hash", "Ana Torres", "fonoaudiologia", "")
	if err != nil {
		t.Fatalf("create professional: %v", err)
	}
	child, err := env.children.Create(professional.ID, "Lucas", 8, "3ro", "")
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	return professional, child
}

func finishReport(sessionURL string) game.FinishReport {
	return game.FinishReport{
		SessionURL:       sessionURL,
		TotalScore:       120,
		TotalCorrect:     5,
		TotalIncorrect:   1,
		TotalTimeSeconds: 90,
		LevelsCompleted:  2,
		TotalClicks:      8,
		TotalHits:        5,
		TotalMisses:      3,
	}
}

func TestCreateEvaluationSeedsSessionChain(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)

	evaluation, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}

	if evaluation.SessionsTotal != 6 {
		t.Errorf("SessionsTotal = %d, want 6", evaluation.SessionsTotal)
	}
	if len(chain) != 6 {
		t.Fatalf("chain length = %d, want 6", len(chain))
	}
	for i, sg := range chain {
		if sg.Session.Position != i+1 {
			t.Errorf("session %d position = %d, want %d", i, sg.Session.Position, i+1)
		}
		if sg.Session.Status != models.SessionPending {
			t.Errorf("session %d status = %s, want pending", i, sg.Session.Status)
		}
		if sg.Session.SessionURL == "" {
			t.Errorf("session %d has empty URL", i)
		}
	}
	if chain[0].Game.Slug != "completa-la-palabra" {
		t.Errorf("first game = %s, want completa-la-palabra", chain[0].Game.Slug)
	}
	if chain[5].Game.Slug != "selecciona-la-palabra-correcta" {
		t.Errorf("last game = %s, want selecciona-la-palabra-correcta", chain[5].Game.Slug)
	}
}

func TestCreateEvaluationRejectsForeignChild(t *testing.T) {
	env := newTestEnv(t)
	_, child := env.createChild(t)

	other, err := env.professionals.Create("otro@example.com", "hash", "Otro Profe", "", "")
	if err != nil {
		t.Fatalf("create professional: %v", err)
	}

	if _, _, err := env.sessions.CreateEvaluation(child.ID, other.ID, false); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("err = %v, want ErrChildNotFound", err)
	}
}

func TestBootstrapStartsSession(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)

	_, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, true)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}
	url := chain[0].Session.SessionURL

	session, cfg, err := env.sessions.Bootstrap(url)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if session.SessionURL != url {
		t.Errorf("SessionURL = %s, want %s", session.SessionURL, url)
	}
	if !session.AIEvaluation {
		t.Error("AIEvaluation not carried into bootstrap")
	}
	if cfg.Slug != "completa-la-palabra" {
		t.Errorf("config slug = %s, want completa-la-palabra", cfg.Slug)
	}
	want := "/api/sessions/" + url + "/finish"
	if session.Endpoints.FinishGame != want {
		t.Errorf("FinishGame = %s, want %s", session.Endpoints.FinishGame, want)
	}

	chain, err = env.sessions.SessionsForEvaluation(session.EvaluationID)
	if err != nil {
		t.Fatalf("SessionsForEvaluation: %v", err)
	}
	if chain[0].Session.Status != models.SessionInProgress {
		t.Errorf("session status = %s, want in_progress", chain[0].Session.Status)
	}
}

func TestBootstrapUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	if _, _, err := env.sessions.Bootstrap("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestRecordQuestionResultStoresTrialAndLiveState(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	ctx := context.Background()

	_, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}
	url := chain[0].Session.SessionURL

	report := game.QuestionReport{
		SessionURL:     url,
		QuestionID:     1,
		Level:          1,
		IsCorrect:      false,
		ResponseTimeMs: 4200,
		SelectedOption: "pelro",
		Attempts:       2,
	}
	if err := env.sessions.RecordQuestionResult(ctx, report); err != nil {
		t.Fatalf("RecordQuestionResult: %v", err)
	}

	// A later report for the same question overwrites the first
	report.IsCorrect = true
	report.Attempts = 3
	report.PointsEarned = 10
	report.SelectedOption = "perro"
	if err := env.sessions.RecordQuestionResult(ctx, report); err != nil {
		t.Fatalf("RecordQuestionResult: %v", err)
	}

	trials, err := env.trials.GetForSession(chain[0].Session.ID)
	if err != nil {
		t.Fatalf("GetForSession: %v", err)
	}
	if len(trials) != 1 {
		t.Fatalf("trial count = %d, want 1", len(trials))
	}
	if !trials[0].IsCorrect || trials[0].Attempts != 3 || trials[0].PointsEarned != 10 {
		t.Errorf("trial = %+v, want correct with 3 attempts and 10 points", trials[0])
	}

	state, err := env.sessions.LiveState(ctx, url)
	if err != nil {
		t.Fatalf("LiveState: %v", err)
	}
	if state.QuestionsAnswered != 2 {
		t.Errorf("QuestionsAnswered = %d, want 2", state.QuestionsAnswered)
	}
	if state.CorrectAnswers != 1 {
		t.Errorf("CorrectAnswers = %d, want 1", state.CorrectAnswers)
	}
	if state.Score != 10 {
		t.Errorf("Score = %d, want 10", state.Score)
	}
}

func TestFinishSessionAdvancesToNextGame(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	ctx := context.Background()

	evaluation, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}

	resp, err := env.sessions.FinishSession(ctx, finishReport(chain[0].Session.SessionURL))
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	if !resp.Success {
		t.Fatal("Success = false")
	}
	if resp.EvaluationComplete {
		t.Error("EvaluationComplete after first of six sessions")
	}
	wantNext := "/play/" + chain[1].Session.SessionURL + "/"
	if resp.NextURL != wantNext {
		t.Errorf("NextURL = %s, want %s", resp.NextURL, wantNext)
	}
	if resp.Progress == nil {
		t.Fatal("Progress missing")
	}
	if resp.Progress.Completed != 1 || resp.Progress.Total != 6 {
		t.Errorf("Progress = %d/%d, want 1/6", resp.Progress.Completed, resp.Progress.Total)
	}

	updated, _, _, _, err := env.sessions.EvaluationResults(evaluation.ID, professional.ID)
	if err != nil {
		t.Fatalf("EvaluationResults: %v", err)
	}
	if updated.TotalScore != 120 {
		t.Errorf("evaluation TotalScore = %d, want 120", updated.TotalScore)
	}
	if updated.Status != models.EvaluationInProgress && updated.Status != models.EvaluationPending {
		t.Errorf("evaluation status = %s, want not completed", updated.Status)
	}
}

func TestFinishLastSessionCompletesEvaluation(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	ctx := context.Background()

	evaluation, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}

	var resp *game.FinishResponse
	for _, sg := range chain {
		resp, err = env.sessions.FinishSession(ctx, finishReport(sg.Session.SessionURL))
		if err != nil {
			t.Fatalf("FinishSession %s: %v", sg.Game.Slug, err)
		}
	}

	if !resp.EvaluationComplete {
		t.Fatal("EvaluationComplete = false after last session")
	}
	if resp.FinalStats == nil {
		t.Fatal("FinalStats missing")
	}
	if resp.FinalStats.TotalScore != 6*120 {
		t.Errorf("TotalScore = %d, want %d", resp.FinalStats.TotalScore, 6*120)
	}
	if resp.FinalStats.QuestionsAnswered != 6*6 {
		t.Errorf("QuestionsAnswered = %d, want %d", resp.FinalStats.QuestionsAnswered, 6*6)
	}
	if resp.FinalStats.SessionsCompleted != 6 {
		t.Errorf("SessionsCompleted = %d, want 6", resp.FinalStats.SessionsCompleted)
	}
	if !strings.Contains(resp.RedirectURL, "/results/") {
		t.Errorf("RedirectURL = %s, want results page", resp.RedirectURL)
	}

	updated, _, _, _, err := env.sessions.EvaluationResults(evaluation.ID, professional.ID)
	if err != nil {
		t.Fatalf("EvaluationResults: %v", err)
	}
	if updated.Status != models.EvaluationCompleted {
		t.Errorf("evaluation status = %s, want completed", updated.Status)
	}
}

func TestFinishUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.sessions.FinishSession(context.Background(), finishReport("no-such-session")); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestFinishClearsLiveState(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	ctx := context.Background()

	_, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}
	url := chain[0].Session.SessionURL

	report := game.QuestionReport{SessionURL: url, QuestionID: 1, Level: 1, IsCorrect: true, PointsEarned: 10, Attempts: 1}
	if err := env.sessions.RecordQuestionResult(ctx, report); err != nil {
		t.Fatalf("RecordQuestionResult: %v", err)
	}

	if _, err := env.sessions.FinishSession(ctx, finishReport(url)); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	if _, err := env.sessions.LiveState(ctx, url); !errors.Is(err, statestore.ErrNotFound) {
		t.Errorf("LiveState err = %v, want ErrNotFound", err)
	}
}

func TestEvaluationResultsAggregatesConfusions(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	ctx := context.Background()

	evaluation, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}

	reports := []game.QuestionReport{
		{SessionURL: chain[5].Session.SessionURL, QuestionID: 1, Level: 1, Attempts: 1, SelectedOption: "baca", ConfusionType: "b-v"},
		{SessionURL: chain[5].Session.SessionURL, QuestionID: 2, Level: 1, Attempts: 1, SelectedOption: "bedo", ConfusionType: "b-d"},
		{SessionURL: chain[0].Session.SessionURL, QuestionID: 1, Level: 1, Attempts: 1, SelectedOption: "pelro", ConfusionType: "b-v"},
	}
	for _, r := range reports {
		if err := env.sessions.RecordQuestionResult(ctx, r); err != nil {
			t.Fatalf("RecordQuestionResult: %v", err)
		}
	}

	_, _, confusions, _, err := env.sessions.EvaluationResults(evaluation.ID, professional.ID)
	if err != nil {
		t.Fatalf("EvaluationResults: %v", err)
	}
	if confusions["b-v"] != 2 {
		t.Errorf("b-v count = %d, want 2", confusions["b-v"])
	}
	if confusions["b-d"] != 1 {
		t.Errorf("b-d count = %d, want 1", confusions["b-d"])
	}
}

func TestLevelTotalsAccumulateAcrossLevels(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	_, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}
	url := chain[0].Session.SessionURL
	ctx := context.Background()

	reports := []game.LevelReport{
		{SessionURL: url, Level: 1, TotalQuestions: 5, CorrectAnswers: 3, IncorrectAnswers: 2, TotalScore: 80},
		{SessionURL: url, Level: 2, TotalQuestions: 5, CorrectAnswers: 4, IncorrectAnswers: 1, TotalScore: 170},
	}
	for _, r := range reports {
		if err := env.sessions.RecordLevelResult(ctx, r); err != nil {
			t.Fatalf("RecordLevelResult level %d: %v", r.Level, err)
		}
	}

	sess, err := repository.NewSessionRepository(env.db).GetByURL(url)
	if err != nil {
		t.Fatalf("GetByURL: %v", err)
	}
	if sess.CorrectAnswers != 7 || sess.IncorrectAnswers != 3 {
		t.Errorf("answers = %d/%d, want 7/3", sess.CorrectAnswers, sess.IncorrectAnswers)
	}
	if sess.Score != 170 {
		t.Errorf("score = %d, want 170", sess.Score)
	}
	if sess.Precision != 70.0 {
		t.Errorf("precision = %v, want 70 from cumulative 7 of 10", sess.Precision)
	}
}

func TestFinishLastSessionGeneratesScreeningReport(t *testing.T) {
	env := newTestEnv(t)
	professional, child := env.createChild(t)
	ctx := context.Background()

	evaluation, chain, err := env.sessions.CreateEvaluation(child.ID, professional.ID, false)
	if err != nil {
		t.Fatalf("CreateEvaluation: %v", err)
	}

	mirrorPick := game.QuestionReport{
		SessionURL:     chain[0].Session.SessionURL,
		QuestionID:     1,
		Level:          1,
		IsCorrect:      false,
		ResponseTimeMs: 3000,
		SelectedOption: "danana",
		ConfusionType:  "b-d",
		Attempts:       1,
	}
	if err := env.sessions.RecordQuestionResult(ctx, mirrorPick); err != nil {
		t.Fatalf("RecordQuestionResult: %v", err)
	}

	var last *game.FinishResponse
	for _, sg := range chain {
		last, err = env.sessions.FinishSession(ctx, finishReport(sg.Session.SessionURL))
		if err != nil {
			t.Fatalf("FinishSession %s: %v", sg.Game.Slug, err)
		}
	}

	if !last.EvaluationComplete {
		t.Fatal("EvaluationComplete = false after the whole chain")
	}
	stats := last.FinalStats
	if stats == nil {
		t.Fatal("FinalStats missing")
	}
	if stats.RiskLevel != risk.LevelLow {
		t.Errorf("RiskLevel = %q, want %q for 30 of 36 correct", stats.RiskLevel, risk.LevelLow)
	}
	if stats.RiskClassification != risk.ClassNotDetected {
		t.Errorf("RiskClassification = %q, want %q", stats.RiskClassification, risk.ClassNotDetected)
	}
	if stats.RiskIndex <= 0 || stats.RiskIndex >= 35 {
		t.Errorf("RiskIndex = %v, want inside the low band", stats.RiskIndex)
	}

	report, err := env.reports.GetForEvaluation(evaluation.ID)
	if err != nil {
		t.Fatalf("GetForEvaluation: %v", err)
	}
	if report == nil {
		t.Fatal("no screening report stored for the completed evaluation")
	}
	if report.RiskIndex != stats.RiskIndex || report.RiskLevel != stats.RiskLevel {
		t.Errorf("stored report %v/%q does not match final stats %v/%q",
			report.RiskIndex, report.RiskLevel, stats.RiskIndex, stats.RiskLevel)
	}
	if !report.Simulated {
		t.Error("heuristic report not flagged as simulated")
	}
	if report.Recommendation == "" {
		t.Error("empty recommendation")
	}
}
