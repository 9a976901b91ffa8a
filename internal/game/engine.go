package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// Phase is the engine's position in the play-through lifecycle.
type Phase int

const (
	// PhaseIdle is the constructed-but-not-started state.
	PhaseIdle Phase = iota
	// PhaseActive means a question is on screen and the timer is running.
	PhaseActive
	// PhaseResolving is the feedback window between a resolved question
	// and the next one.
	PhaseResolving
	// PhaseLevelComplete means the level summary is showing and the engine
	// waits for NextLevel.
	PhaseLevelComplete
	// PhaseFinished means the finish report has been sent (or attempted);
	// the engine accepts no further input.
	PhaseFinished
)

var (
	ErrNotActive      = errors.New("no question is active")
	ErrNotLevelEnd    = errors.New("level is not complete")
	ErrAlreadyStarted = errors.New("play-through already started")
	ErrReporter       = errors.New("reporter is required")
)

// Outcome describes what a submission did.
type Outcome struct {
	Correct bool
	// Resolved means the question ended with this submission, either
	// correctly or by exhausting attempts. When false the learner may try
	// again.
	Resolved bool
	// Points is what the submission added to the running score.
	Points       int
	AttemptsLeft int
}

// Engine runs one learner's play-through of one minigame: question selection,
// the countdown, answer evaluation, scoring and result reporting. It holds no
// rendering; an EventSink observes the transitions.
//
// All methods are safe for concurrent use. Timer ticks and a learner's
// submission may race to end a question; whichever transitions out of
// PhaseActive first wins and the loser becomes a no-op.
type Engine struct {
	mu sync.Mutex

	session  *Session
	cfg      *GameConfig
	variant  Variant
	selector *Selector
	timer    *QuestionTimer
	clock    Clock
	sched    Scheduler
	reporter Reporter
	sink     EventSink

	ctx context.Context

	phase       Phase
	level       int
	questions   []Question
	questionIdx int

	attempts      int
	hintUsed      bool
	audioReplays  int
	questionStart time.Time

	startedAt time.Time

	score            int
	correctAnswers   int
	incorrectAnswers int
	totalCorrect     int
	totalIncorrect   int
	levelsCompleted  int
	totalClicks      int
	totalHits        int
	totalMisses      int

	lastNav *Navigation
}

// EngineOption customizes an Engine at construction.
type EngineOption func(*Engine)

// WithClock replaces the wall clock, for tests.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithScheduler replaces the tick/delay scheduler, for tests.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.sched = s }
}

// NewEngine builds an engine for the session and config. The config's slug
// selects the minigame variant. Missing session or config data is fatal; the
// play-through never starts on bad inputs.
func NewEngine(session *Session, cfg *GameConfig, reporter Reporter, sink EventSink, opts ...EngineOption) (*Engine, error) {
	if session == nil || session.SessionURL == "" {
		return nil, ErrEmptySession
	}
	if cfg == nil {
		return nil, ErrMissingConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reporter == nil {
		return nil, ErrReporter
	}
	variant, err := VariantBySlug(cfg.Slug)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	e := &Engine{
		session:  session,
		cfg:      cfg,
		variant:  variant,
		selector: NewSelector(cfg),
		clock:    NewClock(),
		sched:    NewScheduler(),
		reporter: reporter,
		sink:     sink,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.timer = NewQuestionTimer(e.sched, e.handleTick, e.handleTimeout)
	return e, nil
}

// Start begins the play-through at level 1.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.phase != PhaseIdle {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.ctx = ctx
	e.startedAt = e.clock.Now()
	e.level = 1
	e.startLevelLocked()
	return nil
}

// Submit evaluates a learner's answer to the active question. A wrong answer
// with attempts left returns an unresolved Outcome; otherwise the question
// ends and the engine schedules the advance to the next one.
func (e *Engine) Submit(a Answer) (*Outcome, error) {
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return nil, ErrNotActive
	}

	q := &e.questions[e.questionIdx]
	e.attempts++
	e.totalClicks++

	if e.variant.Evaluate(q, a) {
		e.totalHits++
		points := e.resolveLocked(true, a, false)
		e.mu.Unlock()
		e.sink.QuestionResolved(true, points, q)
		return &Outcome{Correct: true, Resolved: true, Points: points}, nil
	}

	e.totalMisses++
	if e.attempts >= e.variant.MaxAttempts {
		points := e.resolveLocked(false, a, false)
		e.mu.Unlock()
		e.sink.QuestionResolved(false, points, q)
		return &Outcome{Resolved: true}, nil
	}

	if e.cfg.Mechanics.ShuffleOnWrong && len(q.ScrambledLetters) > 1 {
		rand.Shuffle(len(q.ScrambledLetters), func(i, j int) {
			q.ScrambledLetters[i], q.ScrambledLetters[j] = q.ScrambledLetters[j], q.ScrambledLetters[i]
		})
	}
	left := e.variant.MaxAttempts - e.attempts
	e.mu.Unlock()
	e.sink.AnswerEvaluated(left, q)
	return &Outcome{AttemptsLeft: left}, nil
}

// UseHint reveals the active question's hint. The hint penalty is charged
// once at scoring time, no matter how often this is called.
func (e *Engine) UseHint() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return "", ErrNotActive
	}
	e.hintUsed = true
	return e.questions[e.questionIdx].Hint, nil
}

// RegisterAudioPlay records one playback of the active question's audio and
// reports whether it was allowed. Playback beyond the configured maximum is
// refused.
func (e *Engine) RegisterAudioPlay() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive {
		return false, ErrNotActive
	}
	if max := e.cfg.Mechanics.MaxAudioReplays; max > 0 && e.audioReplays >= max {
		return false, nil
	}
	e.audioReplays++
	return true, nil
}

// NextLevel leaves the level summary. It enters the next configured level,
// or finishes the game when none remains. Finishing blocks on the finish
// report.
func (e *Engine) NextLevel() error {
	e.mu.Lock()
	if e.phase != PhaseLevelComplete {
		e.mu.Unlock()
		return ErrNotLevelEnd
	}
	if e.cfg.LevelByNumber(e.level+1) == nil {
		e.phase = PhaseResolving
		e.mu.Unlock()
		e.finish()
		return nil
	}
	e.level++
	e.correctAnswers = 0
	e.incorrectAnswers = 0
	e.startLevelLocked()
	return nil
}

// Pause halts the countdown, keeping the question active.
func (e *Engine) Pause() {
	e.mu.Lock()
	active := e.phase == PhaseActive
	e.mu.Unlock()
	if active {
		e.timer.Pause()
	}
}

// Resume restarts a paused countdown.
func (e *Engine) Resume() {
	e.mu.Lock()
	active := e.phase == PhaseActive
	e.mu.Unlock()
	if active {
		e.timer.Resume()
	}
}

// Phase returns the engine's lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Score returns the running score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// Level returns the current level number.
func (e *Engine) Level() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Attempts returns how many submissions the active question has seen.
func (e *Engine) Attempts() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attempts
}

// CurrentQuestion returns the active question plus its 1-based position in
// the level's selected set. It returns nil when no question is active.
func (e *Engine) CurrentQuestion() (q *Question, number, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseActive && e.phase != PhaseResolving {
		return nil, 0, 0
	}
	if e.questionIdx >= len(e.questions) {
		return nil, 0, 0
	}
	return &e.questions[e.questionIdx], e.questionIdx + 1, len(e.questions)
}

// Navigation returns the outcome of the finish report, once finished.
func (e *Engine) Navigation() *Navigation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastNav
}

// Variant returns the minigame behavior record the engine runs.
func (e *Engine) Variant() Variant { return e.variant }

// startLevelLocked draws the level's questions and enters the first one. An
// empty pool completes the level immediately. Releases e.mu.
func (e *Engine) startLevelLocked() {
	e.questions = e.selector.QuestionsForLevel(e.level)
	e.questionIdx = 0
	if len(e.questions) == 0 {
		e.completeLevelLocked()
		return
	}
	e.enterQuestionLocked()
}

// enterQuestionLocked resets the per-question state and starts the countdown.
// Releases e.mu.
func (e *Engine) enterQuestionLocked() {
	e.attempts = 0
	e.hintUsed = false
	e.audioReplays = 0
	e.questionStart = e.clock.Now()
	e.phase = PhaseActive

	q := &e.questions[e.questionIdx]
	level, number, total := e.level, e.questionIdx+1, len(e.questions)
	e.mu.Unlock()

	e.sink.QuestionStarted(level, number, total, q)
	e.timer.Start(q.TimeLimit)
}

// resolveLocked ends the active question: stops the timer, scores a correct
// answer, fires the telemetry report and schedules the advance. Returns the
// points added to the score. Called with e.mu held.
func (e *Engine) resolveLocked(correct bool, a Answer, timedOut bool) int {
	e.phase = PhaseResolving
	e.timer.Stop()

	q := &e.questions[e.questionIdx]
	elapsed := e.clock.Now().Sub(e.questionStart)

	points := 0
	if correct {
		points = clampScore(PointsFor(e.cfg.Scoring, Award{
			Question:       q,
			ResponseTimeMs: elapsed.Milliseconds(),
			Attempts:       e.attempts,
			HintUsed:       e.hintUsed,
			AudioReplays:   e.audioReplays,
			FirstTryBonus:  e.variant.FirstTryBonus,
			ReplayPenalty:  e.variant.ReplayPenalty,
		}))
		e.score += points
		e.correctAnswers++
	} else {
		e.incorrectAnswers++
	}

	report := QuestionReport{
		SessionURL:     e.session.SessionURL,
		QuestionID:     q.ID,
		Level:          e.level,
		IsCorrect:      correct,
		ResponseTimeMs: elapsed.Milliseconds(),
		SelectedOption: selectedText(e.variant, q, a, timedOut),
		Attempts:       e.attempts,
		HintUsed:       e.hintUsed,
	}
	if correct {
		// The backend stores the question's base value here; the time
		// bonus and penalties only affect the client-side score.
		report.PointsEarned = q.Points
	}
	if e.variant.ReplayPenalty {
		report.AudioReplays = e.audioReplays
	}
	if e.variant.Slug == ChooseWord.Slug && !timedOut && a.Index >= 0 && a.Index < len(q.Options) {
		report.ConfusionType = q.Options[a.Index].ConfusionType
	}
	go e.sendQuestionReport(report)

	e.sched.After(e.variant.AdvanceDelay, e.advance)
	return points
}

// advance moves past the feedback window to the next question or the level
// summary.
func (e *Engine) advance() {
	e.mu.Lock()
	if e.phase != PhaseResolving {
		e.mu.Unlock()
		return
	}
	e.questionIdx++
	if e.questionIdx < len(e.questions) {
		e.enterQuestionLocked()
		return
	}
	e.completeLevelLocked()
}

// completeLevelLocked closes out the current level. Evaluation sessions go
// straight to the finish report; normal play-throughs report the level and
// wait on NextLevel. Releases e.mu.
func (e *Engine) completeLevelLocked() {
	e.levelsCompleted++
	e.totalCorrect += e.correctAnswers
	e.totalIncorrect += e.incorrectAnswers

	if e.session.AIEvaluation {
		e.phase = PhaseResolving
		e.mu.Unlock()
		e.finish()
		return
	}

	report := LevelReport{
		SessionURL:       e.session.SessionURL,
		Level:            e.level,
		TotalQuestions:   len(e.questions),
		CorrectAnswers:   e.correctAnswers,
		IncorrectAnswers: e.incorrectAnswers,
		TotalScore:       e.score,
	}
	summary := LevelSummary{
		Level:            e.level,
		TotalQuestions:   len(e.questions),
		CorrectAnswers:   e.correctAnswers,
		IncorrectAnswers: e.incorrectAnswers,
		TotalScore:       e.score,
		LastLevel:        e.cfg.LevelByNumber(e.level+1) == nil,
	}
	e.phase = PhaseLevelComplete
	e.mu.Unlock()

	go e.sendLevelReport(report)
	e.sink.LevelCompleted(summary)
}

// finish sends the one finish report and resolves navigation from its
// response. Failures are blocking: play cannot conclude without the backend's
// answer, and there is no retry.
func (e *Engine) finish() {
	e.mu.Lock()
	if e.phase == PhaseFinished {
		e.mu.Unlock()
		return
	}
	e.phase = PhaseFinished
	report := FinishReport{
		SessionURL:       e.session.SessionURL,
		TotalScore:       e.score,
		TotalCorrect:     e.totalCorrect,
		TotalIncorrect:   e.totalIncorrect,
		TotalTimeSeconds: int(e.clock.Now().Sub(e.startedAt).Seconds()),
		LevelsCompleted:  e.levelsCompleted,
		TotalClicks:      e.totalClicks,
		TotalHits:        e.totalHits,
		TotalMisses:      e.totalMisses,
	}
	ctx := e.ctx
	e.mu.Unlock()

	resp, err := e.reporter.ReportFinish(ctx, report)
	if err != nil {
		e.sink.FinishFailed(fmt.Errorf("failed to report game finish: %w", err))
		return
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "the server rejected the game results"
		}
		e.sink.FinishFailed(errors.New(msg))
		return
	}

	nav := e.navigationFor(resp)
	e.mu.Lock()
	e.lastNav = nav
	e.mu.Unlock()
	e.sink.GameFinished(nav)
}

// navigationFor maps a successful finish response onto one of the three
// navigation outcomes. The response is the sole authority on what comes
// next; the client never guesses from its own game list.
func (e *Engine) navigationFor(resp *FinishResponse) *Navigation {
	switch {
	case resp.EvaluationComplete:
		return &Navigation{
			Outcome: NavEvaluationComplete,
			URL:     resp.RedirectURL,
			Stats:   resp.FinalStats,
		}
	case resp.NextURL != "":
		return &Navigation{
			Outcome:  NavNextGame,
			URL:      resp.NextURL,
			Progress: resp.Progress,
		}
	default:
		url := resp.RedirectURL
		if url == "" {
			url = e.session.Endpoints.GameList
		}
		return &Navigation{Outcome: NavResults, URL: url}
	}
}

func (e *Engine) handleTick(remaining int, warning bool) {
	e.sink.TimerTick(remaining, warning)
}

// handleTimeout treats an expired countdown like exhausted attempts: the
// question resolves incorrect with whatever attempts were made.
func (e *Engine) handleTimeout() {
	e.mu.Lock()
	if e.phase != PhaseActive {
		e.mu.Unlock()
		return
	}
	e.totalMisses++
	q := &e.questions[e.questionIdx]
	e.resolveLocked(false, Answer{}, true)
	e.mu.Unlock()
	e.sink.QuestionResolved(false, 0, q)
}

func (e *Engine) sendQuestionReport(r QuestionReport) {
	if err := e.reporter.ReportQuestion(e.ctx, r); err != nil {
		log.Printf("Failed to report question %d result: %v", r.QuestionID, err)
	}
}

func (e *Engine) sendLevelReport(r LevelReport) {
	if err := e.reporter.ReportLevel(e.ctx, r); err != nil {
		log.Printf("Failed to report level %d result: %v", r.Level, err)
	}
}

// selectedText renders the learner's answer for telemetry: the picked option
// for option games, the clicked position for find-the-error, the typed text
// otherwise. Timeouts report an empty answer.
func selectedText(v Variant, q *Question, a Answer, timedOut bool) string {
	if timedOut {
		return ""
	}
	switch v.Slug {
	case FindError.Slug:
		return strconv.Itoa(a.Index)
	case ChooseWord.Slug:
		if a.Index >= 0 && a.Index < len(q.Options) {
			return q.Options[a.Index].Text
		}
		return ""
	default:
		return a.Text
	}
}
