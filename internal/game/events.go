package game

// LevelSummary is handed to the sink when a level completes.
type LevelSummary struct {
	Level            int
	TotalQuestions   int
	CorrectAnswers   int
	IncorrectAnswers int
	TotalScore       int
	LastLevel        bool
}

// EventSink receives engine state changes. Render adapters implement it; the
// engine itself never touches a screen. Callbacks must not call back into the
// engine synchronously.
type EventSink interface {
	// QuestionStarted fires on entering a question. number is 1-based
	// within the level's selected set of size total.
	QuestionStarted(level, number, total int, q *Question)

	// TimerTick fires every second while a question is active. warning is
	// set once remaining drops to the warning threshold.
	TimerTick(remaining int, warning bool)

	// AnswerEvaluated fires after a submission that did not resolve the
	// question (a wrong answer with attempts left).
	AnswerEvaluated(attemptsLeft int, q *Question)

	// QuestionResolved fires when a question ends, by correct answer,
	// exhausted attempts, or timeout. points is what the answer added to
	// the score.
	QuestionResolved(correct bool, points int, q *Question)

	// LevelCompleted fires when the level's last question resolves, in a
	// normal play-through. Evaluation sessions skip it.
	LevelCompleted(s LevelSummary)

	// GameFinished fires after a successful finish report.
	GameFinished(nav *Navigation)

	// FinishFailed fires when the finish report fails or the backend
	// answers success=false. Blocking; the play-through cannot conclude.
	FinishFailed(err error)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) QuestionStarted(level, number, total int, q *Question) {}
func (NopSink) TimerTick(remaining int, warning bool) {}
func (NopSink) AnswerEvaluated(attemptsLeft int, q *Question) {}
func (NopSink) QuestionResolved(correct bool, points int, q *Question) {}
func (NopSink) LevelCompleted(s LevelSummary) {}
func (NopSink) GameFinished(nav *Navigation) {}
func (NopSink) FinishFailed(err error) {}
