package game

// Award bundles the inputs to the scoring formula for one resolved question.
type Award struct {
	Question       *Question
	ResponseTimeMs int64
	Attempts       int
	HintUsed       bool
	AudioReplays   int

	// Variant traits. FirstTryBonus grants the spelling bonus when the
	// answer landed on the first attempt; ReplayPenalty charges for audio
	// replays beyond the first.
	FirstTryBonus bool
	ReplayPenalty bool
}

// PointsFor computes the raw point value for a correct answer: base points
// plus one time-bonus unit per unspent second, minus the hint penalty when a
// hint was used. The hint penalty is applied exactly once, here; hint use
// never deducts from the running score immediately. The result may be
// negative; callers clamp at zero when adding to the running score.
func PointsFor(sc Scoring, a Award) int {
	timeBonus := a.Question.TimeLimit - int(a.ResponseTimeMs/1000)
	if timeBonus < 0 {
		timeBonus = 0
	}

	points := a.Question.Points + timeBonus*sc.TimeBonus

	if a.FirstTryBonus && a.Attempts == 1 {
		points += sc.SpellingBonus
	}
	if a.HintUsed {
		points -= sc.HintPenalty
	}
	if a.ReplayPenalty && a.AudioReplays > 1 {
		points -= (a.AudioReplays - 1) * sc.ReplayAudioPenalty
	}

	return points
}

// clampScore floors a point value at zero before it joins the running score.
func clampScore(points int) int {
	if points < 0 {
		return 0
	}
	return points
}
