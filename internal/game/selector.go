package game

import "math/rand"

// DefaultSelectionSize is how many questions a play-through draws from a
// level's pool.
const DefaultSelectionSize = 5

type selectedQuestions struct {
	level     int
	questions []Question
}

// Selector picks the random question subset for each level. The selection is
// a full shuffle of the pool truncated to the selection size, cached until
// the requested level changes, so repeated calls during one level always see
// the same sequence.
type Selector struct {
	cfg   *GameConfig
	size  int
	cache *selectedQuestions
}

// NewSelector creates a selector over cfg drawing DefaultSelectionSize
// questions per level.
func NewSelector(cfg *GameConfig) *Selector {
	return &Selector{cfg: cfg, size: DefaultSelectionSize}
}

// QuestionsForLevel returns the cached selection for level, drawing a fresh
// one when the level changed since the last call. A level with no configured
// pool yields an empty sequence, which callers treat as "level complete with
// zero questions".
func (s *Selector) QuestionsForLevel(level int) []Question {
	lvl := s.cfg.LevelByNumber(level)
	if lvl == nil || len(lvl.Questions) == 0 {
		return nil
	}

	if s.cache == nil || s.cache.level != level {
		s.cache = &selectedQuestions{
			level:     level,
			questions: randomSubset(lvl.Questions, s.size),
		}
	}

	return s.cache.questions
}

// randomSubset shuffles a copy of pool and truncates it to count. The copy
// is deep for the slice fields so in-play mechanics that reorder them, like
// the letter reshuffle on a wrong answer, never touch the config's own pool.
func randomSubset(pool []Question, count int) []Question {
	shuffled := make([]Question, len(pool))
	for i, q := range pool {
		shuffled[i] = cloneQuestion(q)
	}

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

func cloneQuestion(q Question) Question {
	q.LetterChoices = append([]string(nil), q.LetterChoices...)
	q.ScrambledLetters = append([]string(nil), q.ScrambledLetters...)
	q.Options = append([]Option(nil), q.Options...)
	return q
}
