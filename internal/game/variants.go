package game

import (
	"fmt"
	"strings"
	"time"
)

// Answer is a learner's submitted response. Each variant reads the fields it
// needs: free text, a single letter, or a zero-based position/option index.
type Answer struct {
	Text  string
	Index int
}

// EvaluateFunc compares a candidate answer against a question's expected
// payload. Exact match only; no fuzzy matching.
type EvaluateFunc func(q *Question, a Answer) bool

// Variant is the behavior record for one minigame. The shared engine hooks
// into it instead of each game subclassing the engine.
type Variant struct {
	Slug string
	Name string

	// MaxAttempts is how many submissions a question allows before the
	// engine reveals the answer and advances. Option-click games resolve
	// on the first wrong pick.
	MaxAttempts int

	// FirstTryBonus grants the spelling bonus for first-attempt answers.
	FirstTryBonus bool

	// ReplayPenalty charges for audio replays beyond the first.
	ReplayPenalty bool

	// AdvanceDelay is how long feedback stays on screen before the engine
	// moves to the next question.
	AdvanceDelay time.Duration

	Evaluate EvaluateFunc
}

// The six minigames. Slugs match the session URLs the server hands out.
var (
	CompleteWord = Variant{
		Slug:         "completa-la-palabra",
		Name:         "Completa la Palabra",
		MaxAttempts:  3,
		AdvanceDelay: 2 * time.Second,
		Evaluate: func(q *Question, a Answer) bool {
			return a.Text != "" && a.Text == q.MissingLetter
		},
	}

	FindError = Variant{
		Slug:         "encuentra-el-error",
		Name:         "Encuentra el Error",
		MaxAttempts:  3,
		AdvanceDelay: 2 * time.Second,
		Evaluate: func(q *Question, a Answer) bool {
			return a.Index == q.ErrorPosition
		},
	}

	WriteWord = Variant{
		Slug:          "escribe-el-nombre-del-objeto",
		Name:          "Escribe el Nombre del Objeto",
		MaxAttempts:   3,
		FirstTryBonus: true,
		AdvanceDelay:  2500 * time.Millisecond,
		Evaluate: func(q *Question, a Answer) bool {
			// The input widget forces uppercase; mirror that here so a
			// plain-text caller gets the same comparison.
			candidate := strings.ToUpper(strings.TrimSpace(a.Text))
			return candidate != "" && candidate == q.CorrectWord
		},
	}

	OrderLetters = Variant{
		Slug:         "ordenar-palabras",
		Name:         "Ordenar Palabras",
		MaxAttempts:  3,
		AdvanceDelay: 2 * time.Second,
		Evaluate: func(q *Question, a Answer) bool {
			return a.Text != "" && a.Text == q.CorrectWord
		},
	}

	ListenWord = Variant{
		Slug:          "palabra-que-escuches",
		Name:          "Palabra que Escuches",
		MaxAttempts:   3,
		ReplayPenalty: true,
		AdvanceDelay:  2500 * time.Millisecond,
		Evaluate: func(q *Question, a Answer) bool {
			return a.Text != "" && a.Text == q.CorrectWord
		},
	}

	ChooseWord = Variant{
		Slug:         "selecciona-la-palabra-correcta",
		Name:         "Selecciona la Palabra Correcta",
		MaxAttempts:  1,
		AdvanceDelay: time.Second,
		Evaluate: func(q *Question, a Answer) bool {
			if a.Index < 0 || a.Index >= len(q.Options) {
				return false
			}
			return q.Options[a.Index].IsCorrect
		},
	}
)

// Variants returns the six minigame records in display order.
func Variants() []Variant {
	return []Variant{CompleteWord, FindError, WriteWord, OrderLetters, ListenWord, ChooseWord}
}

// VariantBySlug resolves a variant from its slug.
func VariantBySlug(slug string) (Variant, error) {
	for _, v := range Variants() {
		if v.Slug == slug {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown game variant: %s", slug)
}
