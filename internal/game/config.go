package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Session describes one learner's play-through of one minigame. It is
// provided by the host (server-rendered page or the bootstrap endpoint)
// before the engine starts and is immutable for the whole play-through.
type Session struct {
	SessionURL   string    `json:"session_url"`
	EvaluationID int64     `json:"evaluation_id"`
	AIEvaluation bool      `json:"es_evaluacion_ia"`
	Endpoints    Endpoints `json:"api_urls"`
}

// Endpoints holds the backend URLs the reporter posts to. They are opaque to
// the engine; the server hands them out per session.
type Endpoints struct {
	QuestionResponse string `json:"question_response"`
	LevelComplete    string `json:"level_complete"`
	FinishGame       string `json:"finish_game"`
	GameList         string `json:"game_list"`
}

// GameConfig is the static rule set for one minigame: its levels, scoring
// parameters and game-specific mechanics. Loaded once at session start.
type GameConfig struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Levels    []Level   `json:"levels"`
	Scoring   Scoring   `json:"scoring"`
	Mechanics Mechanics `json:"game_mechanics"`
}

// Level is one difficulty tier with its question pool. Levels are traversed
// in ascending order and never replayed.
type Level struct {
	Level     int        `json:"level"`
	Questions []Question `json:"questions"`
}

// Scoring holds the per-game scoring parameters.
type Scoring struct {
	TimeBonus          int `json:"time_bonus"`
	HintPenalty        int `json:"hint_penalty"`
	SpellingBonus      int `json:"spelling_bonus"`
	ReplayAudioPenalty int `json:"replay_audio_penalty"`
}

// Mechanics holds optional game-specific behavior flags.
type Mechanics struct {
	ShuffleOnWrong  bool `json:"shuffle_on_wrong"`
	MaxAudioReplays int  `json:"max_audio_replays"`
}

// Question is one task instance. The expected-answer payload varies per game:
// a missing letter, an error position, a target word, scrambled letters or an
// option list. Immutable once selected into a play-through.
type Question struct {
	ID               int      `json:"id"`
	Prompt           string   `json:"question,omitempty"`
	Hint             string   `json:"hint,omitempty"`
	Category         string   `json:"category,omitempty"`
	ImagePath        string   `json:"image_path,omitempty"`
	AudioPath        string   `json:"audio_path,omitempty"`
	CorrectWord      string   `json:"correct_word,omitempty"`
	IncorrectWord    string   `json:"incorrect_word,omitempty"`
	MissingLetter    string   `json:"missing_letter,omitempty"`
	MissingPosition  int      `json:"missing_position,omitempty"`
	LetterChoices    []string `json:"letter_choices,omitempty"`
	ErrorPosition    int      `json:"error_position,omitempty"`
	ErrorLetter      string   `json:"error_letter,omitempty"`
	CorrectLetter    string   `json:"correct_letter,omitempty"`
	ScrambledLetters []string `json:"scrambled_letters,omitempty"`
	Options          []Option `json:"options,omitempty"`
	Points           int      `json:"points"`
	TimeLimit        int      `json:"time_limit"`
}

// Option is one entry of a multiple-choice question. ConfusionType labels
// the dyslexia confusion pattern a distractor probes (mirror letters,
// phonetic swaps and so on).
type Option struct {
	Text          string `json:"text"`
	IsCorrect     bool   `json:"is_correct"`
	ConfusionType string `json:"confusion_type,omitempty"`
}

var (
	ErrNoLevels      = errors.New("game config has no levels")
	ErrBrokenLevels  = errors.New("game config levels must be contiguous starting at 1")
	ErrEmptySession  = errors.New("session data is required")
	ErrMissingConfig = errors.New("game config is required")
)

// Validate checks the structural invariants the engine relies on.
func (c *GameConfig) Validate() error {
	if len(c.Levels) == 0 {
		return ErrNoLevels
	}
	for i, lvl := range c.Levels {
		if lvl.Level != i+1 {
			return ErrBrokenLevels
		}
		for _, q := range lvl.Questions {
			if q.TimeLimit <= 0 {
				return fmt.Errorf("level %d question %d: time_limit must be positive", lvl.Level, q.ID)
			}
		}
	}
	return nil
}

// LevelByNumber returns the configured level or nil when none matches.
func (c *GameConfig) LevelByNumber(n int) *Level {
	for i := range c.Levels {
		if c.Levels[i].Level == n {
			return &c.Levels[i]
		}
	}
	return nil
}

// LoadConfig reads and validates a game config JSON file.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a game config from JSON.
func ParseConfig(data []byte) (*GameConfig, error) {
	var cfg GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
