package service

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"lexio/internal/audio"
	"lexio/internal/game"
	"lexio/internal/models"
	"lexio/internal/repository"
)

// ErrUnknownGame is returned when a slug has no catalog entry
var ErrUnknownGame = errors.New("unknown game")

// catalog is the fixed set of minigames, in play order
var catalog = []struct {
	Name        string
	Slug        string
	Description string
}{
	{"Completa la Palabra", "completa-la-palabra", "Fill in the missing letter of a word"},
	{"Encuentra el Error", "encuentra-el-error", "Spot and correct the wrong letter in a word"},
	{"Escribe el Nombre del Objeto", "escribe-el-nombre-del-objeto", "Type the name of the pictured object"},
	{"Ordenar Palabras", "ordenar-palabras", "Unscramble the letters into a word"},
	{"Palabra que Escuches", "palabra-que-escuches", "Type the word you hear"},
	{"Selecciona la Palabra Correcta", "selecciona-la-palabra-correcta", "Pick the correctly spelled word"},
}

// GameService manages the minigame catalog and its on-disk configurations
type GameService struct {
	games       *repository.GameRepository
	configsPath string
	tts         *audio.TTSService

	mu      sync.Mutex
	configs map[string]*game.GameConfig
}

// NewGameService creates a new game service. tts may be nil when audio
// generation is disabled
func NewGameService(games *repository.GameRepository, configsPath string, tts *audio.TTSService) *GameService {
	return &GameService{
		games:       games,
		configsPath: configsPath,
		tts:         tts,
		configs:     make(map[string]*game.GameConfig),
	}
}

// SeedCatalog inserts any catalog games missing from the database
func (s *GameService) SeedCatalog() error {
	for i, entry := range catalog {
		existing, err := s.games.GetBySlug(entry.Slug)
		if err != nil {
			return fmt.Errorf("failed to check game %s: %w", entry.Slug, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.games.Create(entry.Name, entry.Slug, entry.Description, i+1); err != nil {
			return fmt.Errorf("failed to seed game %s: %w", entry.Slug, err)
		}
		log.Printf("Seeded game: %s", entry.Slug)
	}
	return nil
}

// ListActive returns the playable games in catalog order
func (s *GameService) ListActive() ([]models.Game, error) {
	return s.games.GetActive()
}

// ConfigForSlug loads and caches the game configuration for a slug
func (s *GameService) ConfigForSlug(slug string) (*game.GameConfig, error) {
	if _, err := game.VariantBySlug(slug); err != nil {
		return nil, ErrUnknownGame
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[slug]; ok {
		return cfg, nil
	}

	cfg, err := game.LoadConfig(filepath.Join(s.configsPath, slug+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config for %s: %w", slug, err)
	}
	if cfg.Slug != slug {
		return nil, fmt.Errorf("config slug mismatch: file for %s declares %s", slug, cfg.Slug)
	}
	s.configs[slug] = cfg
	return cfg, nil
}

// GenerateMissingAudio synthesizes audio files for every listening-game word
// that has none yet. Words that already have a file on disk are skipped by
// the TTS layer
func (s *GameService) GenerateMissingAudio() error {
	if s.tts == nil {
		return nil
	}

	cfg, err := s.ConfigForSlug("palabra-que-escuches")
	if err != nil {
		return err
	}

	var words []string
	for _, level := range cfg.Levels {
		for _, q := range level.Questions {
			if q.CorrectWord != "" {
				words = append(words, q.CorrectWord)
			}
		}
	}

	generated, err := s.tts.BatchGenerateAudio(words)
	if err != nil {
		return fmt.Errorf("failed to generate audio: %w", err)
	}
	if len(generated) > 0 {
		log.Printf("Generated %d audio files", len(generated))
	}
	return nil
}
