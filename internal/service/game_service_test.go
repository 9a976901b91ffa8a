package service

import (
	"errors"
	"testing"
)

func TestSeedCatalogIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	// newTestEnv already seeded once
	if err := env.games.SeedCatalog(); err != nil {
		t.Fatalf("SeedCatalog: %v", err)
	}

	games, err := env.games.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(games) != 6 {
		t.Fatalf("game count = %d, want 6", len(games))
	}
	for i, g := range games {
		if g.Position != i+1 {
			t.Errorf("game %s position = %d, want %d", g.Slug, g.Position, i+1)
		}
	}
}

func TestConfigForSlug(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.games.ConfigForSlug("palabra-que-escuches")
	if err != nil {
		t.Fatalf("ConfigForSlug: %v", err)
	}
	if cfg.Slug != "palabra-que-escuches" {
		t.Errorf("slug = %s, want palabra-que-escuches", cfg.Slug)
	}
	if cfg.Scoring.ReplayAudioPenalty == 0 {
		t.Error("listening game config has no replay penalty")
	}
	if cfg.Mechanics.MaxAudioReplays == 0 {
		t.Error("listening game config has no replay cap")
	}

	// Second load comes from the cache
	cached, err := env.games.ConfigForSlug("palabra-que-escuches")
	if err != nil {
		t.Fatalf("ConfigForSlug (cached): %v", err)
	}
	if cached != cfg {
		t.Error("cached load returned a different config instance")
	}
}

func TestConfigForUnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.games.ConfigForSlug("tres-en-raya"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("err = %v, want ErrUnknownGame", err)
	}
}

func TestAllCatalogConfigsLoad(t *testing.T) {
	env := newTestEnv(t)

	games, err := env.games.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	for _, g := range games {
		cfg, err := env.games.ConfigForSlug(g.Slug)
		if err != nil {
			t.Errorf("ConfigForSlug(%s): %v", g.Slug, err)
			continue
		}
		if len(cfg.Levels) == 0 {
			t.Errorf("%s has no levels", g.Slug)
		}
	}
}
