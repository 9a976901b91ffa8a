// Command export dumps an evaluation's results, including every cognitive
// trial, to a JSON file for offline analysis.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"lexio/internal/config"
	"lexio/internal/database"
	"lexio/internal/models"
	"lexio/internal/repository"
)

type sessionExport struct {
	Session models.GameSession      `json:"session"`
	Game    models.Game             `json:"game"`
	Trials  []models.CognitiveTrial `json:"trials"`
}

type evaluationExport struct {
	ExportedAt time.Time         `json:"exported_at"`
	Evaluation models.Evaluation `json:"evaluation"`
	Child      models.Child      `json:"child"`
	Sessions   []sessionExport   `json:"sessions"`
}

func main() {
	evaluationID := flag.Int64("evaluation", 0, "evaluation id to export (required)")
	output := flag.String("output", "", "output file path (default: evaluation_<id>.json)")
	flag.Parse()

	if *evaluationID == 0 {
		fmt.Fprintln(os.Stderr, "usage: export -evaluation <id> [-output <file>]")
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	evaluations := repository.NewEvaluationRepository(db)
	children := repository.NewChildRepository(db)
	games := repository.NewGameRepository(db)
	sessions := repository.NewSessionRepository(db)
	trials := repository.NewTrialRepository(db)

	evaluation, err := evaluations.GetByID(*evaluationID)
	if err != nil {
		log.Fatalf("Failed to load evaluation: %v", err)
	}
	if evaluation == nil {
		log.Fatalf("Evaluation %d not found", *evaluationID)
	}
	child, err := children.GetByID(evaluation.ChildID)
	if err != nil || child == nil {
		log.Fatalf("Failed to load child %d: %v", evaluation.ChildID, err)
	}

	chain, err := sessions.GetForEvaluation(evaluation.ID)
	if err != nil {
		log.Fatalf("Failed to load sessions: %v", err)
	}

	export := evaluationExport{
		ExportedAt: time.Now(),
		Evaluation: *evaluation,
		Child:      *child,
	}
	for _, sess := range chain {
		g, err := games.GetByID(sess.GameID)
		if err != nil || g == nil {
			log.Fatalf("Failed to load game %d: %v", sess.GameID, err)
		}
		sessionTrials, err := trials.GetForSession(sess.ID)
		if err != nil {
			log.Fatalf("Failed to load trials for %s: %v", sess.SessionURL, err)
		}
		export.Sessions = append(export.Sessions, sessionExport{
			Session: sess,
			Game:    *g,
			Trials:  sessionTrials,
		})
	}

	path := *output
	if path == "" {
		path = fmt.Sprintf("evaluation_%d.json", evaluation.ID)
	}

	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		log.Fatalf("Failed to write export: %v", err)
	}

	log.Printf("Exported evaluation %d (%d sessions) to %s", evaluation.ID, len(export.Sessions), path)
}
