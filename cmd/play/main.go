// Command play runs a game session from the terminal against a lexio server.
// It fetches the session bootstrap, drives the engine locally and posts the
// results back the same way the browser client does.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"lexio/internal/game"
	"lexio/internal/reporter"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "lexio server base URL")
	session := flag.String("session", "", "session URL token to play")
	flag.Parse()

	if *session == "" {
		fmt.Fprintln(os.Stderr, "usage: play -session <session-url> [-server <base-url>]")
		os.Exit(2)
	}

	ctx := context.Background()
	bootstrapPath := fmt.Sprintf("/api/sessions/%s/bootstrap", *session)

	probe, err := reporter.NewClient(*server, game.Endpoints{})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	bootstrap, err := probe.FetchBootstrap(ctx, bootstrapPath)
	if err != nil {
		log.Fatalf("Failed to bootstrap session: %v", err)
	}

	// Rebuild the client with the endpoints the server handed out; the
	// second fetch stocks its cookie jar with the CSRF cookie
	client, err := reporter.NewClient(*server, bootstrap.Session.Endpoints)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	if _, err := client.FetchBootstrap(ctx, bootstrapPath); err != nil {
		log.Fatalf("Failed to bootstrap session: %v", err)
	}

	done := make(chan struct{})
	sink := &consoleSink{done: done}
	engine, err := game.NewEngine(&bootstrap.Session, &bootstrap.Config, client, sink)
	if err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}

	fmt.Printf("=== %s ===\n", bootstrap.Config.Name)
	fmt.Println("Commands: answer text, number of an option, 'hint', 'replay', 'next', 'quit'")

	if err := engine.Start(ctx); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	go readCommands(engine)
	<-done

	if nav := engine.Navigation(); nav != nil {
		printNavigation(nav)
	}
}

func readCommands(engine *game.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit":
			os.Exit(0)
		case "hint":
			hint, err := engine.UseHint()
			if err != nil {
				fmt.Println("No question is active")
				continue
			}
			fmt.Printf("Hint: %s\n", hint)
		case "replay":
			ok, err := engine.RegisterAudioPlay()
			if err != nil {
				fmt.Println("No question is active")
				continue
			}
			if !ok {
				fmt.Println("No replays left")
				continue
			}
			fmt.Println("(audio plays again)")
		case "next":
			if err := engine.NextLevel(); err != nil {
				fmt.Println("No level summary to leave")
			}
		default:
			submit(engine, line)
		}
	}
}

func submit(engine *game.Engine, line string) {
	answer := game.Answer{Text: line, Index: -1}

	// A bare number picks an option on option-click games
	if q, _, _ := engine.CurrentQuestion(); q != nil && len(q.Options) > 0 {
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			answer = game.Answer{Text: q.Options[n-1].Text, Index: n - 1}
		}
	}

	outcome, err := engine.Submit(answer)
	if err != nil {
		fmt.Println("No question is active")
		return
	}
	if !outcome.Resolved {
		fmt.Printf("Not quite, %d attempts left\n", outcome.AttemptsLeft)
	}
}

// consoleSink renders engine events to stdout
type consoleSink struct {
	done chan struct{}
}

func (s *consoleSink) QuestionStarted(level, number, total int, q *game.Question) {
	fmt.Printf("\n[Level %d] Question %d/%d: %s\n", level, number, total, q.Prompt)
	switch {
	case len(q.Options) > 0:
		for i, opt := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, opt.Text)
		}
	case len(q.ScrambledLetters) > 0:
		fmt.Printf("  Letters: %s\n", strings.Join(q.ScrambledLetters, " "))
	case q.IncorrectWord != "":
		fmt.Printf("  Word shown: %s\n", q.IncorrectWord)
	case q.MissingLetter != "":
		fmt.Printf("  Word: %s  Choices: %s\n",
			maskWord(q.CorrectWord, q.MissingPosition), strings.Join(q.LetterChoices, " "))
	case q.AudioPath != "":
		fmt.Println("  (listen and type the word; 'replay' to hear it again)")
	case q.ImagePath != "":
		fmt.Printf("  (picture: %s)\n", q.ImagePath)
	}
}

func (s *consoleSink) TimerTick(remaining int, warning bool) {
	if warning {
		fmt.Printf("  ! %ds left\n", remaining)
	}
}

func (s *consoleSink) AnswerEvaluated(attemptsLeft int, q *game.Question) {}

func (s *consoleSink) QuestionResolved(correct bool, points int, q *game.Question) {
	if correct {
		fmt.Printf("Correct! +%d points\n", points)
		return
	}
	fmt.Printf("The answer was %q\n", q.CorrectWord)
}

func (s *consoleSink) LevelCompleted(sum game.LevelSummary) {
	fmt.Printf("\nLevel %d complete: %d/%d correct, score %d\n",
		sum.Level, sum.CorrectAnswers, sum.TotalQuestions, sum.TotalScore)
	if sum.LastLevel {
		fmt.Println("Type 'next' to finish the game")
	} else {
		fmt.Println("Type 'next' for the next level")
	}
}

func (s *consoleSink) GameFinished(nav *game.Navigation) {
	close(s.done)
}

func (s *consoleSink) FinishFailed(err error) {
	fmt.Printf("Could not finish the game: %v\n", err)
	close(s.done)
}

func printNavigation(nav *game.Navigation) {
	switch nav.Outcome {
	case game.NavEvaluationComplete:
		fmt.Println("\nEvaluation complete!")
		if nav.Stats != nil {
			fmt.Printf("  Total score:  %d\n", nav.Stats.TotalScore)
			fmt.Printf("  Questions:    %d\n", nav.Stats.QuestionsAnswered)
			fmt.Printf("  Time played:  %.1f min\n", nav.Stats.TotalTimeMinutes)
			fmt.Printf("  Precision:    %.1f%%\n", nav.Stats.AveragePrecision)
			if nav.Stats.RiskLevel != "" {
				fmt.Printf("  Screening:    %s, riesgo %s (%.1f)\n",
					nav.Stats.RiskClassification, nav.Stats.RiskLevel, nav.Stats.RiskIndex)
			}
		}
		fmt.Printf("Results at %s\n", nav.URL)
	case game.NavNextGame:
		if nav.Progress != nil {
			fmt.Printf("\nGame done, %d of %d sessions complete\n", nav.Progress.Completed, nav.Progress.Total)
		}
		fmt.Printf("Next game: %s\n", nav.URL)
	default:
		fmt.Printf("\nGame done, results at %s\n", nav.URL)
	}
}

func maskWord(word string, position int) string {
	runes := []rune(word)
	if position < 0 || position >= len(runes) {
		return word
	}
	runes[position] = '_'
	return string(runes)
}
