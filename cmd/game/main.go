package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/souvikroy/LP-to-gamification/internal/config"
	"github.com/souvikroy/LP-to-gamification/internal/evaluator"
	"github.com/souvikroy/LP-to-gamification/internal/game"
	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/session"
	"github.com/souvikroy/LP-to-gamification/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	descriptors, err := lesson.Load(cfg.LessonPlanPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("Error loading lesson plan: %v\n", err)
			os.Exit(1)
		}
		log.Info().Str("path", cfg.LessonPlanPath).Msg("lesson plan not found, using built-in plan")
		descriptors = lesson.Default()
	}

	eval, err := evaluator.New(ctx, cfg.GeminiAPIKey, log)
	if err != nil {
		fmt.Printf("Error creating evaluator: %v\n", err)
		os.Exit(1)
	}
	defer eval.Close()

	deps := game.Deps{
		Store: session.NewStore(),
		Eval:  eval,
		Log:   log,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	var games []game.Game
	for _, desc := range descriptors {
		g, err := game.New(desc, deps)
		if err != nil {
			log.Warn().Str("lesson", desc.FullTitle).Err(err).Msg("skipping lesson")
			continue
		}
		games = append(games, g)
	}
	if len(games) == 0 {
		fmt.Println("No playable games found in the lesson plan.")
		os.Exit(1)
	}

	if err := tui.Run(games); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to the given file, or discards everything when no file is
// configured. The TUI owns stdout, so logs never go there.
func newLogger(path string) (zerolog.Logger, func(), error) {
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { f.Close() }, nil
}
