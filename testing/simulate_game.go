// Command simulate_game drives one game end to end with an LLM standing in
// for the student. Useful for eyeballing phase flow and scoring without
// playing by hand.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/rs/zerolog"

	"github.com/souvikroy/LP-to-gamification/internal/config"
	"github.com/souvikroy/LP-to-gamification/internal/evaluator"
	"github.com/souvikroy/LP-to-gamification/internal/game"
	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/session"
)

const maxTurns = 60

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	eval, err := evaluator.New(ctx, cfg.GeminiAPIKey, zerolog.Nop())
	if err != nil {
		log.Fatalf("Failed to create evaluator: %v", err)
	}
	defer eval.Close()

	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel("gemini-2.5-flash")

	descriptors := lesson.Default()
	desc := pickDescriptor(descriptors)

	deps := game.Deps{
		Store: session.NewStore(),
		Eval:  eval,
		Log:   zerolog.Nop(),
		Rand:  rand.New(rand.NewSource(1)),
	}
	g, err := game.New(desc, deps)
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	fmt.Printf("--- Simulating: %s ---\n\n", desc.Name)

	for turn := 1; turn <= maxTurns; turn++ {
		v := g.View()
		if v.Completed {
			fmt.Printf("Game complete after %d turns. Final score: %d\n", turn-1, v.Score)
			return
		}

		action := nextAction(ctx, playerModel, v)
		fmt.Printf("--- Turn %d (%s) ---\n", turn, v.Phase)
		fmt.Printf("Player: %#v\n", action)

		fb, err := g.Handle(ctx, action)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if fb.Message != "" {
			fmt.Printf("Game: %s\n", firstLine(fb.Message))
		}
		fmt.Printf("Score: %d  Collected: %v\n\n", g.View().Score, g.View().Collected)
	}
	fmt.Printf("Stopped after %d turns. Final score: %d\n", maxTurns, g.View().Score)
}

// pickDescriptor selects a game by number from the command line, defaulting
// to the first lesson.
func pickDescriptor(descriptors []lesson.Descriptor) lesson.Descriptor {
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n >= 1 && n <= len(descriptors) {
			return descriptors[n-1]
		}
	}
	return descriptors[0]
}

// nextAction asks the player LLM to choose among the view's available moves.
// Falls back to deterministic choices when the model misbehaves.
func nextAction(ctx context.Context, model *genai.GenerativeModel, v game.View) game.Action {
	if v.CanAdvance && len(v.Options) == 0 && len(v.Areas) == 0 && len(v.Items) == 0 && !v.NeedsText {
		return game.Advance{}
	}

	if v.NeedsText {
		prompt := fmt.Sprintf("You are a grade 4 student playing an educational game.\n\n%s\n\n%s\n\nRespond with ONLY your answer, no commentary.", v.Body, v.Prompt)
		if text := generate(ctx, model, prompt); text != "" {
			return game.Submit{Answer: text}
		}
		return game.Submit{Answer: "A student's answer."}
	}

	if v.SpotCount > 0 {
		prompt := fmt.Sprintf("You are a grade 4 student playing an educational game.\n\n%s\n\n%s\n\nReply with ONLY the spot number.", v.Body, v.Prompt)
		if n, err := strconv.Atoi(strings.TrimSpace(generate(ctx, model, prompt))); err == nil && n >= 1 && n <= v.SpotCount {
			return game.Select{Spot: n}
		}
		return game.Select{Spot: 1}
	}

	choices := choiceLabels(v)
	if len(choices) == 0 {
		return game.Advance{}
	}

	prompt := fmt.Sprintf(`You are a grade 4 student playing an educational game.

%s

%s

Choices:
%s

Reply with ONLY the number of your choice.`, v.Body, v.Prompt, strings.Join(choices, "\n"))

	pick := 1
	if reply := generate(ctx, model, prompt); reply != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(strings.Trim(reply, "."))); err == nil && n >= 1 && n <= len(choices) {
			pick = n
		}
	}
	return actionFor(v, pick-1)
}

func choiceLabels(v game.View) []string {
	var out []string
	i := 0
	add := func(label string) {
		i++
		out = append(out, fmt.Sprintf("%d. %s", i, label))
	}
	for _, o := range v.Options {
		add(o)
	}
	for _, l := range v.Locations {
		add(l)
	}
	for _, a := range v.Areas {
		add(a)
	}
	for _, item := range v.Items {
		add(item)
	}
	return out
}

func actionFor(v game.View, idx int) game.Action {
	if idx < len(v.Options) {
		return game.Submit{Answer: v.Options[idx]}
	}
	idx -= len(v.Options)
	if idx < len(v.Locations) {
		return game.Visit{Location: v.Locations[idx]}
	}
	idx -= len(v.Locations)
	if idx < len(v.Areas) {
		return game.Explore{Area: v.Areas[idx]}
	}
	idx -= len(v.Areas)
	return game.Pickup{Item: v.Items[idx]}
}

func generate(ctx context.Context, model *genai.GenerativeModel, prompt string) string {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ""
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
