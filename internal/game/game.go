// Package game implements the four lesson game engines: phase machines over
// per-session state, with quizzes, scores and collectible items. The UI layer
// drives a game exclusively through Handle and View.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/session"
)

var (
	// ErrInvalidTransition means the action is not defined for the current
	// phase. State is left unchanged; the UI shows a same-phase message.
	ErrInvalidTransition = errors.New("action not valid in current phase")

	// ErrUnknownGameType means no engine exists for the descriptor's type.
	ErrUnknownGameType = errors.New("game type not implemented")
)

// Evaluator grades free text and answers open questions. Implemented by the
// evaluator package; faked in tests.
type Evaluator interface {
	// Evaluate returns the raw grading response for a submission. Callers
	// parse the response themselves and must tolerate free-form output.
	Evaluate(ctx context.Context, instruction, submission string) (string, error)

	// Explain answers an open question in the voice of the given persona.
	Explain(ctx context.Context, persona, question string) (string, error)
}

// Deps are the collaborators a game engine needs.
type Deps struct {
	Store *session.Store
	Eval  Evaluator
	Log   zerolog.Logger
	Rand  *rand.Rand
}

// Game is the capability interface every variant implements.
type Game interface {
	Descriptor() lesson.Descriptor
	CurrentPhase() session.Phase

	// Handle applies one user action. Failures are contained: on error the
	// state is unchanged and the player stays in the current phase.
	Handle(ctx context.Context, action Action) (Feedback, error)

	// View is a pure function of the current state.
	View() View
}

// New builds the engine for a descriptor's game type.
func New(desc lesson.Descriptor, deps Deps) (Game, error) {
	if deps.Store == nil {
		return nil, errors.New("game: nil session store")
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deps.Log = deps.Log.With().Str("game", desc.Name).Logger()

	switch desc.Type {
	case lesson.TypeRacing:
		return newRacingGame(desc, deps), nil
	case lesson.TypeCreativeWriting:
		return newWritingGame(desc, deps), nil
	case lesson.TypeExploration:
		return newExplorationGame(desc, deps), nil
	case lesson.TypeDetective:
		return newDetectiveGame(desc, deps), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownGameType, desc.Type)
	}
}

// phaseMap defines a variant's phase set: the initial phase and the directed
// edges a play-through may follow.
type phaseMap struct {
	initial session.Phase
	edges   map[session.Phase][]session.Phase
}

func (p phaseMap) canMove(from, to session.Phase) bool {
	for _, next := range p.edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// core carries the fields and behavior shared by all variants. Variants
// compose it; there is no abstract render step.
type core struct {
	desc   lesson.Descriptor
	deps   Deps
	state  *session.State
	phases phaseMap
}

func newCore(desc lesson.Descriptor, deps Deps, phases phaseMap) core {
	return core{
		desc:   desc,
		deps:   deps,
		state:  deps.Store.InitIfAbsent(desc.Name, phases.initial),
		phases: phases,
	}
}

func (c *core) Descriptor() lesson.Descriptor { return c.desc }
func (c *core) CurrentPhase() session.Phase   { return c.state.Phase }

// move follows a defined edge out of the current phase.
func (c *core) move(to session.Phase) error {
	from := c.state.Phase
	if !c.phases.canMove(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	c.state.Phase = to
	c.deps.Log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("phase transition")
	return nil
}

// resetState discards this game's session state and restarts at the initial
// phase. State belonging to other games is untouched.
func (c *core) resetState() {
	c.state = c.deps.Store.Reset(c.desc.Name, c.phases.initial)
	c.deps.Log.Debug().Msg("session reset")
}

// ask forwards an open question to the evaluator under a persona.
func (c *core) ask(ctx context.Context, persona, question string) (Feedback, error) {
	answer, err := c.deps.Eval.Explain(ctx, persona, question)
	if err != nil {
		return Feedback{}, fmt.Errorf("asking expert: %w", err)
	}
	return info(answer), nil
}
