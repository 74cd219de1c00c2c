package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/quiz"
	"github.com/souvikroy/LP-to-gamification/internal/session"
)

// Indus Valley Adventure: a hub map with two explorable cities, a knowledge
// quiz gated behind exploration progress, and an expert guide to question.
const (
	exploreIntro session.Phase = "intro"
	exploreMap   session.Phase = "map"
	exploreQuiz  session.Phase = "quiz"
	exploreDone  session.Phase = "completion"
	// Location phases take their names from the content table: "harappa"
	// and "mohenjo_daro".
)

const (
	exploredSuffix = "_explored"

	// Quiz unlock thresholds: distinct explored areas and collected
	// artifacts.
	unlockFlagCount = 3
	unlockItemCount = 2

	quizBonusThreshold = 4
	quizBonusPoints    = 15
)

const guidePersona = "an archaeological expert named Dr. Sharma, guiding students through the ancient Indus Valley Civilization"

type explorationGame struct {
	core
	content explorationContent

	// quizGate is the only location phase that offers the knowledge test;
	// the unlock check runs there and nowhere else.
	quizGate session.Phase
}

func newExplorationGame(desc lesson.Descriptor, deps Deps) *explorationGame {
	content := explorationTable
	g := &explorationGame{
		core:     newCore(desc, deps, explorationPhaseMap(content)),
		content:  content,
		quizGate: session.Phase(content.Locations[len(content.Locations)-1].ID),
	}
	g.prepare()
	return g
}

// explorationPhaseMap wires the hub topology: the map connects to every
// location and back, and the quiz hangs off the gate location.
func explorationPhaseMap(content explorationContent) phaseMap {
	edges := map[session.Phase][]session.Phase{
		exploreIntro: {exploreMap},
		exploreQuiz:  {exploreDone},
	}
	gate := session.Phase(content.Locations[len(content.Locations)-1].ID)
	for _, loc := range content.Locations {
		p := session.Phase(loc.ID)
		edges[exploreMap] = append(edges[exploreMap], p)
		edges[p] = []session.Phase{exploreMap}
	}
	edges[gate] = append(edges[gate], exploreQuiz)
	return phaseMap{initial: exploreIntro, edges: edges}
}

func (g *explorationGame) prepare() {
	if g.state.Phase == exploreQuiz && g.state.Quiz == nil {
		g.state.Quiz = quiz.NewRun(g.content.Quiz)
	}
}

// quizUnlocked is the idempotent, side-effect-free unlock check.
func (g *explorationGame) quizUnlocked() bool {
	return g.state.FlagCount() >= unlockFlagCount && len(g.state.Items) >= unlockItemCount
}

func (g *explorationGame) location(id session.Phase) *exploreLocation {
	for i := range g.content.Locations {
		if g.content.Locations[i].ID == string(id) {
			return &g.content.Locations[i]
		}
	}
	return nil
}

func (g *explorationGame) Handle(ctx context.Context, action Action) (Feedback, error) {
	if _, ok := action.(Reset); ok {
		g.resetState()
		g.prepare()
		return info("A new expedition begins!"), nil
	}

	var fb Feedback
	var err error
	switch {
	case g.state.Phase == exploreIntro:
		fb, err = g.handleIntro(ctx, action)
	case g.state.Phase == exploreMap:
		fb, err = g.handleMap(ctx, action)
	case g.location(g.state.Phase) != nil:
		fb, err = g.handleLocation(action)
	case g.state.Phase == exploreQuiz:
		fb, err = g.handleQuiz(action)
	default:
		err = ErrInvalidTransition
	}
	if err != nil {
		return Feedback{}, err
	}
	g.prepare()
	return fb, nil
}

func (g *explorationGame) handleIntro(ctx context.Context, action Action) (Feedback, error) {
	switch act := action.(type) {
	case Advance:
		if err := g.move(exploreMap); err != nil {
			return Feedback{}, err
		}
		return info("Your adventure begins!"), nil
	case Ask:
		return g.ask(ctx, guidePersona, act.Question)
	default:
		return Feedback{}, ErrInvalidTransition
	}
}

func (g *explorationGame) handleMap(ctx context.Context, action Action) (Feedback, error) {
	switch act := action.(type) {
	case Visit:
		loc := g.location(session.Phase(act.Location))
		if loc == nil {
			return Feedback{}, fmt.Errorf("%w: unknown location %q", ErrInvalidTransition, act.Location)
		}
		if err := g.move(session.Phase(loc.ID)); err != nil {
			return Feedback{}, err
		}
		return info("Traveling to " + loc.Name + "..."), nil
	case Ask:
		return g.ask(ctx, guidePersona, act.Question)
	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// handleLocation covers both cities: exploring areas sets one-shot flags
// worth 5 points, artifact pickups are worth 10 points once.
func (g *explorationGame) handleLocation(action Action) (Feedback, error) {
	loc := g.location(g.state.Phase)
	switch act := action.(type) {
	case Explore:
		var area *exploreArea
		for i := range loc.Areas {
			if loc.Areas[i].ID == act.Area {
				area = &loc.Areas[i]
			}
		}
		if area == nil {
			return Feedback{}, fmt.Errorf("%w: unknown area %q", ErrInvalidTransition, act.Area)
		}
		if g.state.SetFlag(area.ID + exploredSuffix) {
			g.state.Award(5)
			return right(area.Text + "\n+5 Knowledge Points"), nil
		}
		return info(area.Text), nil

	case Pickup:
		var artifact *exploreArtifact
		for i := range loc.Artifacts {
			if loc.Artifacts[i].ID == act.Item {
				artifact = &loc.Artifacts[i]
			}
		}
		if artifact == nil {
			return Feedback{}, fmt.Errorf("%w: unknown artifact %q", ErrInvalidTransition, act.Item)
		}
		if g.state.Collect(artifact.ID) {
			g.state.Award(10)
			return right(artifact.Found + "\n+10 Knowledge Points"), nil
		}
		return info("You have already collected the " + artifact.Name + "."), nil

	case Advance:
		if err := g.move(exploreMap); err != nil {
			return Feedback{}, err
		}
		return info("Returning to the map."), nil

	case Visit:
		// Entering the knowledge test, offered only from the gate location.
		if session.Phase(act.Location) != exploreQuiz || g.state.Phase != g.quizGate {
			return Feedback{}, fmt.Errorf("%w: no route to %q", ErrInvalidTransition, act.Location)
		}
		if !g.quizUnlocked() {
			return wrong("Keep exploring! The knowledge test unlocks after more discoveries."), nil
		}
		if err := g.move(exploreQuiz); err != nil {
			return Feedback{}, err
		}
		return info("Time to test your knowledge!"), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// handleQuiz awards 5 points per correct answer plus a 15-point bonus for
// four or more correct out of five.
func (g *explorationGame) handleQuiz(action Action) (Feedback, error) {
	run := g.state.Quiz
	switch act := action.(type) {
	case Submit:
		q := run.Current()
		if q == nil {
			return Feedback{}, fmt.Errorf("%w: quiz already finished", ErrInvalidTransition)
		}
		correct, err := run.Submit(act.Answer)
		if err != nil {
			return Feedback{}, err
		}
		msg := "Not quite. The correct answer is: " + q.Correct
		if correct {
			g.state.Award(5)
			msg = "Correct! Well done! +5 Knowledge Points"
		}
		if run.IsComplete() {
			tally, total := run.Summary()
			msg += fmt.Sprintf("\nQuiz complete! You scored %d/%d.", tally, total)
			if tally >= quizBonusThreshold {
				g.state.Award(quizBonusPoints)
				msg += fmt.Sprintf(" Outstanding knowledge! +%d bonus Knowledge Points!", quizBonusPoints)
			}
		}
		if correct {
			return right(msg), nil
		}
		return wrong(msg), nil

	case Advance:
		if !run.IsComplete() {
			return wrong("Finish the knowledge test first!"), nil
		}
		g.state.Quiz = nil
		if err := g.move(exploreDone); err != nil {
			return Feedback{}, err
		}
		return info("Journey complete!"), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

func (g *explorationGame) View() View {
	v := View{
		Phase:     string(g.state.Phase),
		Score:     g.state.Score,
		Heading:   g.desc.Name,
		Collected: g.state.ItemList(),
	}

	switch {
	case g.state.Phase == exploreIntro:
		v.Body = g.content.Intro
		v.CanAdvance = true
		v.CanAsk = true

	case g.state.Phase == exploreMap:
		v.Body = g.content.MapBody
		for _, loc := range g.content.Locations {
			v.Locations = append(v.Locations, loc.ID)
		}
		v.CanAsk = true

	case g.location(g.state.Phase) != nil:
		loc := g.location(g.state.Phase)
		v.Body = loc.Description
		for _, area := range loc.Areas {
			v.Areas = append(v.Areas, area.ID)
		}
		for _, artifact := range loc.Artifacts {
			v.Items = append(v.Items, artifact.ID)
		}
		v.CanAdvance = true
		if g.state.Phase == g.quizGate && g.quizUnlocked() {
			v.Locations = []string{string(exploreQuiz)}
			v.Prompt = "Knowledge Test Available!"
		}

	case g.state.Phase == exploreQuiz:
		if q := g.state.Quiz.Current(); q != nil {
			v.Body = fmt.Sprintf("Question %d/%d", g.state.Quiz.Index()+1, len(g.content.Quiz))
			v.Prompt = q.Prompt
			v.Options = q.Options
		} else {
			tally, total := g.state.Quiz.Summary()
			v.Body = fmt.Sprintf("You scored %d/%d on the Indus Valley Knowledge Test!", tally, total)
			v.CanAdvance = true
		}

	case g.state.Phase == exploreDone:
		v.Completed = true
		var b strings.Builder
		fmt.Fprintf(&b, "Journey Complete: %s\n\nFinal Knowledge Points: %d\nArtifacts Collected: %d/%d\n",
			g.desc.Name, g.state.Score, len(g.state.Items), g.artifactTotal())
		b.WriteString("\nYour Artifact Collection:\n")
		for _, loc := range g.content.Locations {
			for _, artifact := range loc.Artifacts {
				if g.state.Items[artifact.ID] {
					fmt.Fprintf(&b, "  - %s\n", artifact.Name)
				}
			}
		}
		b.WriteString("\nKnowledge Acquired:\n")
		for _, outcome := range g.desc.LearningOutcomes {
			fmt.Fprintf(&b, "  - %s\n", outcome)
		}
		v.Body = b.String()
	}
	return v
}

func (g *explorationGame) artifactTotal() int {
	total := 0
	for _, loc := range g.content.Locations {
		total += len(loc.Artifacts)
	}
	return total
}
