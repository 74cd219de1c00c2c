package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/quiz"
	"github.com/souvikroy/LP-to-gamification/internal/session"
)

// DNA Detective: forensic basics quiz, a crime scene with evidence pickups,
// and a final rank computed from investigator points.
const (
	detectiveIntro session.Phase = "intro"
	detectiveBasic session.Phase = "dna_basics"
	detectiveScene session.Phase = "crime_scene"
	detectiveDone  session.Phase = "completion"
)

const (
	keyDetectiveName = "detective_name"

	defaultDetectiveName = "Detective"

	// Evidence pickups are worth a random 5-15 points each.
	evidencePointsMin = 5
	evidencePointsMax = 15

	// The case can be closed once this many pieces of evidence are in hand.
	sceneEvidenceNeeded = 3

	basicsQuestionPoints = 5
)

const expertPersona = "a DNA analysis expert explaining forensic concepts to grade 4 students"

var detectivePhases = phaseMap{
	initial: detectiveIntro,
	edges: map[session.Phase][]session.Phase{
		detectiveIntro: {detectiveBasic},
		detectiveBasic: {detectiveScene},
		detectiveScene: {detectiveDone},
	},
}

type detectiveGame struct {
	core
	content detectiveContent
}

func newDetectiveGame(desc lesson.Descriptor, deps Deps) *detectiveGame {
	g := &detectiveGame{
		core:    newCore(desc, deps, detectivePhases),
		content: detectiveTable,
	}
	g.prepare()
	return g
}

func (g *detectiveGame) prepare() {
	if g.state.Phase == detectiveBasic && g.state.Quiz == nil {
		g.state.Quiz = quiz.NewRun(g.content.Questions)
	}
}

func (g *detectiveGame) name() string {
	if n := g.state.Strings[keyDetectiveName]; n != "" {
		return n
	}
	return defaultDetectiveName
}

func (g *detectiveGame) Handle(ctx context.Context, action Action) (Feedback, error) {
	if _, ok := action.(Reset); ok {
		g.resetState()
		g.prepare()
		return info("A new investigation begins!"), nil
	}

	var fb Feedback
	var err error
	switch g.state.Phase {
	case detectiveIntro:
		fb, err = g.handleIntro(action)
	case detectiveBasic:
		fb, err = g.handleBasics(ctx, action)
	case detectiveScene:
		fb, err = g.handleScene(action)
	default:
		err = ErrInvalidTransition
	}
	if err != nil {
		return Feedback{}, err
	}
	g.prepare()
	return fb, nil
}

// handleIntro captures the detective's name and opens the case.
func (g *detectiveGame) handleIntro(action Action) (Feedback, error) {
	submit, ok := action.(Submit)
	if !ok {
		return Feedback{}, ErrInvalidTransition
	}
	name := strings.TrimSpace(submit.Answer)
	if name == "" {
		name = defaultDetectiveName
	}
	g.state.Strings[keyDetectiveName] = name
	if err := g.move(detectiveBasic); err != nil {
		return Feedback{}, err
	}
	return info(fmt.Sprintf("Hello, %s! Let's learn some DNA basics before heading to the crime scene.", name)), nil
}

// handleBasics runs the DNA facts quiz (5 points per correct answer) and the
// ask-the-expert Q&A.
func (g *detectiveGame) handleBasics(ctx context.Context, action Action) (Feedback, error) {
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
		if correct {
			g.state.Award(basicsQuestionPoints)
			return right(fmt.Sprintf("That's correct! Great job! +%d points", basicsQuestionPoints)), nil
		}
		return wrong("Not quite. The correct answer is: " + q.Correct), nil

	case Ask:
		return g.ask(ctx, expertPersona, act.Question)

	case Advance:
		if !run.IsComplete() {
			return wrong("Finish your basic training first!"), nil
		}
		g.state.Quiz = nil
		if err := g.move(detectiveScene); err != nil {
			return Feedback{}, err
		}
		return info(fmt.Sprintf("Welcome to the museum, %s! Time to collect evidence.", g.name())), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// handleScene collects evidence from fixed spots. Each first-time pickup is
// worth a random 5-15 points; revisiting a spot is a no-op.
func (g *detectiveGame) handleScene(action Action) (Feedback, error) {
	switch act := action.(type) {
	case Pickup:
		var spot *evidenceSpot
		for i := range g.content.Spots {
			if g.content.Spots[i].ID == act.Item {
				spot = &g.content.Spots[i]
			}
		}
		if spot == nil {
			return Feedback{}, fmt.Errorf("%w: unknown evidence spot %q", ErrInvalidTransition, act.Item)
		}
		if !g.state.Collect(spot.ID) {
			return info("You've already collected evidence from the " + spot.Name + "."), nil
		}
		points := evidencePointsMin + g.deps.Rand.Intn(evidencePointsMax-evidencePointsMin+1)
		g.state.Award(points)
		return right(fmt.Sprintf("%s\n+%d investigator points", spot.Found, points)), nil

	case Advance:
		if len(g.state.Items) < sceneEvidenceNeeded {
			return wrong(fmt.Sprintf("You need at least %d pieces of evidence to solve the case.", sceneEvidenceNeeded)), nil
		}
		if err := g.move(detectiveDone); err != nil {
			return Feedback{}, err
		}
		return right(fmt.Sprintf("Case solved, %s! The stolen artifact has been recovered.", g.name())), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// rankFor maps a final score to its detective rank tier.
func rankFor(score int) string {
	switch {
	case score >= 50:
		return "Master Detective"
	case score >= 35:
		return "Senior Investigator"
	case score >= 20:
		return "Junior Detective"
	default:
		return "Detective Trainee"
	}
}

func (g *detectiveGame) View() View {
	v := View{
		Phase:     string(g.state.Phase),
		Score:     g.state.Score,
		Heading:   g.desc.Name,
		Collected: g.state.ItemList(),
	}

	switch g.state.Phase {
	case detectiveIntro:
		v.Body = g.content.Intro
		v.Prompt = "Enter your detective name:"
		v.NeedsText = true

	case detectiveBasic:
		v.Body = g.content.BasicsBody
		v.CanAsk = true
		if q := g.state.Quiz.Current(); q != nil {
			v.Prompt = fmt.Sprintf("Question %d: %s", g.state.Quiz.Index()+1, q.Prompt)
			v.Options = q.Options
		} else {
			tally, total := g.state.Quiz.Summary()
			v.Body += fmt.Sprintf("\nBasic Training Complete! You answered %d/%d questions correctly.", tally, total)
			v.CanAdvance = true
		}

	case detectiveScene:
		var b strings.Builder
		fmt.Fprintf(&b, "The Museum Crime Scene\n\n%s\n", g.content.SceneBody)
		for _, spot := range g.content.Spots {
			mark := " "
			if g.state.Items[spot.ID] {
				mark = "x"
			}
			fmt.Fprintf(&b, "  [%s] %s\n", mark, spot.Name)
		}
		v.Body = b.String()
		for _, spot := range g.content.Spots {
			if !g.state.Items[spot.ID] {
				v.Items = append(v.Items, spot.ID)
			}
		}
		v.CanAdvance = len(g.state.Items) >= sceneEvidenceNeeded

	case detectiveDone:
		v.Completed = true
		var b strings.Builder
		fmt.Fprintf(&b, "Case Solved!\n\nCongratulations, %s! You identified the culprit.\n\n", g.name())
		fmt.Fprintf(&b, "Final Score: %d points\nRank: %s\n", g.state.Score, rankFor(g.state.Score))
		b.WriteString("\nEvidence Collected:\n")
		for _, spot := range g.content.Spots {
			if g.state.Items[spot.ID] {
				fmt.Fprintf(&b, "  - %s\n", spot.Name)
			}
		}
		b.WriteString("\nWhat You Learned:\n")
		for _, outcome := range g.desc.LearningOutcomes {
			fmt.Fprintf(&b, "  - %s\n", outcome)
		}
		v.Body = b.String()
	}
	return v
}
