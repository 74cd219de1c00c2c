package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/quiz"
	"github.com/souvikroy/LP-to-gamification/internal/session"
)

// Multiverse Explorer: fact-or-fiction quiz, a wormhole theory check, then a
// creative news report graded by the evaluator.
const (
	writingIntro    session.Phase = "intro"
	writingFacts    session.Phase = "fact_fiction"
	writingTheory   session.Phase = "theory_learning"
	writingCreative session.Phase = "creative_writing"
	writingDone     session.Phase = "completion"
)

const (
	keyTheoryAnswered  = "theory_answered"
	keyReportSubmitted = "report_submitted"
	keyFinalReport     = "final_report"
	keyReportFeedback  = "report_feedback"
	keyReportScore     = "report_score"
	keyFactTally       = "fact_fiction_score"
	keyFactTotal       = "fact_fiction_total"
)

// fallbackWritingScore is awarded when the evaluator's response does not
// carry a parseable "Score: N" line. Evaluator output is untrusted free
// text; a format drift must never surface as an error to the player.
const fallbackWritingScore = 5

var writingPhases = phaseMap{
	initial: writingIntro,
	edges: map[session.Phase][]session.Phase{
		writingIntro:    {writingFacts},
		writingFacts:    {writingTheory},
		writingTheory:   {writingCreative},
		writingCreative: {writingDone},
	},
}

type writingGame struct {
	core
	content multiverseContent
}

func newWritingGame(desc lesson.Descriptor, deps Deps) *writingGame {
	g := &writingGame{
		core:    newCore(desc, deps, writingPhases),
		content: multiverseTable,
	}
	g.prepare()
	return g
}

func (g *writingGame) prepare() {
	if g.state.Phase == writingFacts && g.state.Quiz == nil {
		g.state.Quiz = quiz.NewRun(factQuestions(g.content.Statements))
	}
}

// factQuestions converts boolean-labeled statements into Fact/Fiction
// questions.
func factQuestions(statements []statement) []quiz.Question {
	questions := make([]quiz.Question, len(statements))
	for i, s := range statements {
		correct := "Fiction"
		if s.Fact {
			correct = "Fact"
		}
		questions[i] = quiz.Question{
			Prompt:  s.Text,
			Options: []string{"Fact", "Fiction"},
			Correct: correct,
		}
	}
	return questions
}

func (g *writingGame) Handle(ctx context.Context, action Action) (Feedback, error) {
	if _, ok := action.(Reset); ok {
		g.resetState()
		g.prepare()
		return info("A new adventure across dimensions begins!"), nil
	}

	var fb Feedback
	var err error
	switch g.state.Phase {
	case writingIntro:
		fb, err = g.handleIntro(action)
	case writingFacts:
		fb, err = g.handleFacts(action)
	case writingTheory:
		fb, err = g.handleTheory(action)
	case writingCreative:
		fb, err = g.handleCreative(ctx, action)
	default:
		err = ErrInvalidTransition
	}
	if err != nil {
		return Feedback{}, err
	}
	g.prepare()
	return fb, nil
}

func (g *writingGame) handleIntro(action Action) (Feedback, error) {
	if _, ok := action.(Advance); !ok {
		return Feedback{}, ErrInvalidTransition
	}
	if err := g.move(writingFacts); err != nil {
		return Feedback{}, err
	}
	return info("Can you tell which of these statements are fact and which are fiction?"), nil
}

// handleFacts runs the Fact or Fiction challenge. Correct answers count
// toward a local tally, not the main score.
func (g *writingGame) handleFacts(action Action) (Feedback, error) {
	run := g.state.Quiz
	switch act := action.(type) {
	case Submit:
		q := run.Current()
		if q == nil {
			return Feedback{}, fmt.Errorf("%w: challenge already finished", ErrInvalidTransition)
		}
		correct, err := run.Submit(act.Answer)
		if err != nil {
			return Feedback{}, err
		}
		if correct {
			return right("Correct!"), nil
		}
		return wrong("Incorrect. This statement is actually " + q.Correct + "."), nil

	case Advance:
		if !run.IsComplete() {
			return wrong("Judge every statement before moving on!"), nil
		}
		tally, total := run.Summary()
		g.state.Ints[keyFactTally] = tally
		g.state.Ints[keyFactTotal] = total
		g.state.Quiz = nil
		if err := g.move(writingTheory); err != nil {
			return Feedback{}, err
		}
		return info(fmt.Sprintf("You scored %d/%d on the Fact vs. Fiction challenge!", tally, total)), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// handleTheory is a single fixed question worth 5 main-score points, awarded
// at most once.
func (g *writingGame) handleTheory(action Action) (Feedback, error) {
	q := g.content.TheoryQuestion
	switch act := action.(type) {
	case Submit:
		if !g.state.SetFlag(keyTheoryAnswered) {
			return info("You've already answered the theory check."), nil
		}
		if act.Answer == q.Correct {
			g.state.Award(5)
			return right("That's correct! A wormhole is a theoretical passage through spacetime. +5 points"), nil
		}
		return wrong("Not quite. The correct answer is " + q.Correct + "."), nil

	case Advance:
		if !g.state.Flags[keyTheoryAnswered] {
			return wrong("Answer the quick check first!"), nil
		}
		if err := g.move(writingCreative); err != nil {
			return Feedback{}, err
		}
		return info("Time to write your NEWS report."), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// handleCreative sends the player's report to the evaluator and credits the
// parsed score. An unreachable evaluator leaves the phase unadvanced so the
// player can retry; an unparseable response falls back to a fixed score.
func (g *writingGame) handleCreative(ctx context.Context, action Action) (Feedback, error) {
	switch act := action.(type) {
	case Submit:
		if strings.TrimSpace(act.Answer) == "" {
			return wrong("Write your report before submitting!"), nil
		}
		if g.state.Flags[keyReportSubmitted] {
			return info("Your report has already been evaluated."), nil
		}
		raw, err := g.deps.Eval.Evaluate(ctx, g.content.WritingInstruction, act.Answer)
		if err != nil {
			return Feedback{}, fmt.Errorf("evaluating report: %w", err)
		}
		score, feedback := parseScore(raw)
		g.state.SetFlag(keyReportSubmitted)
		g.state.Award(score)
		g.state.Strings[keyFinalReport] = act.Answer
		g.state.Strings[keyReportFeedback] = feedback
		g.state.Ints[keyReportScore] = score
		g.deps.Log.Debug().Int("score", score).Msg("report evaluated")
		return right(fmt.Sprintf("Score: %d/10\n%s", score, feedback)), nil

	case Advance:
		if !g.state.Flags[keyReportSubmitted] {
			return wrong("Submit your NEWS report first!"), nil
		}
		if err := g.move(writingDone); err != nil {
			return Feedback{}, err
		}
		return info("Mission complete!"), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// parseScore extracts the leading "Score: N" line from an evaluator
// response, returning the remaining text as feedback. Responses that do not
// match yield the fallback score with the full response as feedback.
func parseScore(raw string) (int, string) {
	head, rest, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	if after, ok := strings.CutPrefix(strings.TrimSpace(head), "Score:"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(after)); err == nil && n >= 0 {
			return n, strings.TrimSpace(rest)
		}
	}
	return fallbackWritingScore, strings.TrimSpace(raw)
}

func (g *writingGame) View() View {
	v := View{
		Phase:   string(g.state.Phase),
		Score:   g.state.Score,
		Heading: g.desc.Name,
	}

	switch g.state.Phase {
	case writingIntro:
		v.Body = g.content.Intro
		v.CanAdvance = true

	case writingFacts:
		if q := g.state.Quiz.Current(); q != nil {
			total := len(g.content.Statements)
			v.Body = fmt.Sprintf("Statement %d/%d", g.state.Quiz.Index()+1, total)
			v.Prompt = "\"" + q.Prompt + "\"\nThis statement is:"
			v.Options = q.Options
		} else {
			tally, total := g.state.Quiz.Summary()
			v.Body = fmt.Sprintf("You scored %d/%d on the Fact vs. Fiction challenge!", tally, total)
			v.CanAdvance = true
		}

	case writingTheory:
		v.Body = g.content.TheoryBody
		v.Prompt = g.content.TheoryQuestion.Prompt
		v.Options = g.content.TheoryQuestion.Options
		v.CanAdvance = g.state.Flags[keyTheoryAnswered]

	case writingCreative:
		v.Body = g.content.WritingBrief + "\nTheories to choose from:\n"
		for _, theory := range g.content.Theories {
			v.Body += "  - " + theory + "\n"
		}
		v.Prompt = "Write your NEWS report here:"
		v.NeedsText = true
		if g.state.Flags[keyReportSubmitted] {
			v.Body = fmt.Sprintf("Your Report Evaluation\nScore: %d/10\n\n%s",
				g.state.Ints[keyReportScore], g.state.Strings[keyReportFeedback])
			v.NeedsText = false
			v.CanAdvance = true
		}

	case writingDone:
		v.Completed = true
		var b strings.Builder
		fmt.Fprintf(&b, "Multiverse Explorer: Mission Complete!\n\nYour Interdimensional Explorer Score: %d\n\n", g.state.Score)
		b.WriteString("Achievements Unlocked:\n")
		b.WriteString("  - Fact Checker - Distinguished fact from fiction\n")
		b.WriteString("  - Theoretical Physicist - Understood complex scientific concepts\n")
		b.WriteString("  - Creative Reporter - Crafted an imaginative news report\n")
		b.WriteString("\nKnowledge Gained:\n")
		for _, outcome := range g.desc.LearningOutcomes {
			fmt.Fprintf(&b, "  - %s\n", outcome)
		}
		if report := g.state.Strings[keyFinalReport]; report != "" {
			b.WriteString("\nYour NEWS Report:\n" + report + "\n")
		}
		v.Body = b.String()
	}
	return v
}
