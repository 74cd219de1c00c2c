package game

import (
	"context"
	"errors"
	"testing"

	"github.com/souvikroy/LP-to-gamification/internal/lesson"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantScore    int
		wantFeedback string
	}{
		{
			name:         "well formed",
			raw:          "Score: 7\nFeedback: nice work",
			wantScore:    7,
			wantFeedback: "Feedback: nice work",
		},
		{
			name:         "garbled",
			raw:          "garbled nonsense",
			wantScore:    fallbackWritingScore,
			wantFeedback: "garbled nonsense",
		},
		{
			name:         "extra whitespace",
			raw:          "  Score:  9 \n\nGreat imagery.",
			wantScore:    9,
			wantFeedback: "Great imagery.",
		},
		{
			name:         "non numeric score",
			raw:          "Score: excellent\nLoved it",
			wantScore:    fallbackWritingScore,
			wantFeedback: "Score: excellent\nLoved it",
		},
		{
			name:         "negative score",
			raw:          "Score: -3\nHarsh",
			wantScore:    fallbackWritingScore,
			wantFeedback: "Score: -3\nHarsh",
		},
		{
			name:         "score only",
			raw:          "Score: 10",
			wantScore:    10,
			wantFeedback: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, feedback := parseScore(tt.raw)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if feedback != tt.wantFeedback {
				t.Errorf("feedback = %q, want %q", feedback, tt.wantFeedback)
			}
		})
	}
}

func newTestWriting(t *testing.T, eval *fakeEval) *writingGame {
	t.Helper()
	deps, fake := testDeps(11)
	if eval != nil {
		deps.Eval = eval
	} else {
		eval = fake
	}
	g, err := New(descFor(lesson.TypeCreativeWriting), deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g.(*writingGame)
}

// advanceToCreative plays through the intro, fact-or-fiction and theory
// phases with all-correct answers.
func advanceToCreative(t *testing.T, g *writingGame) {
	t.Helper()
	mustHandle(t, g, Advance{})
	for g.state.Quiz.Current() != nil {
		mustHandle(t, g, Submit{Answer: g.state.Quiz.Current().Correct})
	}
	mustHandle(t, g, Advance{})
	mustHandle(t, g, Submit{Answer: g.content.TheoryQuestion.Correct})
	mustHandle(t, g, Advance{})
}

func TestFactFictionTallyDoesNotTouchMainScore(t *testing.T) {
	g := newTestWriting(t, nil)
	mustHandle(t, g, Advance{})
	for g.state.Quiz.Current() != nil {
		mustHandle(t, g, Submit{Answer: g.state.Quiz.Current().Correct})
	}
	if g.View().Score != 0 {
		t.Errorf("fact-or-fiction answers changed the main score: %d", g.View().Score)
	}
	mustHandle(t, g, Advance{})
	if got := g.state.Ints[keyFactTally]; got != len(g.content.Statements) {
		t.Errorf("recorded tally = %d, want %d", got, len(g.content.Statements))
	}
}

func TestTheoryQuestionAwardsFiveOnce(t *testing.T) {
	g := newTestWriting(t, nil)
	mustHandle(t, g, Advance{})
	for g.state.Quiz.Current() != nil {
		mustHandle(t, g, Submit{Answer: g.state.Quiz.Current().Correct})
	}
	mustHandle(t, g, Advance{})

	mustHandle(t, g, Submit{Answer: g.content.TheoryQuestion.Correct})
	if g.View().Score != 5 {
		t.Errorf("score = %d, want 5", g.View().Score)
	}
	// A second submission is a one-shot no-op.
	mustHandle(t, g, Submit{Answer: g.content.TheoryQuestion.Correct})
	if g.View().Score != 5 {
		t.Errorf("score after resubmit = %d, want 5", g.View().Score)
	}
}

func TestCreativeWritingAwardsParsedScore(t *testing.T) {
	eval := &fakeEval{evaluateResp: "Score: 7\nFeedback: nice work"}
	g := newTestWriting(t, eval)
	advanceToCreative(t, g)
	base := g.View().Score

	fb := mustHandle(t, g, Submit{Answer: "EXTRA! Man walks through wall at King's Cross!"})
	if fb.Correct == nil || !*fb.Correct {
		t.Fatalf("expected correct feedback, got %+v", fb)
	}
	if got := g.View().Score; got != base+7 {
		t.Errorf("score = %d, want %d", got, base+7)
	}

	mustHandle(t, g, Advance{})
	if g.CurrentPhase() != writingDone {
		t.Errorf("phase = %s, want %s", g.CurrentPhase(), writingDone)
	}
}

func TestCreativeWritingFallbackScore(t *testing.T) {
	eval := &fakeEval{evaluateResp: "garbled nonsense"}
	g := newTestWriting(t, eval)
	advanceToCreative(t, g)
	base := g.View().Score

	mustHandle(t, g, Submit{Answer: "my report"})
	if got := g.View().Score; got != base+fallbackWritingScore {
		t.Errorf("score = %d, want %d", got, base+fallbackWritingScore)
	}
}

func TestCreativeWritingEvaluatorFailureLeavesStateClean(t *testing.T) {
	wantErr := errors.New("model unavailable")
	eval := &fakeEval{evaluateErr: wantErr}
	g := newTestWriting(t, eval)
	advanceToCreative(t, g)
	base := g.View().Score

	_, err := g.Handle(context.Background(), Submit{Answer: "my report"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
	if g.CurrentPhase() != writingCreative {
		t.Errorf("phase = %s, want %s", g.CurrentPhase(), writingCreative)
	}
	if g.View().Score != base {
		t.Errorf("score changed on evaluator failure: %d", g.View().Score)
	}
	if g.state.Flags[keyReportSubmitted] {
		t.Error("report marked submitted despite evaluator failure")
	}

	// The player can retry once the evaluator recovers.
	eval.evaluateErr = nil
	eval.evaluateResp = "Score: 6\nBetter luck"
	mustHandle(t, g, Submit{Answer: "my report"})
	if got := g.View().Score; got != base+6 {
		t.Errorf("score after retry = %d, want %d", got, base+6)
	}
}

func TestCreativeWritingSingleEvaluation(t *testing.T) {
	eval := &fakeEval{evaluateResp: "Score: 8\nGood"}
	g := newTestWriting(t, eval)
	advanceToCreative(t, g)

	mustHandle(t, g, Submit{Answer: "report one"})
	mustHandle(t, g, Submit{Answer: "report two"})
	if eval.evaluations != 1 {
		t.Errorf("evaluator called %d times, want 1", eval.evaluations)
	}
}

func TestWritingEmptySubmissionRejected(t *testing.T) {
	g := newTestWriting(t, nil)
	advanceToCreative(t, g)
	fb := mustHandle(t, g, Submit{Answer: "   "})
	if fb.Correct == nil || *fb.Correct {
		t.Error("blank report should be rejected")
	}
}

func TestWritingAdvanceRequiresReport(t *testing.T) {
	g := newTestWriting(t, nil)
	advanceToCreative(t, g)
	fb := mustHandle(t, g, Advance{})
	if fb.Correct == nil || *fb.Correct {
		t.Error("advancing without a report should be rejected")
	}
	if g.CurrentPhase() != writingCreative {
		t.Errorf("phase = %s, want %s", g.CurrentPhase(), writingCreative)
	}
}
