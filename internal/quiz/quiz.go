// Package quiz implements a single multi-question challenge run: an ordered
// list of questions, a cursor, and a running correct-count.
package quiz

import "errors"

// ErrComplete is returned when an answer is submitted after the final
// question has already been answered.
var ErrComplete = errors.New("quiz: run already complete")

// Question is one multiple-choice question. Correct must be one of Options.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
	Correct string   `yaml:"correct"`
}

// Run tracks progress through a fixed question list. The question list never
// changes after construction; only the cursor and correct-count move.
type Run struct {
	questions []Question
	index     int
	correct   int
}

// NewRun starts a run over the given questions. The slice is copied so later
// mutation by the caller cannot affect the run.
func NewRun(questions []Question) *Run {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	return &Run{questions: qs}
}

// Current returns the question awaiting an answer, or nil once the run is
// complete.
func (r *Run) Current() *Question {
	if r.IsComplete() {
		return nil
	}
	q := r.questions[r.index]
	return &q
}

// Submit records an answer for the current question and advances the cursor.
func (r *Run) Submit(selected string) (correct bool, err error) {
	if r.IsComplete() {
		return false, ErrComplete
	}
	correct = selected == r.questions[r.index].Correct
	r.index++
	if correct {
		r.correct++
	}
	return correct, nil
}

// IsComplete reports whether every question has been answered.
func (r *Run) IsComplete() bool {
	return r.index == len(r.questions)
}

// Index returns how many questions have been answered so far.
func (r *Run) Index() int { return r.index }

// Summary reports the number of correct answers and the total question count.
func (r *Run) Summary() (correct, total int) {
	return r.correct, len(r.questions)
}
