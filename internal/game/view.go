package game

// View is the render model for the current phase. It is a pure function of
// session state; building a view never mutates anything.
type View struct {
	Phase   string
	Heading string

	// Body is display text for the phase: narration, generated puzzle
	// layouts, quiz progress.
	Body string

	// Prompt is the question or instruction awaiting input, if any.
	Prompt string

	// Options are the selectable answers for a Submit action.
	Options []string

	// Locations are hub destinations for a Visit action.
	Locations []string

	// Areas are explorable sub-areas for an Explore action.
	Areas []string

	// Items are pickup targets for a Pickup action.
	Items []string

	// SpotCount is nonzero when the phase expects a numbered spot
	// selection (a Select action) between 1 and SpotCount.
	SpotCount int

	// NeedsText is set when the phase expects free-form text input.
	NeedsText bool

	// CanAdvance is set when the phase's Advance action is currently allowed.
	CanAdvance bool

	// CanAsk is set when the expert Q&A is available.
	CanAsk bool

	// Completed marks the terminal phase; the only useful action is Reset.
	Completed bool

	Score     int
	Collected []string
}

// Feedback is the outcome message for one handled action. Correct is nil for
// neutral information, otherwise it marks the answer right or wrong.
type Feedback struct {
	Message string
	Correct *bool
}

func info(msg string) Feedback {
	return Feedback{Message: msg}
}

func right(msg string) Feedback {
	v := true
	return Feedback{Message: msg, Correct: &v}
}

func wrong(msg string) Feedback {
	v := false
	return Feedback{Message: msg, Correct: &v}
}
