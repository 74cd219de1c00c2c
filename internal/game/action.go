package game

// Action is one discrete user input. Each phase accepts a small fixed subset;
// anything else is an invalid transition.
type Action interface {
	isAction()
}

// Submit carries an answer: a quiz option, a free-text report, or a name.
type Submit struct {
	Answer string
}

// Select picks a numbered slot, such as a parking spot (1-based).
type Select struct {
	Spot int
}

// Pickup collects an item by identifier.
type Pickup struct {
	Item string
}

// Explore opens a sub-area of a location, setting its one-shot flag.
type Explore struct {
	Area string
}

// Visit moves between hub locations in the exploration game.
type Visit struct {
	Location string
}

// Ask sends an open question to the expert guide.
type Ask struct {
	Question string
}

// Advance moves to the next phase where the current phase allows it.
type Advance struct{}

// Reset starts a fresh play-through of the current game.
type Reset struct{}

func (Submit) isAction()  {}
func (Select) isAction()  {}
func (Pickup) isAction()  {}
func (Explore) isAction() {}
func (Visit) isAction()   {}
func (Ask) isAction()     {}
func (Advance) isAction() {}
func (Reset) isAction()   {}
