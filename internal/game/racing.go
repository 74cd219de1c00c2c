package game

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/souvikroy/LP-to-gamification/internal/lesson"
	"github.com/souvikroy/LP-to-gamification/internal/quiz"
	"github.com/souvikroy/LP-to-gamification/internal/session"
)

// Race Track Ordinals: four linear levels teaching ordinal numbers, then a
// completion certificate.
const (
	racingIdentify session.Phase = "identify_position"
	racingComplete session.Phase = "complete_race"
	racingTraffic  session.Phase = "traffic_quiz"
	racingParking  session.Phase = "parking_challenge"
	racingDone     session.Phase = "completion"
)

const (
	keyRacePositions = "race_positions"
	keyTargetCar     = "target_car"
	keyAttempts      = "attempts"
	keyOrderedCars   = "ordered_cars"
	keyAvailableCars = "available_cars"
	keyParkingSpots  = "parking_spots"
	keyTargetSpot    = "target_spot"
)

const (
	raceLineupSize   = 6
	parkingSpotCount = 10
	parkingFilled    = 5
	emptySpot        = "Empty"
)

var racingPhases = phaseMap{
	initial: racingIdentify,
	edges: map[session.Phase][]session.Phase{
		racingIdentify: {racingComplete},
		racingComplete: {racingTraffic},
		racingTraffic:  {racingParking},
		racingParking:  {racingDone},
	},
}

type racingGame struct {
	core
	content racingContent
}

func newRacingGame(desc lesson.Descriptor, deps Deps) *racingGame {
	g := &racingGame{
		core:    newCore(desc, deps, racingPhases),
		content: racingTable,
	}
	g.prepare()
	return g
}

// prepare generates the current phase's puzzle state if it does not exist
// yet. Runs on construction, after every phase change, and after reset.
func (g *racingGame) prepare() {
	switch g.state.Phase {
	case racingIdentify:
		if len(g.state.Lists[keyRacePositions]) == 0 {
			order := generateRaceOrder(g.deps.Rand, g.content.Racers)
			g.state.Lists[keyRacePositions] = order
			g.state.Strings[keyTargetCar] = order[g.deps.Rand.Intn(len(order))]
			g.state.Ints[keyAttempts] = 0
		}
	case racingComplete:
		if len(g.state.Lists[keyAvailableCars]) == 0 && len(g.state.Lists[keyOrderedCars]) == 0 {
			order := generateRaceOrder(g.deps.Rand, g.content.Racers)
			g.state.Lists[keyAvailableCars] = order[:raceLineupSize]
			g.state.Lists[keyOrderedCars] = nil
		}
	case racingTraffic:
		if g.state.Quiz == nil {
			g.state.Quiz = quiz.NewRun(g.content.TrafficQuiz)
		}
	case racingParking:
		if len(g.state.Lists[keyParkingSpots]) == 0 {
			spots, target := generateParking(g.deps.Rand, g.content.ParkingColors)
			g.state.Lists[keyParkingSpots] = spots
			g.state.Ints[keyTargetSpot] = target
		}
	}
}

func (g *racingGame) Handle(_ context.Context, action Action) (Feedback, error) {
	if _, ok := action.(Reset); ok {
		g.resetState()
		g.prepare()
		return info("Ready for a new race!"), nil
	}

	var fb Feedback
	var err error
	switch g.state.Phase {
	case racingIdentify:
		fb, err = g.handleIdentify(action)
	case racingComplete:
		fb, err = g.handleCompleteRace(action)
	case racingTraffic:
		fb, err = g.handleTraffic(action)
	case racingParking:
		fb, err = g.handleParking(action)
	default:
		err = ErrInvalidTransition
	}
	if err != nil {
		return Feedback{}, err
	}
	g.prepare()
	return fb, nil
}

// handleIdentify scores the "what position did the target car finish in"
// puzzle. Points shrink with each failed attempt but never below 1.
func (g *racingGame) handleIdentify(action Action) (Feedback, error) {
	submit, ok := action.(Submit)
	if !ok {
		return Feedback{}, ErrInvalidTransition
	}

	g.state.Ints[keyAttempts]++
	attempts := g.state.Ints[keyAttempts]

	target := g.state.Strings[keyTargetCar]
	order := g.state.Lists[keyRacePositions]
	correct := g.content.Ordinals[indexOf(order, target)]

	if submit.Answer != correct {
		return wrong("That's not correct. Try again!"), nil
	}

	points := max(10-attempts+1, 1)
	g.state.Award(points)
	delete(g.state.Lists, keyRacePositions)
	delete(g.state.Strings, keyTargetCar)
	delete(g.state.Ints, keyAttempts)
	if err := g.move(racingComplete); err != nil {
		return Feedback{}, err
	}
	return right(fmt.Sprintf("Correct! The %s finished in %s place! +%d points", target, correct, points)), nil
}

// handleCompleteRace builds the finishing order one car at a time. The
// ordering itself is not graded; completing the lineup is worth 15 points.
func (g *racingGame) handleCompleteRace(action Action) (Feedback, error) {
	switch act := action.(type) {
	case Submit:
		available := g.state.Lists[keyAvailableCars]
		idx := indexOf(available, act.Answer)
		if idx < 0 {
			return wrong("That car is not waiting to race."), nil
		}
		g.state.Lists[keyAvailableCars] = append(available[:idx:idx], available[idx+1:]...)
		g.state.Lists[keyOrderedCars] = append(g.state.Lists[keyOrderedCars], act.Answer)
		place := g.content.Ordinals[len(g.state.Lists[keyOrderedCars])-1]
		return info(fmt.Sprintf("%s takes %s place.", act.Answer, place)), nil

	case Advance:
		if len(g.state.Lists[keyOrderedCars]) < raceLineupSize {
			return wrong("The race isn't finished - keep placing cars!"), nil
		}
		g.state.Award(15)
		delete(g.state.Lists, keyOrderedCars)
		delete(g.state.Lists, keyAvailableCars)
		if err := g.move(racingTraffic); err != nil {
			return Feedback{}, err
		}
		return right("You've successfully ordered all the cars! +15 points"), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

func (g *racingGame) handleTraffic(action Action) (Feedback, error) {
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
		if !run.IsComplete() {
			if correct {
				return right("Correct answer!"), nil
			}
			return wrong("Incorrect. The correct answer is: " + q.Correct), nil
		}
		// Final answer: credit the quiz tally to the main score.
		tally, total := run.Summary()
		points := tally * 5
		g.state.Award(points)
		msg := fmt.Sprintf("Quiz complete! You got %d out of %d correct. +%d points", tally, total, points)
		if correct {
			return right(msg), nil
		}
		return wrong("Incorrect. The correct answer is: " + q.Correct + "\n" + msg), nil

	case Advance:
		if !run.IsComplete() {
			return wrong("Finish the quiz first!"), nil
		}
		g.state.Quiz = nil
		if err := g.move(racingParking); err != nil {
			return Feedback{}, err
		}
		return info("On to the parking challenge."), nil

	default:
		return Feedback{}, ErrInvalidTransition
	}
}

// handleParking checks a 1-based spot selection against the target ordinal
// spot. Occupied or wrong-empty selections are rejected without penalty.
func (g *racingGame) handleParking(action Action) (Feedback, error) {
	sel, ok := action.(Select)
	if !ok {
		return Feedback{}, ErrInvalidTransition
	}
	spots := g.state.Lists[keyParkingSpots]
	if sel.Spot < 1 || sel.Spot > len(spots) {
		return wrong(fmt.Sprintf("Pick a spot between 1 and %d.", len(spots))), nil
	}
	target := g.state.Ints[keyTargetSpot]
	targetOrdinal := g.content.Ordinals[target]

	switch {
	case spots[sel.Spot-1] != emptySpot:
		return wrong("That spot is already taken! Try another spot."), nil
	case sel.Spot-1 != target:
		return wrong(fmt.Sprintf("That's not the %s spot. Try again!", targetOrdinal)), nil
	}

	g.state.Award(20)
	delete(g.state.Lists, keyParkingSpots)
	delete(g.state.Ints, keyTargetSpot)
	if err := g.move(racingDone); err != nil {
		return Feedback{}, err
	}
	return right(fmt.Sprintf("Perfect! You correctly parked in the %s spot! +20 points", targetOrdinal)), nil
}

func (g *racingGame) View() View {
	v := View{
		Phase:   string(g.state.Phase),
		Score:   g.state.Score,
		Heading: g.desc.Name,
	}

	switch g.state.Phase {
	case racingIdentify:
		var b strings.Builder
		b.WriteString("Race Positions:\n")
		for i, car := range g.state.Lists[keyRacePositions] {
			fmt.Fprintf(&b, "  %s: %s\n", g.content.Ordinals[i], car)
		}
		v.Body = b.String()
		v.Prompt = fmt.Sprintf("What position did the %s finish in?", g.state.Strings[keyTargetCar])
		v.Options = g.content.Ordinals

	case racingComplete:
		var b strings.Builder
		b.WriteString("Current Race Order:\n")
		for i, car := range g.state.Lists[keyOrderedCars] {
			fmt.Fprintf(&b, "  %s: %s\n", g.content.Ordinals[i], car)
		}
		v.Body = b.String()
		v.Prompt = "Arrange the cars in order from 1st to 6th place."
		v.Options = g.state.Lists[keyAvailableCars]
		v.CanAdvance = len(g.state.Lists[keyOrderedCars]) == raceLineupSize

	case racingTraffic:
		if q := g.state.Quiz.Current(); q != nil {
			v.Prompt = q.Prompt
			v.Options = q.Options
			v.Body = fmt.Sprintf("Question %d of %d", g.state.Quiz.Index()+1, len(g.content.TrafficQuiz))
		} else {
			tally, total := g.state.Quiz.Summary()
			v.Body = fmt.Sprintf("Quiz complete! You got %d out of %d questions correct.", tally, total)
			v.CanAdvance = true
		}

	case racingParking:
		var b strings.Builder
		b.WriteString("Current Parking Garage:\n")
		for i, spot := range g.state.Lists[keyParkingSpots] {
			fmt.Fprintf(&b, "  Spot %d: %s\n", i+1, spot)
		}
		v.Body = b.String()
		target := g.state.Ints[keyTargetSpot]
		v.Prompt = fmt.Sprintf("Park your car in the %s parking spot.", g.content.Ordinals[target])
		v.SpotCount = len(g.state.Lists[keyParkingSpots])

	case racingDone:
		v.Completed = true
		var b strings.Builder
		fmt.Fprintf(&b, "Congratulations! You've completed %s!\n\nYou have successfully learned:\n", g.desc.Name)
		for _, outcome := range g.desc.LearningOutcomes {
			fmt.Fprintf(&b, "  - %s\n", outcome)
		}
		v.Body = b.String()
	}
	return v
}

// generateRaceOrder returns a random permutation of the racer pool.
func generateRaceOrder(r *rand.Rand, racers []string) []string {
	order := make([]string, len(racers))
	for i, j := range r.Perm(len(racers)) {
		order[i] = racers[j]
	}
	return order
}

// generateParking fills parkingFilled of the ten spots with random cars and
// returns the spots with the index of the first empty one as the target.
func generateParking(r *rand.Rand, colors []string) ([]string, int) {
	spots := make([]string, parkingSpotCount)
	for i := range spots {
		spots[i] = emptySpot
	}
	for _, i := range r.Perm(parkingSpotCount)[:parkingFilled] {
		spots[i] = colors[r.Intn(len(colors))] + " Car"
	}
	target := 0
	for i, s := range spots {
		if s == emptySpot {
			target = i
			break
		}
	}
	return spots, target
}

func indexOf(list []string, want string) int {
	for i, s := range list {
		if s == want {
			return i
		}
	}
	return -1
}
