// Package session holds the mutable per-play-through state for each game.
// Each game owns a structured State under its own namespace, so resetting
// one game can never disturb another.
package session

import (
	"sort"

	"github.com/souvikroy/LP-to-gamification/internal/quiz"
)

// Phase names one node in a game's progression.
type Phase string

// State is everything a single game accumulates during one play-through.
// It is created by InitIfAbsent, mutated only by the owning game's action
// handler, and replaced wholesale on reset.
type State struct {
	Phase Phase

	// Score never decreases within a play-through.
	Score int

	// Items is the set of collected item identifiers.
	Items map[string]bool

	// Flags are one-shot markers: set once, cleared only by reset.
	Flags map[string]bool

	// Quiz is the active challenge run, nil outside quiz sub-phases.
	Quiz *quiz.Run

	// Ints, Strings and Lists hold per-game puzzle state (attempt counters,
	// generated permutations, captured text) keyed by names the owning game
	// defines.
	Ints    map[string]int
	Strings map[string]string
	Lists   map[string][]string
}

func newState(initial Phase) *State {
	return &State{
		Phase:   initial,
		Items:   make(map[string]bool),
		Flags:   make(map[string]bool),
		Ints:    make(map[string]int),
		Strings: make(map[string]string),
		Lists:   make(map[string][]string),
	}
}

// Award adds points to the score and returns the new total. Negative awards
// are ignored.
func (s *State) Award(points int) int {
	if points > 0 {
		s.Score += points
	}
	return s.Score
}

// Collect records an item and reports whether it was new. Collecting an item
// twice is a no-op; callers award points only when Collect returns true.
func (s *State) Collect(item string) bool {
	if s.Items[item] {
		return false
	}
	s.Items[item] = true
	return true
}

// SetFlag sets a one-shot flag and reports whether it was newly set.
func (s *State) SetFlag(name string) bool {
	if s.Flags[name] {
		return false
	}
	s.Flags[name] = true
	return true
}

// HasAll reports whether every given item has been collected.
func (s *State) HasAll(items ...string) bool {
	for _, item := range items {
		if !s.Items[item] {
			return false
		}
	}
	return true
}

// ItemList returns the collected items in sorted order for display.
func (s *State) ItemList() []string {
	items := make([]string, 0, len(s.Items))
	for item := range s.Items {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// FlagCount returns the number of one-shot flags currently set.
func (s *State) FlagCount() int { return len(s.Flags) }

// Store maps game names to their play-through state. One Store serves one
// player session; stores are never shared between sessions, so no locking.
type Store struct {
	games map[string]*State
}

func NewStore() *Store {
	return &Store{games: make(map[string]*State)}
}

// InitIfAbsent returns the state for the named game, creating it at the
// given initial phase on first use. Repeated calls return the same state.
func (st *Store) InitIfAbsent(game string, initial Phase) *State {
	if s, ok := st.games[game]; ok {
		return s
	}
	s := newState(initial)
	st.games[game] = s
	return s
}

// Lookup returns the named game's state if it has been initialized.
func (st *Store) Lookup(game string) (*State, bool) {
	s, ok := st.games[game]
	return s, ok
}

// Reset discards everything the named game has accumulated and starts a
// fresh state at the given initial phase. Other games' state is untouched.
func (st *Store) Reset(game string, initial Phase) *State {
	s := newState(initial)
	st.games[game] = s
	return s
}
