// Package lesson turns lesson-plan JSON into game descriptors.
package lesson

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

//go:embed default_plan.json
var defaultPlan []byte

// GameType selects which game engine a lesson maps to.
type GameType string

const (
	TypeRacing          GameType = "racing_game"
	TypeCreativeWriting GameType = "creative_writing"
	TypeExploration     GameType = "exploration_game"
	TypeDetective       GameType = "detective_game"
	TypeQuiz            GameType = "quiz_game"
)

// Descriptor is the static metadata for one game, derived from a lesson plan.
// Consumers treat it as read-only.
type Descriptor struct {
	Name             string
	Title            string
	LessonCode       string
	FullTitle        string
	Description      string
	LearningOutcomes []string
	Type             GameType
	ContentStructure []any // raw lesson content, used only as display/prompt input
}

// entry mirrors one lesson record in the plan file.
type entry struct {
	LearningOutcomes []string `json:"learning_outcomes"`
	ContentStructure []any    `json:"content_structure"`
}

// Load reads a lesson-plan JSON file and extracts one descriptor per lesson.
// Descriptors are sorted by lesson title so the ordering is stable across runs.
func Load(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lesson plan: %w", err)
	}
	return Parse(data)
}

// Default returns the descriptors for the built-in lesson plan, used when no
// plan file is available.
func Default() []Descriptor {
	descriptors, err := Parse(defaultPlan)
	if err != nil {
		panic(fmt.Sprintf("lesson: built-in plan is invalid: %v", err))
	}
	return descriptors
}

// Parse extracts game descriptors from raw lesson-plan JSON. The top level is
// a mapping from lesson title (e.g. "G4_Maths_Ordinals.pptx") to lesson data.
func Parse(data []byte) ([]Descriptor, error) {
	var plan map[string]entry
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parsing lesson plan: %w", err)
	}

	titles := make([]string, 0, len(plan))
	for title := range plan {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	descriptors := make([]Descriptor, 0, len(titles))
	for _, title := range titles {
		descriptors = append(descriptors, describe(title, plan[title]))
	}
	return descriptors, nil
}

func describe(title string, e entry) Descriptor {
	parts := strings.Split(title, "_")
	lessonCode := parts[0]
	topic := strings.TrimSuffix(parts[len(parts)-1], ".pptx")

	gameType := deriveType(e)
	return Descriptor{
		Name:             gameName(topic, gameType),
		Title:            topic,
		LessonCode:       lessonCode,
		FullTitle:        strings.TrimSuffix(title, ".pptx"),
		Description:      gameDescription(e, gameType, topic),
		LearningOutcomes: e.LearningOutcomes,
		Type:             gameType,
		ContentStructure: e.ContentStructure,
	}
}

// deriveType picks a game type from keywords in the lesson's learning
// outcomes and content structure.
func deriveType(e entry) GameType {
	outcomes := strings.ToLower(strings.Join(e.LearningOutcomes, " "))
	content := strings.ToLower(fmt.Sprintf("%v", e.ContentStructure))

	switch {
	case strings.Contains(outcomes, "ordinal") || strings.Contains(content, "race"):
		return TypeRacing
	case strings.Contains(outcomes, "universe") || strings.Contains(content, "wormhole"):
		return TypeCreativeWriting
	case strings.Contains(outcomes, "indus valley"):
		return TypeExploration
	case strings.Contains(outcomes, "dna") || strings.Contains(outcomes, "forensic"):
		return TypeDetective
	default:
		return TypeQuiz
	}
}

func gameName(topic string, t GameType) string {
	switch t {
	case TypeRacing:
		return "Race Track Ordinals"
	case TypeCreativeWriting:
		return "Multiverse Explorer"
	case TypeExploration:
		return "Indus Valley Adventure"
	case TypeDetective:
		return "DNA Detective"
	default:
		return topic + " Quiz Challenge"
	}
}

func gameDescription(e entry, t GameType, topic string) string {
	switch t {
	case TypeRacing:
		return "A racing game where players learn ordinal numbers (1st to 10th) by competing on a virtual race track. The game teaches the context and application of ordinal numbers in real-life scenarios through interactive racing challenges."
	case TypeCreativeWriting:
		return "An imaginative game where players explore the concepts of wormholes and alternate universes. Players write creative news reports about fictional scenarios, learning to differentiate between fact and fiction."
	case TypeExploration:
		return "An adventure game where players explore the ancient Indus Valley Civilization. Discover key features of Harappan cities, learn about the significance of the Indus River, and understand the social structure of this ancient civilization."
	case TypeDetective:
		return "A forensic science game where players solve crimes using DNA evidence. Learn about DNA profiling, evidence collection, and proper procedures for handling samples while solving exciting mysteries."
	default:
		outcomes := e.LearningOutcomes
		if len(outcomes) == 0 {
			outcomes = []string{"Learn about " + topic}
		}
		if len(outcomes) > 2 {
			outcomes = outcomes[:2]
		}
		return fmt.Sprintf("An interactive quiz game to help you learn about %s. %s", topic, strings.Join(outcomes, " "))
	}
}
