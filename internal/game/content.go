package game

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/souvikroy/LP-to-gamification/internal/quiz"
)

//go:embed content/racing.yaml
var racingYAML []byte

//go:embed content/multiverse.yaml
var multiverseYAML []byte

//go:embed content/exploration.yaml
var explorationYAML []byte

//go:embed content/detective.yaml
var detectiveYAML []byte

type racingContent struct {
	Racers        []string        `yaml:"racers"`
	Ordinals      []string        `yaml:"ordinals"`
	TrafficQuiz   []quiz.Question `yaml:"traffic_quiz"`
	ParkingColors []string        `yaml:"parking_colors"`
}

type statement struct {
	Text string `yaml:"text"`
	Fact bool   `yaml:"fact"`
}

type multiverseContent struct {
	Intro              string        `yaml:"intro"`
	Statements         []statement   `yaml:"statements"`
	TheoryBody         string        `yaml:"theory_body"`
	TheoryQuestion     quiz.Question `yaml:"theory_question"`
	WritingBrief       string        `yaml:"writing_brief"`
	WritingInstruction string        `yaml:"writing_instruction"`
	Theories           []string      `yaml:"theories"`
}

type exploreArea struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

type exploreArtifact struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Found string `yaml:"found"`
}

type exploreLocation struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Areas       []exploreArea     `yaml:"areas"`
	Artifacts   []exploreArtifact `yaml:"artifacts"`
}

type explorationContent struct {
	Intro     string            `yaml:"intro"`
	MapBody   string            `yaml:"map_body"`
	Locations []exploreLocation `yaml:"locations"`
	Quiz      []quiz.Question   `yaml:"quiz"`
}

type evidenceSpot struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Found string `yaml:"found"`
}

type detectiveContent struct {
	Intro      string          `yaml:"intro"`
	BasicsBody string          `yaml:"basics_body"`
	SceneBody  string          `yaml:"scene_body"`
	Questions  []quiz.Question `yaml:"questions"`
	Spots      []evidenceSpot  `yaml:"spots"`
}

var (
	racingTable      = mustContent[racingContent]("racing", racingYAML)
	multiverseTable  = mustContent[multiverseContent]("multiverse", multiverseYAML)
	explorationTable = mustContent[explorationContent]("exploration", explorationYAML)
	detectiveTable   = mustContent[detectiveContent]("detective", detectiveYAML)
)

// mustContent parses an embedded content document. The documents ship inside
// the binary, so a parse failure is a build defect and panics at startup.
func mustContent[T any](name string, data []byte) T {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		panic(fmt.Sprintf("game: embedded %s content: %v", name, err))
	}
	return v
}
