package lesson

import "testing"

const samplePlan = `{
	"G4_Maths_Ordinals.pptx": {
		"learning_outcomes": ["Understand ordinal numbers from 1st to 10th"],
		"content_structure": ["Race track warm up", "Ordinal drills"]
	},
	"G4_Science_Wormholes.pptx": {
		"learning_outcomes": ["Describe what an alternate universe might be"],
		"content_structure": ["Wormhole theory", "News report writing"]
	},
	"G4_History_Harappa.pptx": {
		"learning_outcomes": ["Identify key features of the Indus Valley Civilization"],
		"content_structure": ["Harappa", "Mohenjo Daro"]
	},
	"G4_Science_Forensics.pptx": {
		"learning_outcomes": ["Explain how DNA evidence is collected"],
		"content_structure": ["Crime scene basics"]
	},
	"G4_Music_Rhythm.pptx": {
		"learning_outcomes": ["Clap simple rhythmic patterns"],
		"content_structure": ["Call and response"]
	}
}`

func TestParseDerivesGameTypes(t *testing.T) {
	descriptors, err := Parse([]byte(samplePlan))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(descriptors) != 5 {
		t.Fatalf("expected 5 descriptors, got %d", len(descriptors))
	}

	byTitle := make(map[string]Descriptor)
	for _, d := range descriptors {
		byTitle[d.FullTitle] = d
	}

	tests := []struct {
		fullTitle string
		wantType  GameType
		wantName  string
	}{
		{"G4_Maths_Ordinals", TypeRacing, "Race Track Ordinals"},
		{"G4_Science_Wormholes", TypeCreativeWriting, "Multiverse Explorer"},
		{"G4_History_Harappa", TypeExploration, "Indus Valley Adventure"},
		{"G4_Science_Forensics", TypeDetective, "DNA Detective"},
		{"G4_Music_Rhythm", TypeQuiz, "Rhythm Quiz Challenge"},
	}
	for _, tt := range tests {
		d, ok := byTitle[tt.fullTitle]
		if !ok {
			t.Errorf("missing descriptor for %s", tt.fullTitle)
			continue
		}
		if d.Type != tt.wantType {
			t.Errorf("%s: type = %s, want %s", tt.fullTitle, d.Type, tt.wantType)
		}
		if d.Name != tt.wantName {
			t.Errorf("%s: name = %q, want %q", tt.fullTitle, d.Name, tt.wantName)
		}
	}
}

func TestParseDescriptorFields(t *testing.T) {
	descriptors, err := Parse([]byte(samplePlan))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var racing Descriptor
	for _, d := range descriptors {
		if d.Type == TypeRacing {
			racing = d
		}
	}
	if racing.LessonCode != "G4" {
		t.Errorf("lesson code = %q, want G4", racing.LessonCode)
	}
	if racing.Title != "Ordinals" {
		t.Errorf("title = %q, want Ordinals", racing.Title)
	}
	if len(racing.LearningOutcomes) != 1 {
		t.Errorf("expected 1 learning outcome, got %d", len(racing.LearningOutcomes))
	}
	if racing.Description == "" {
		t.Error("expected a non-empty description")
	}
}

func TestDefaultPlanCoversAllGameTypes(t *testing.T) {
	seen := make(map[GameType]bool)
	for _, d := range Default() {
		seen[d.Type] = true
	}
	for _, want := range []GameType{TypeRacing, TypeCreativeWriting, TypeExploration, TypeDetective} {
		if !seen[want] {
			t.Errorf("built-in plan missing a %s lesson", want)
		}
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte(`{"broken":`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseOrderingIsStable(t *testing.T) {
	a, err := Parse([]byte(samplePlan))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, _ := Parse([]byte(samplePlan))
	for i := range a {
		if a[i].FullTitle != b[i].FullTitle {
			t.Fatalf("ordering unstable at %d: %s vs %s", i, a[i].FullTitle, b[i].FullTitle)
		}
	}
}
