package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey   string
	LessonPlanPath string
	LogFile        string
}

// LoadConfig loads the configuration from a .env file (if present) and the
// environment. The API key is required; everything else has defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}

	lessonPlan := os.Getenv("LESSON_PLAN_PATH")
	if lessonPlan == "" {
		lessonPlan = "lesson_plan.json"
	}

	return &Config{
		GeminiAPIKey:   apiKey,
		LessonPlanPath: lessonPlan,
		LogFile:        os.Getenv("GAME_LOG_FILE"),
	}, nil
}
