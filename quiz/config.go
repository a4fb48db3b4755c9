package quiz

import (
	"encoding/json"

	"lms_backend/models"
)

// Config defaults and clamp ranges.
const (
	DefaultMinQuestions = 5
	DefaultMaxQuestions = 10
	DefaultPassingScore = 60
)

// Config is the per-exercise quiz configuration, stored in the exercise's
// metadata under "quiz_config".
type Config struct {
	QuizType     string `json:"quiz_type"`
	MinQuestions int    `json:"min_questions"`
	MaxQuestions int    `json:"max_questions"`
	PassingScore int    `json:"passing_score"`
}

type rawConfig struct {
	QuizType     *string `json:"quiz_type"`
	MinQuestions *int    `json:"min_questions"`
	MaxQuestions *int    `json:"max_questions"`
	PassingScore *int    `json:"passing_score"`
}

type rawMetadata struct {
	QuizConfig *rawConfig `json:"quiz_config"`
}

// ParseConfig normalizes the quiz configuration embedded in exercise
// metadata. It never fails: absent or malformed metadata yields the defaults,
// and out-of-range values fall back to the default for that field instead of
// clamping to the nearest bound.
func ParseConfig(metadata json.RawMessage) Config {
	cfg := Config{
		QuizType:     models.QuizTypeChapter,
		MinQuestions: DefaultMinQuestions,
		MaxQuestions: DefaultMaxQuestions,
		PassingScore: DefaultPassingScore,
	}
	if len(metadata) == 0 {
		return cfg
	}

	var meta rawMetadata
	if err := json.Unmarshal(metadata, &meta); err != nil || meta.QuizConfig == nil {
		return cfg
	}
	raw := meta.QuizConfig

	if raw.QuizType != nil {
		if *raw.QuizType == models.QuizTypeChapter || *raw.QuizType == models.QuizTypeProgress {
			cfg.QuizType = *raw.QuizType
		}
	}
	if raw.MinQuestions != nil && *raw.MinQuestions >= 5 && *raw.MinQuestions <= 10 {
		cfg.MinQuestions = *raw.MinQuestions
	}
	if raw.MaxQuestions != nil && *raw.MaxQuestions >= 5 && *raw.MaxQuestions <= 10 {
		cfg.MaxQuestions = *raw.MaxQuestions
	}
	if raw.PassingScore != nil && *raw.PassingScore >= 0 && *raw.PassingScore <= 100 {
		cfg.PassingScore = *raw.PassingScore
	}
	return cfg
}
