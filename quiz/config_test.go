package quiz

import (
	"encoding/json"
	"testing"

	"lms_backend/models"
)

func TestParseConfig(t *testing.T) {
	defaults := Config{
		QuizType:     models.QuizTypeChapter,
		MinQuestions: 5,
		MaxQuestions: 10,
		PassingScore: 60,
	}

	cases := []struct {
		name     string
		metadata string
		want     Config
	}{
		{"nil metadata", "", defaults},
		{"empty object", `{}`, defaults},
		{"malformed json", `{"quiz_config":`, defaults},
		{"metadata without quiz_config", `{"video_url": "x"}`, defaults},
		{
			"valid in-range values",
			`{"quiz_config": {"quiz_type": "progress", "min_questions": 7, "max_questions": 9, "passing_score": 75}}`,
			Config{QuizType: models.QuizTypeProgress, MinQuestions: 7, MaxQuestions: 9, PassingScore: 75},
		},
		{
			// Out-of-range values fall back to the default, they are not
			// clamped to the nearest bound.
			"min below range",
			`{"quiz_config": {"min_questions": 3}}`,
			defaults,
		},
		{
			"max above range",
			`{"quiz_config": {"max_questions": 50}}`,
			defaults,
		},
		{
			"passing score above range",
			`{"quiz_config": {"passing_score": 150}}`,
			defaults,
		},
		{
			"negative passing score",
			`{"quiz_config": {"passing_score": -1}}`,
			defaults,
		},
		{
			"zero passing score is valid",
			`{"quiz_config": {"passing_score": 0}}`,
			Config{QuizType: models.QuizTypeChapter, MinQuestions: 5, MaxQuestions: 10, PassingScore: 0},
		},
		{
			"unknown quiz type coerces to chapter",
			`{"quiz_config": {"quiz_type": "weekly"}}`,
			defaults,
		},
		{
			"partial config keeps other defaults",
			`{"quiz_config": {"max_questions": 6}}`,
			Config{QuizType: models.QuizTypeChapter, MinQuestions: 5, MaxQuestions: 6, PassingScore: 60},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var metadata json.RawMessage
			if tc.metadata != "" {
				metadata = json.RawMessage(tc.metadata)
			}
			got := ParseConfig(metadata)
			if got != tc.want {
				t.Errorf("ParseConfig(%s) = %+v, want %+v", tc.metadata, got, tc.want)
			}
		})
	}
}
