package quiz

import (
	"context"
	"fmt"

	"lms_backend/models"
)

// scope is the set of category and exercise matchers a question must hit to
// be eligible. General questions (no category, no exercise) always match.
type scope struct {
	categories map[int]struct{}
	exercises  map[int]struct{}
	label      string
}

// resolveScope anchors the quiz on the student's reference exercise. Chapter
// quizzes cover the reference exercise's single category; progress quizzes
// cover every category and exercise up to and including the reference's
// order index.
func (g *Generator) resolveScope(ctx context.Context, quizType string, ref *models.Exercise) (*scope, error) {
	sc := &scope{
		categories: make(map[int]struct{}),
		exercises:  make(map[int]struct{}),
	}

	switch quizType {
	case models.QuizTypeProgress:
		exercises, err := g.repo.ListExercisesUpTo(ctx, ref.CourseID, ref.OrderIndex)
		if err != nil {
			return nil, fmt.Errorf("list exercises: %w", err)
		}
		for _, e := range exercises {
			if e.CategoryID != nil {
				sc.categories[*e.CategoryID] = struct{}{}
			}
			sc.exercises[e.ID] = struct{}{}
		}
		sc.label = "material up to the current exercise"
	default: // chapter
		if ref.CategoryID == nil {
			return nil, ErrMissingCategory
		}
		sc.categories[*ref.CategoryID] = struct{}{}
		sc.label = fmt.Sprintf("chapter %d", *ref.CategoryID)
	}

	return sc, nil
}

func (sc *scope) empty() bool {
	return len(sc.categories) == 0 && len(sc.exercises) == 0
}

func (sc *scope) contains(q models.QuizQuestion) bool {
	// General questions are always in scope; an empty scope matches the
	// whole course question pool.
	if q.CategoryID == nil && q.ExerciseID == nil {
		return true
	}
	if sc.empty() {
		return true
	}
	if q.CategoryID != nil {
		if _, ok := sc.categories[*q.CategoryID]; ok {
			return true
		}
	}
	if q.ExerciseID != nil {
		if _, ok := sc.exercises[*q.ExerciseID]; ok {
			return true
		}
	}
	return false
}
