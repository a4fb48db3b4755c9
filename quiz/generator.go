// Package quiz implements quiz generation: it anchors a quiz on the
// student's most recent completed exercise, resolves the eligible question
// scope, classifies candidates by the student's answer history and selects a
// bounded, shuffled question set under a three-tier priority policy
// (unanswered, then incorrectly answered, then correctly answered).
package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"lms_backend/models"
)

type Request struct {
	StudentID  int
	ExerciseID int
	// QuizType overrides the exercise's configured quiz type when set.
	QuizType string
}

type Result struct {
	Attempt   models.QuizAttempt
	Questions []models.QuizQuestion
}

type Generator struct {
	repo Repository
	rng  *rand.Rand
}

func NewGenerator(repo Repository) *Generator {
	return NewSeededGenerator(repo, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSeededGenerator takes an explicit rand source so tests can pin the
// shuffle order.
func NewSeededGenerator(repo Repository, rng *rand.Rand) *Generator {
	return &Generator{repo: repo, rng: rng}
}

// Generate builds and persists a quiz attempt for the student. The returned
// questions have their correct answers stripped; the attempt records the
// exact ids served, in display order. On any error no questions are returned.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	exercise, err := g.repo.GetExercise(ctx, req.ExerciseID)
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	if exercise == nil || exercise.Type != models.ExerciseTypeQuiz {
		return nil, ErrInvalidExercise
	}

	cfg := ParseConfig(exercise.Metadata)
	quizType := req.QuizType
	if quizType != models.QuizTypeChapter && quizType != models.QuizTypeProgress {
		quizType = cfg.QuizType
	}

	reference, err := g.repo.LastCompletedExercise(ctx, req.StudentID, exercise.CourseID)
	if err != nil {
		return nil, fmt.Errorf("last completed exercise: %w", err)
	}
	if reference == nil {
		return nil, ErrNoCompletedExercise
	}

	sc, err := g.resolveScope(ctx, quizType, reference)
	if err != nil {
		return nil, err
	}

	// Scope filtering happens in memory over the whole course pool; the
	// scope predicate is too irregular to push into SQL safely.
	all, err := g.repo.ListQuestions(ctx, exercise.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	var inScope []models.QuizQuestion
	for _, q := range all {
		if sc.contains(q) {
			inScope = append(inScope, q)
		}
	}
	if len(inScope) == 0 {
		return nil, &NoQuestionsError{Scope: sc.label}
	}

	answers, err := g.repo.ListAnswers(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	latest := latestByQuestion(answers)

	var unanswered, incorrect, correct []models.QuizQuestion
	for _, q := range inScope {
		a, ok := latest[q.ID]
		switch {
		case !ok:
			unanswered = append(unanswered, q)
		case !a.IsCorrect:
			incorrect = append(incorrect, q)
		default:
			correct = append(correct, q)
		}
	}

	target := cfg.MaxQuestions
	if len(inScope) < target {
		target = len(inScope)
	}

	selected := make([]models.QuizQuestion, 0, target)
	for _, tier := range [][]models.QuizQuestion{unanswered, incorrect, correct} {
		if len(selected) >= target {
			break
		}
		g.shuffle(tier)
		take := target - len(selected)
		if take > len(tier) {
			take = len(tier)
		}
		selected = append(selected, tier[:take]...)
	}

	// Top up to the configured minimum when the pool allows it.
	if len(selected) < cfg.MinQuestions && len(inScope) >= cfg.MinQuestions {
		chosen := make(map[int]struct{}, len(selected))
		for _, q := range selected {
			chosen[q.ID] = struct{}{}
		}
		var remaining []models.QuizQuestion
		for _, q := range inScope {
			if _, ok := chosen[q.ID]; !ok {
				remaining = append(remaining, q)
			}
		}
		g.shuffle(remaining)
		for _, q := range remaining {
			if len(selected) >= cfg.MinQuestions {
				break
			}
			selected = append(selected, q)
		}
	}

	// Reshuffle the final list so display order does not leak which
	// priority tier a question came from.
	g.shuffle(selected)

	ids := make([]int64, len(selected))
	for i, q := range selected {
		ids[i] = int64(q.ID)
	}

	attempt := &models.QuizAttempt{
		PublicID:            uuid.NewString(),
		StudentID:           req.StudentID,
		CourseID:            exercise.CourseID,
		QuizType:            quizType,
		ReferenceExerciseID: reference.ID,
		QuestionIDs:         ids,
		TotalQuestions:      len(selected),
		PassingScore:        cfg.PassingScore,
		StartedAt:           time.Now(),
	}
	if err := g.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	questions := make([]models.QuizQuestion, len(selected))
	for i, q := range selected {
		q.CorrectAnswer = ""
		questions[i] = q
	}

	return &Result{Attempt: *attempt, Questions: questions}, nil
}

func (g *Generator) shuffle(questions []models.QuizQuestion) {
	g.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

// latestByQuestion keeps only the most recent answer per question; that
// answer decides the question's priority bucket.
func latestByQuestion(answers []models.QuizAnswer) map[int]models.QuizAnswer {
	latest := make(map[int]models.QuizAnswer, len(answers))
	for _, a := range answers {
		if prev, ok := latest[a.QuestionID]; !ok || a.AnsweredAt.After(prev.AnsweredAt) {
			latest[a.QuestionID] = a
		}
	}
	return latest
}
