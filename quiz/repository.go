package quiz

import (
	"context"

	"lms_backend/models"
)

// Repository is the data access surface the generator needs. The generator
// never reaches for a database handle directly; callers hand it a Repository
// (the Postgres-backed Store in production, a fake in tests).
type Repository interface {
	// GetExercise returns the exercise by id, or nil when it does not exist.
	GetExercise(ctx context.Context, exerciseID int) (*models.Exercise, error)

	// LastCompletedExercise returns the exercise of the student's most
	// recently completed submission in the course, or nil when the student
	// has not completed anything there.
	LastCompletedExercise(ctx context.Context, studentID, courseID int) (*models.Exercise, error)

	// ListExercisesUpTo returns the course's exercises with
	// order_index <= orderIndex, ordered by order_index.
	ListExercisesUpTo(ctx context.Context, courseID, orderIndex int) ([]models.Exercise, error)

	// ListQuestions returns every quiz question of the course, correct
	// answers included.
	ListQuestions(ctx context.Context, courseID int) ([]models.QuizQuestion, error)

	// ListAnswers returns the student's full answer history across all
	// their attempts in any course.
	ListAnswers(ctx context.Context, studentID int) ([]models.QuizAnswer, error)

	// CreateAttempt persists a new attempt and fills in its generated ids.
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
}
