package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"lms_backend/models"
)

// Store is the Postgres-backed Repository used in production.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const exerciseColumns = `id, course_id, category_id, title, description, exercise_type, order_index, metadata, created_at`

func scanExercise(row interface{ Scan(...any) error }) (*models.Exercise, error) {
	var (
		e          models.Exercise
		categoryID sql.NullInt64
		metadata   []byte
	)
	err := row.Scan(&e.ID, &e.CourseID, &categoryID, &e.Title, &e.Description,
		&e.Type, &e.OrderIndex, &metadata, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		e.CategoryID = &id
	}
	e.Metadata = json.RawMessage(metadata)
	return &e, nil
}

func (s *Store) GetExercise(ctx context.Context, exerciseID int) (*models.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, exerciseID)
	e, err := scanExercise(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

func (s *Store) LastCompletedExercise(ctx context.Context, studentID, courseID int) (*models.Exercise, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT e.id, e.course_id, e.category_id, e.title, e.description,
		       e.exercise_type, e.order_index, e.metadata, e.created_at
		FROM submissions s
		JOIN exercises e ON e.id = s.exercise_id
		WHERE s.student_id = $1 AND e.course_id = $2 AND s.status = 'completed'
		ORDER BY s.submitted_at DESC, s.id DESC
		LIMIT 1
	`, studentID, courseID)
	e, err := scanExercise(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last completed exercise: %w", err)
	}
	return e, nil
}

func (s *Store) ListExercisesUpTo(ctx context.Context, courseID, orderIndex int) ([]models.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
		 WHERE course_id = $1 AND order_index <= $2
		 ORDER BY order_index`, courseID, orderIndex)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercises = append(exercises, *e)
	}
	return exercises, rows.Err()
}

func (s *Store) ListQuestions(ctx context.Context, courseID int) ([]models.QuizQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, course_id, category_id, exercise_id, question, options, correct_answer
		FROM quiz_questions
		WHERE course_id = $1
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		var (
			q          models.QuizQuestion
			categoryID sql.NullInt64
			exerciseID sql.NullInt64
			options    []byte
		)
		if err := rows.Scan(&q.ID, &q.CourseID, &categoryID, &exerciseID,
			&q.Question, &options, &q.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if categoryID.Valid {
			id := int(categoryID.Int64)
			q.CategoryID = &id
		}
		if exerciseID.Valid {
			id := int(exerciseID.Int64)
			q.ExerciseID = &id
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode question %d options: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) ListAnswers(ctx context.Context, studentID int) ([]models.QuizAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.attempt_id, a.question_id, a.answer, a.is_correct, a.answered_at
		FROM quiz_answers a
		JOIN quiz_attempts t ON t.id = a.attempt_id
		WHERE t.student_id = $1
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []models.QuizAnswer
	for rows.Next() {
		var a models.QuizAnswer
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.QuestionID, &a.Answer,
			&a.IsCorrect, &a.AnsweredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (s *Store) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO quiz_attempts
			(public_id, student_id, course_id, quiz_type, reference_exercise_id,
			 question_ids, total_questions, passing_score, passed, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9)
		RETURNING id
	`, attempt.PublicID, attempt.StudentID, attempt.CourseID, attempt.QuizType,
		attempt.ReferenceExerciseID, pq.Array(attempt.QuestionIDs),
		attempt.TotalQuestions, attempt.PassingScore, attempt.StartedAt,
	).Scan(&attempt.ID)
}
