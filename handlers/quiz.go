package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"lms_backend/models"
	"lms_backend/quiz"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type QuizHandler struct {
	db        *sql.DB
	generator *quiz.Generator
}

func NewQuizHandler(db *sql.DB) *QuizHandler {
	return &QuizHandler{
		db:        db,
		generator: quiz.NewGenerator(quiz.NewStore(db)),
	}
}

// GenerateQuiz builds a new quiz attempt for the authenticated student and
// returns the attempt plus the questions with correct answers stripped.
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	userID := c.GetInt("userID")

	var req models.GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), quiz.Request{
		StudentID:  userID,
		ExerciseID: req.ExerciseID,
		QuizType:   req.QuizType,
	})

	if err != nil {
		var noQuestions *quiz.NoQuestionsError
		switch {
		case errors.Is(err, quiz.ErrInvalidExercise):
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz exercise not found"})
		case errors.Is(err, quiz.ErrNoCompletedExercise):
			c.JSON(http.StatusConflict, gin.H{"error": "Complete at least one exercise before taking a quiz"})
		case errors.Is(err, quiz.ErrMissingCategory):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "The last completed exercise has no chapter; ask an instructor to fix the course"})
		case errors.As(err, &noQuestions):
			c.JSON(http.StatusNotFound, gin.H{"error": "No questions available for " + noQuestions.Scope + "; ask an instructor to add questions"})
		default:
			log.Printf("Error generating quiz: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quiz"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attempt":   result.Attempt,
		"questions": result.Questions,
	})
}

// SubmitAttempt grades an attempt against the stored correct answers and
// records every answer. The latest answer per question wins.
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	userID := c.GetInt("userID")

	attemptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attempt id"})
		return
	}

	var req models.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var (
		studentID      int
		totalQuestions int
		passingScore   int
		questionIDs    pq.Int64Array
		completedAt    sql.NullTime
	)
	err = tx.QueryRow(`
		SELECT student_id, total_questions, passing_score, question_ids, completed_at
		FROM quiz_attempts WHERE id = $1
	`, attemptID).Scan(&studentID, &totalQuestions, &passingScore, &questionIDs, &completedAt)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attempt not found"})
		return
	} else if err != nil {
		log.Printf("Error fetching attempt: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attempt"})
		return
	}

	if studentID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Attempt belongs to another student"})
		return
	}
	if completedAt.Valid {
		c.JSON(http.StatusConflict, gin.H{"error": "Attempt already completed"})
		return
	}

	served := make(map[int]bool, len(questionIDs))
	for _, id := range questionIDs {
		served[int(id)] = true
	}

	// Latest submitted answer per question wins when the client sends
	// duplicates.
	latest := make(map[int]string, len(req.Answers))
	for _, answer := range req.Answers {
		if !served[answer.QuestionID] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Answer for a question not in this attempt"})
			return
		}
		latest[answer.QuestionID] = answer.Answer
	}

	correctCount := 0
	now := time.Now()
	for questionID, answer := range latest {
		var correctAnswer string
		err := tx.QueryRow(`SELECT correct_answer FROM quiz_questions WHERE id = $1`, questionID).Scan(&correctAnswer)
		if err != nil {
			log.Printf("Error fetching question %d: %v", questionID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grade attempt"})
			return
		}

		isCorrect := answer == correctAnswer
		if isCorrect {
			correctCount++
		}

		_, err = tx.Exec(`
			INSERT INTO quiz_answers (attempt_id, question_id, answer, is_correct, answered_at)
			VALUES ($1, $2, $3, $4, $5)
		`, attemptID, questionID, answer, isCorrect, now)
		if err != nil {
			log.Printf("Error saving answer: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save answers"})
			return
		}
	}

	// Unanswered questions count as wrong
	score := 0
	if totalQuestions > 0 {
		score = correctCount * 100 / totalQuestions
	}
	passed := score >= passingScore

	_, err = tx.Exec(`
		UPDATE quiz_attempts SET score = $1, passed = $2, completed_at = $3 WHERE id = $4
	`, score, passed, now, attemptID)
	if err != nil {
		log.Printf("Error updating attempt: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attempt"})
		return
	}

	if err = tx.Commit(); err != nil {
		log.Printf("Error committing attempt submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attempt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attempt_id": attemptID,
		"score":      score,
		"passed":     passed,
		"correct":    correctCount,
		"total":      totalQuestions,
	})
}

// GetMyAttempts lists the authenticated student's attempts, newest first.
func (h *QuizHandler) GetMyAttempts(c *gin.Context) {
	userID := c.GetInt("userID")

	rows, err := h.db.Query(`
		SELECT id, public_id, student_id, course_id, quiz_type, reference_exercise_id,
		       question_ids, total_questions, passing_score, score, passed, started_at, completed_at
		FROM quiz_attempts
		WHERE student_id = $1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		log.Printf("Error fetching attempts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attempts"})
		return
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var attempt models.QuizAttempt
		var questionIDs pq.Int64Array
		var score sql.NullInt64
		var completedAt sql.NullTime
		err := rows.Scan(
			&attempt.ID,
			&attempt.PublicID,
			&attempt.StudentID,
			&attempt.CourseID,
			&attempt.QuizType,
			&attempt.ReferenceExerciseID,
			&questionIDs,
			&attempt.TotalQuestions,
			&attempt.PassingScore,
			&score,
			&attempt.Passed,
			&attempt.StartedAt,
			&completedAt,
		)
		if err != nil {
			log.Printf("Error scanning attempt: %v", err)
			continue
		}
		attempt.QuestionIDs = questionIDs
		if score.Valid {
			s := int(score.Int64)
			attempt.Score = &s
		}
		if completedAt.Valid {
			t := completedAt.Time
			attempt.CompletedAt = &t
		}
		attempts = append(attempts, attempt)
	}

	if attempts == nil {
		attempts = make([]models.QuizAttempt, 0)
	}

	c.JSON(http.StatusOK, attempts)
}

// CreateQuestion adds a question to a course's question bank. Trainer/Admin only.
func (h *QuizHandler) CreateQuestion(c *gin.Context) {
	userRole := c.GetString("userRole")
	if userRole != "Admin" && userRole != "Trainer" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and trainers can manage questions"})
		return
	}

	var req models.CreateQuizQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	options, err := json.Marshal(req.Options)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid options"})
		return
	}

	var question models.QuizQuestion
	var categoryID, exerciseID sql.NullInt64
	err = h.db.QueryRow(`
		INSERT INTO quiz_questions (course_id, category_id, exercise_id, question, options, correct_answer)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, course_id, category_id, exercise_id, question, correct_answer
	`, req.CourseID, req.CategoryID, req.ExerciseID, req.Question, string(options), req.CorrectAnswer).Scan(
		&question.ID,
		&question.CourseID,
		&categoryID,
		&exerciseID,
		&question.Question,
		&question.CorrectAnswer,
	)

	if err != nil {
		log.Printf("Error creating question: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create question"})
		return
	}

	if categoryID.Valid {
		id := int(categoryID.Int64)
		question.CategoryID = &id
	}
	if exerciseID.Valid {
		id := int(exerciseID.Int64)
		question.ExerciseID = &id
	}
	question.Options = req.Options

	c.JSON(http.StatusCreated, question)
}

// GetQuestions lists a course's question bank, correct answers included.
// This is the instructor surface; students never see it.
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	userRole := c.GetString("userRole")
	if userRole != "Admin" && userRole != "Trainer" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and trainers can view the question bank"})
		return
	}

	courseID, err := strconv.Atoi(c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id query parameter is required"})
		return
	}

	questions, err := quiz.NewStore(h.db).ListQuestions(c.Request.Context(), courseID)
	if err != nil {
		log.Printf("Error fetching questions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}

	if questions == nil {
		questions = make([]models.QuizQuestion, 0)
	}

	c.JSON(http.StatusOK, questions)
}
