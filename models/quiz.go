package models

import "time"

// Quiz types.
const (
	QuizTypeChapter  = "chapter"
	QuizTypeProgress = "progress"
)

// QuizQuestion belongs to a course and is optionally tagged to a category
// (chapter) or to a specific exercise. A question with neither tag is a
// general course question and is eligible for every quiz scope.
type QuizQuestion struct {
	ID            int      `json:"id"`
	CourseID      int      `json:"course_id"`
	CategoryID    *int     `json:"category_id,omitempty"`
	ExerciseID    *int     `json:"exercise_id,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

type CreateQuizQuestionRequest struct {
	CourseID      int      `json:"course_id" binding:"required"`
	CategoryID    *int     `json:"category_id"`
	ExerciseID    *int     `json:"exercise_id"`
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
}

// QuizAttempt records one generated quiz: the exact ordered question set
// served plus grading state filled in on submission.
type QuizAttempt struct {
	ID                  int        `json:"id"`
	PublicID            string     `json:"public_id"`
	StudentID           int        `json:"student_id"`
	CourseID            int        `json:"course_id"`
	QuizType            string     `json:"quiz_type"`
	ReferenceExerciseID int        `json:"reference_exercise_id"`
	QuestionIDs         []int64    `json:"question_ids"`
	TotalQuestions      int        `json:"total_questions"`
	PassingScore        int        `json:"passing_score"`
	Score               *int       `json:"score,omitempty"`
	Passed              bool       `json:"passed"`
	StartedAt           time.Time  `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// QuizAnswer is one answer given inside an attempt. The generator only ever
// reads these; they are written by attempt submission.
type QuizAnswer struct {
	ID         int       `json:"id"`
	AttemptID  int       `json:"attempt_id"`
	QuestionID int       `json:"question_id"`
	Answer     string    `json:"answer"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

type GenerateQuizRequest struct {
	ExerciseID int    `json:"exercise_id" binding:"required"`
	QuizType   string `json:"quiz_type" binding:"omitempty,oneof=chapter progress"`
}

type SubmitAnswer struct {
	QuestionID int    `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

type SubmitAttemptRequest struct {
	Answers []SubmitAnswer `json:"answers" binding:"required"`
}
