package models

import (
	"encoding/json"
	"time"
)

// Exercise types. A "quiz" exercise carries its quiz configuration in Metadata
// under the "quiz_config" key.
const (
	ExerciseTypeContent = "content"
	ExerciseTypeQuiz    = "quiz"
)

type Exercise struct {
	ID          int             `json:"id"`
	CourseID    int             `json:"course_id"`
	CategoryID  *int            `json:"category_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"exercise_type"`
	OrderIndex  int             `json:"order_index"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ExerciseResponse struct {
	ID         int    `json:"id"`
	CourseID   int    `json:"course_id"`
	CategoryID *int   `json:"category_id,omitempty"`
	Title      string `json:"title"`
	Type       string `json:"exercise_type"`
	OrderIndex int    `json:"order_index"`
}

type CreateExerciseRequest struct {
	CourseID    int             `json:"course_id" binding:"required"`
	CategoryID  *int            `json:"category_id"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Type        string          `json:"exercise_type" binding:"required,oneof=content quiz"`
	OrderIndex  int             `json:"order_index"`
	Metadata    json.RawMessage `json:"metadata"`
}

// Submission statuses.
const (
	SubmissionPending   = "pending"
	SubmissionCompleted = "completed"
)

type Submission struct {
	ID          int       `json:"id"`
	ExerciseID  int       `json:"exercise_id"`
	StudentID   int       `json:"student_id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
