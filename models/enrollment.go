package models

import "time"

type Enrollment struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	CourseID    int       `json:"course_id"`
	CourseTitle string    `json:"course_title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateEnrollmentRequest struct {
	CourseID int `json:"course_id" binding:"required"`
}

// Transaction is one accounting row. Enrollments produce negative amounts,
// deposits positive ones.
type Transaction struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
