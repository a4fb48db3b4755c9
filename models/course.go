package models

import "time"

type Course struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"` // tomans
	CreatedAt   time.Time `json:"created_at"`
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// CourseWithExercises is the admin/trainer course listing shape.
type CourseWithExercises struct {
	ID          int                `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       int                `json:"price"`
	CreatedAt   time.Time          `json:"created_at"`
	Exercises   []ExerciseResponse `json:"exercises"`
}

type Category struct {
	ID        int    `json:"id"`
	CourseID  int    `json:"course_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateCategoryRequest struct {
	CourseID int    `json:"course_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
}
