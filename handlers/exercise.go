package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"lms_backend/models"

	"github.com/gin-gonic/gin"
)

type ExerciseHandler struct {
	db *sql.DB
}

func NewExerciseHandler(db *sql.DB) *ExerciseHandler {
	return &ExerciseHandler{db: db}
}

func (h *ExerciseHandler) checkPermission(userID int) (bool, error) {
	var hasPermission bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM user_roles ur
            JOIN roles r ON r.id = ur.role_id
            WHERE ur.user_id = $1
            AND r.role IN ('Admin', 'Trainer')
        )
    `, userID).Scan(&hasPermission)

	return hasPermission, err
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID := c.GetInt("userID")

	hasPermission, err := h.checkPermission(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify permissions"})
		return
	}

	if !hasPermission {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and trainers can manage exercises"})
		return
	}

	var req models.CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var courseExists bool
	err = h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, req.CourseID).Scan(&courseExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify course"})
		return
	}
	if !courseExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	var exercise models.Exercise
	var categoryID sql.NullInt64
	err = h.db.QueryRow(`
        INSERT INTO exercises (course_id, category_id, title, description, exercise_type, order_index, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, course_id, category_id, title, description, exercise_type, order_index, created_at
    `, req.CourseID, req.CategoryID, req.Title, req.Description, req.Type, req.OrderIndex, string(metadata)).Scan(
		&exercise.ID,
		&exercise.CourseID,
		&categoryID,
		&exercise.Title,
		&exercise.Description,
		&exercise.Type,
		&exercise.OrderIndex,
		&exercise.CreatedAt,
	)

	if err != nil {
		log.Printf("Error creating exercise: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exercise"})
		return
	}

	if categoryID.Valid {
		id := int(categoryID.Int64)
		exercise.CategoryID = &id
	}
	exercise.Metadata = metadata

	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	courseID := c.Query("course_id")

	var rows *sql.Rows
	var err error

	if courseID != "" {
		rows, err = h.db.Query(`
            SELECT id, course_id, category_id, title, exercise_type, order_index
            FROM exercises
            WHERE course_id = $1
            ORDER BY order_index ASC
        `, courseID)
	} else {
		rows, err = h.db.Query(`
            SELECT id, course_id, category_id, title, exercise_type, order_index
            FROM exercises
            ORDER BY course_id, order_index ASC
        `)
	}

	if err != nil {
		log.Printf("Error fetching exercises: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exercises"})
		return
	}
	defer rows.Close()

	var exercises []models.ExerciseResponse
	for rows.Next() {
		var exercise models.ExerciseResponse
		var categoryID sql.NullInt64
		err := rows.Scan(
			&exercise.ID,
			&exercise.CourseID,
			&categoryID,
			&exercise.Title,
			&exercise.Type,
			&exercise.OrderIndex,
		)
		if err != nil {
			log.Printf("Error scanning exercise: %v", err)
			continue
		}
		if categoryID.Valid {
			id := int(categoryID.Int64)
			exercise.CategoryID = &id
		}
		exercises = append(exercises, exercise)
	}

	if exercises == nil {
		exercises = make([]models.ExerciseResponse, 0)
	}

	c.JSON(http.StatusOK, exercises)
}

// SubmitExercise marks an exercise as completed by the student. Completed
// submissions are what anchor quiz generation.
func (h *ExerciseHandler) SubmitExercise(c *gin.Context) {
	userID := c.GetInt("userID")

	exerciseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exercise id"})
		return
	}

	var exerciseExists bool
	err = h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM exercises WHERE id = $1)`, exerciseID).Scan(&exerciseExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify exercise"})
		return
	}
	if !exerciseExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exercise not found"})
		return
	}

	var submission models.Submission
	err = h.db.QueryRow(`
        INSERT INTO submissions (exercise_id, student_id, status)
        VALUES ($1, $2, 'completed')
        RETURNING id, exercise_id, student_id, status, submitted_at
    `, exerciseID, userID).Scan(
		&submission.ID,
		&submission.ExerciseID,
		&submission.StudentID,
		&submission.Status,
		&submission.SubmittedAt,
	)

	if err != nil {
		log.Printf("Error creating submission: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit exercise"})
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetMySubmissions lists the authenticated student's submissions, optionally
// filtered by course.
func (h *ExerciseHandler) GetMySubmissions(c *gin.Context) {
	userID := c.GetInt("userID")
	courseID := c.Query("course_id")

	var rows *sql.Rows
	var err error

	if courseID != "" {
		rows, err = h.db.Query(`
            SELECT s.id, s.exercise_id, s.student_id, s.status, s.submitted_at
            FROM submissions s
            JOIN exercises e ON e.id = s.exercise_id
            WHERE s.student_id = $1 AND e.course_id = $2
            ORDER BY s.submitted_at DESC
        `, userID, courseID)
	} else {
		rows, err = h.db.Query(`
            SELECT id, exercise_id, student_id, status, submitted_at
            FROM submissions
            WHERE student_id = $1
            ORDER BY submitted_at DESC
        `, userID)
	}

	if err != nil {
		log.Printf("Error fetching submissions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		var submission models.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.ExerciseID,
			&submission.StudentID,
			&submission.Status,
			&submission.SubmittedAt,
		)
		if err != nil {
			log.Printf("Error scanning submission: %v", err)
			continue
		}
		submissions = append(submissions, submission)
	}

	if submissions == nil {
		submissions = make([]models.Submission, 0)
	}

	c.JSON(http.StatusOK, submissions)
}
