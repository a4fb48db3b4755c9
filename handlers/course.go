package handlers

import (
	"database/sql"
	"net/http"

	"lms_backend/models"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	db *sql.DB
}

func NewCourseHandler(db *sql.DB) *CourseHandler {
	return &CourseHandler{db: db}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID := c.GetInt("userID")

	// Check if user is an admin
	var isAdmin bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM user_roles ur
            JOIN roles r ON r.id = ur.role_id
            WHERE ur.user_id = $1 AND r.role = 'Admin'
        )
    `, userID).Scan(&isAdmin)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify admin status"})
		return
	}

	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create courses"})
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course models.Course
	err = h.db.QueryRow(`
        INSERT INTO courses (title, description, price)
        VALUES ($1, $2, $3)
        RETURNING id, title, description, price, created_at
    `, req.Title, req.Description, req.Price).Scan(
		&course.ID, &course.Title, &course.Description, &course.Price, &course.CreatedAt)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) GetCourses(c *gin.Context) {
	// Every authenticated user can browse the catalog; exercise summaries
	// come along so the client can draw the course outline.
	rows, err := h.db.Query(`
        SELECT
            c.id,
            c.title,
            c.description,
            c.price,
            c.created_at,
            e.id,
            e.category_id,
            e.title,
            e.exercise_type,
            e.order_index
        FROM courses c
        LEFT JOIN exercises e ON e.course_id = c.id
        ORDER BY
            c.created_at DESC,
            e.order_index ASC
    `)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
		return
	}
	defer rows.Close()

	coursesMap := make(map[int]*models.CourseWithExercises)
	var order []int

	for rows.Next() {
		var course models.CourseWithExercises
		var exerciseID, categoryID sql.NullInt64
		var exerciseTitle, exerciseType sql.NullString
		var orderIndex sql.NullInt64

		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Price,
			&course.CreatedAt,
			&exerciseID,
			&categoryID,
			&exerciseTitle,
			&exerciseType,
			&orderIndex,
		)

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan course data"})
			return
		}

		existing, ok := coursesMap[course.ID]
		if !ok {
			course.Exercises = []models.ExerciseResponse{}
			coursesMap[course.ID] = &course
			order = append(order, course.ID)
			existing = &course
		}

		if exerciseID.Valid {
			exercise := models.ExerciseResponse{
				ID:         int(exerciseID.Int64),
				CourseID:   existing.ID,
				Title:      exerciseTitle.String,
				Type:       exerciseType.String,
				OrderIndex: int(orderIndex.Int64),
			}
			if categoryID.Valid {
				id := int(categoryID.Int64)
				exercise.CategoryID = &id
			}
			existing.Exercises = append(existing.Exercises, exercise)
		}
	}

	courses := make([]models.CourseWithExercises, 0, len(order))
	for _, id := range order {
		courses = append(courses, *coursesMap[id])
	}

	c.JSON(http.StatusOK, courses)
}
