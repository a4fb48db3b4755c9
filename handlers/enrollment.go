package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"lms_backend/models"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	db *sql.DB
}

func NewEnrollmentHandler(db *sql.DB) *EnrollmentHandler {
	return &EnrollmentHandler{db: db}
}

// CreateEnrollment enrolls the authenticated student in a course and books
// the course price as a negative accounting transaction, in one transaction.
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	userID := c.GetInt("userID")

	var req models.CreateEnrollmentRequest
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

	var courseTitle string
	var coursePrice int
	err = tx.QueryRow(`SELECT title, price FROM courses WHERE id = $1`, req.CourseID).Scan(&courseTitle, &coursePrice)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch course"})
		return
	}

	var alreadyEnrolled bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)
	`, userID, req.CourseID).Scan(&alreadyEnrolled)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
		return
	}
	if alreadyEnrolled {
		c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled in this course"})
		return
	}

	var enrollment models.Enrollment
	err = tx.QueryRow(`
		INSERT INTO enrollments (student_id, course_id)
		VALUES ($1, $2)
		RETURNING id, student_id, course_id, created_at
	`, userID, req.CourseID).Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.CourseID,
		&enrollment.CreatedAt,
	)
	if err != nil {
		log.Printf("Error creating enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		return
	}

	_, err = tx.Exec(`
		INSERT INTO transactions (user_id, amount, description)
		VALUES ($1, $2, $3)
	`, userID, -coursePrice, "Enrollment: "+courseTitle)
	if err != nil {
		log.Printf("Error creating transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	if err = tx.Commit(); err != nil {
		log.Printf("Error committing enrollment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		return
	}

	enrollment.CourseTitle = courseTitle
	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) GetMyEnrollments(c *gin.Context) {
	userID := c.GetInt("userID")

	rows, err := h.db.Query(`
		SELECT e.id, e.student_id, e.course_id, c.title, e.created_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = $1
		ORDER BY e.created_at DESC
	`, userID)
	if err != nil {
		log.Printf("Error fetching enrollments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
		return
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var enrollment models.Enrollment
		err := rows.Scan(
			&enrollment.ID,
			&enrollment.StudentID,
			&enrollment.CourseID,
			&enrollment.CourseTitle,
			&enrollment.CreatedAt,
		)
		if err != nil {
			log.Printf("Error scanning enrollment: %v", err)
			continue
		}
		enrollments = append(enrollments, enrollment)
	}

	if enrollments == nil {
		enrollments = make([]models.Enrollment, 0)
	}

	c.JSON(http.StatusOK, enrollments)
}

// GetBalance returns the sum of the student's transactions.
func (h *EnrollmentHandler) GetBalance(c *gin.Context) {
	userID := c.GetInt("userID")

	var balance int
	err := h.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1
	`, userID).Scan(&balance)
	if err != nil {
		log.Printf("Error fetching balance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetTransactions returns the student's accounting statement, newest first.
func (h *EnrollmentHandler) GetTransactions(c *gin.Context) {
	userID := c.GetInt("userID")

	rows, err := h.db.Query(`
		SELECT id, user_id, amount, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		log.Printf("Error fetching transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var transaction models.Transaction
		err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.Amount,
			&transaction.Description,
			&transaction.CreatedAt,
		)
		if err != nil {
			log.Printf("Error scanning transaction: %v", err)
			continue
		}
		transactions = append(transactions, transaction)
	}

	if transactions == nil {
		transactions = make([]models.Transaction, 0)
	}

	c.JSON(http.StatusOK, transactions)
}
