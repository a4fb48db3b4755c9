package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"lms_backend/models"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	db *sql.DB
}

func NewCategoryHandler(db *sql.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userRole := c.GetString("userRole")
	if userRole != "Admin" && userRole != "Trainer" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and trainers can manage categories"})
		return
	}

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var courseExists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, req.CourseID).Scan(&courseExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify course"})
		return
	}
	if !courseExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var category models.Category
	err = h.db.QueryRow(`
		INSERT INTO categories (course_id, title)
		VALUES ($1, $2)
		RETURNING id, course_id, title
	`, req.CourseID, req.Title).Scan(&category.ID, &category.CourseID, &category.Title)

	if err != nil {
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	courseID := c.Query("course_id")

	var rows *sql.Rows
	var err error

	if courseID != "" {
		rows, err = h.db.Query(`
			SELECT id, course_id, title FROM categories
			WHERE course_id = $1 ORDER BY id
		`, courseID)
	} else {
		rows, err = h.db.Query(`SELECT id, course_id, title FROM categories ORDER BY id`)
	}

	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.CourseID, &category.Title); err != nil {
			log.Printf("Error scanning category: %v", err)
			continue
		}
		categories = append(categories, category)
	}

	if categories == nil {
		categories = make([]models.Category, 0)
	}

	c.JSON(http.StatusOK, categories)
}
