package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"lms_backend/models"

	"github.com/gin-gonic/gin"
)

type WikiHandler struct {
	db *sql.DB
}

func NewWikiHandler(db *sql.DB) *WikiHandler {
	return &WikiHandler{db: db}
}

func (h *WikiHandler) CreateArticle(c *gin.Context) {
	userID := c.GetInt("userID")
	userRole := c.GetString("userRole")
	if userRole != "Admin" && userRole != "Trainer" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and trainers can write wiki articles"})
		return
	}

	var req models.CreateWikiArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var article models.WikiArticle
	err := h.db.QueryRow(`
		INSERT INTO wiki_articles (title, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, author_id, created_at, updated_at
	`, req.Title, req.Content, userID).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
	)

	if err != nil {
		log.Printf("Error creating article: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, article)
}

func (h *WikiHandler) GetArticles(c *gin.Context) {
	rows, err := h.db.Query(`
		SELECT id, title, content, author_id, created_at, updated_at
		FROM wiki_articles
		ORDER BY updated_at DESC
	`)
	if err != nil {
		log.Printf("Error fetching articles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}
	defer rows.Close()

	var articles []models.WikiArticle
	for rows.Next() {
		var article models.WikiArticle
		err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.AuthorID,
			&article.CreatedAt,
			&article.UpdatedAt,
		)
		if err != nil {
			log.Printf("Error scanning article: %v", err)
			continue
		}
		articles = append(articles, article)
	}

	if articles == nil {
		articles = make([]models.WikiArticle, 0)
	}

	c.JSON(http.StatusOK, articles)
}

func (h *WikiHandler) GetArticleByID(c *gin.Context) {
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	var article models.WikiArticle
	err = h.db.QueryRow(`
		SELECT id, title, content, author_id, created_at, updated_at
		FROM wiki_articles WHERE id = $1
	`, articleID).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	} else if err != nil {
		log.Printf("Error fetching article: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch article"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *WikiHandler) UpdateArticle(c *gin.Context) {
	userRole := c.GetString("userRole")
	if userRole != "Admin" && userRole != "Trainer" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins and trainers can edit wiki articles"})
		return
	}

	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	var req models.UpdateWikiArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.db.Exec(`
		UPDATE wiki_articles
		SET title = COALESCE(NULLIF($1, ''), title),
		    content = COALESCE(NULLIF($2, ''), content),
		    updated_at = NOW()
		WHERE id = $3
	`, req.Title, req.Content, articleID)
	if err != nil {
		log.Printf("Error updating article: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify update"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": articleID, "message": "Article updated"})
}
