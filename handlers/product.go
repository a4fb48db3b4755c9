package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"lms_backend/models"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	db *sql.DB
}

func NewProductHandler(db *sql.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	if c.GetString("userRole") != "Admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can manage products"})
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	err := h.db.QueryRow(`
		INSERT INTO products (title, description, price)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, price, created_at
	`, req.Title, req.Description, req.Price).Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.CreatedAt,
	)

	if err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	rows, err := h.db.Query(`
		SELECT id, title, description, price, created_at
		FROM products
		ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Description,
			&product.Price,
			&product.CreatedAt,
		)
		if err != nil {
			log.Printf("Error scanning product: %v", err)
			continue
		}
		products = append(products, product)
	}

	if products == nil {
		products = make([]models.Product, 0)
	}

	c.JSON(http.StatusOK, products)
}
