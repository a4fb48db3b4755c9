package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	db *sql.DB
}

func NewRoleHandler(db *sql.DB) *RoleHandler {
	return &RoleHandler{db: db}
}

func (h *RoleHandler) GetRoles(c *gin.Context) {
	rows, err := h.db.Query(`SELECT id, role FROM roles ORDER BY id`)
	if err != nil {
		log.Printf("Error fetching roles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	defer rows.Close()

	var roles []gin.H
	for rows.Next() {
		var id int
		var role string
		if err := rows.Scan(&id, &role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan role"})
			return
		}
		roles = append(roles, gin.H{"id": id, "role": role})
	}

	c.JSON(http.StatusOK, roles)
}

// AssignRole grants a role to a user. Admin only.
func (h *RoleHandler) AssignRole(c *gin.Context) {
	if c.GetString("userRole") != "Admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can assign roles"})
		return
	}

	var req struct {
		UserID int    `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var roleID int
	err := h.db.QueryRow(`SELECT id FROM roles WHERE role = $1`, req.Role).Scan(&roleID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up role"})
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, req.UserID, roleID)
	if err != nil {
		log.Printf("Error assigning role: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role assigned", "user_id": req.UserID, "role": req.Role})
}
