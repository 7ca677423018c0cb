package handlers

import (
	"backend/models"
	"backend/utils"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateUserHandler godoc
// @Summary      Create a user for the current contractor
// @Description  Admin only. The password is stored as a bcrypt hash.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "User payload"
// @Success      201   {object}  models.User
// @Failure      400   {object}  models.ErrorResponse
// @Failure      403   {object}  models.ErrorResponse
// @Router       /api/users [post]
func CreateUserHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email     string `json:"email" binding:"required,email"`
			Password  string `json:"password" binding:"required,min=8"`
			FirstName string `json:"first_name" binding:"required"`
			LastName  string `json:"last_name" binding:"required"`
			IsAdmin   bool   `json:"is_admin"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}

		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		var newID int
		err = db.QueryRow(`
			INSERT INTO users (contractor_id, email, password, first_name, last_name, is_admin, suspended, created_at, updated_at)
			VALUES ($1, LOWER($2), $3, $4, $5, $6, false, NOW(), NOW())
			RETURNING id`,
			user.ContractorID, strings.TrimSpace(req.Email), hashed, req.FirstName, req.LastName, req.IsAdmin,
		).Scan(&newID)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":         newID,
			"email":      strings.ToLower(strings.TrimSpace(req.Email)),
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"is_admin":   req.IsAdmin,
		})

		log := models.ActivityLog{
			EventContext: "User",
			EventName:    "Create",
			Description:  "Created user " + strings.ToLower(strings.TrimSpace(req.Email)),
			UserName:     user.FirstName + " " + user.LastName,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now(),
			ContractorID: user.ContractorID,
		}
		if logErr := SaveActivityLog(db, log); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log activity", "details": logErr.Error()})
			return
		}
	}
}

// GetUsersHandler godoc
// @Summary      List users of the current contractor
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.User
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/users [get]
func GetUsersHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		rows, err := db.Query(`
			SELECT id, contractor_id, email, first_name, last_name, is_admin, suspended, created_at
			FROM users WHERE contractor_id = $1 ORDER BY last_name, first_name`, user.ContractorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		users := []models.User{}
		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.ContractorID, &u.Email, &u.FirstName, &u.LastName, &u.IsAdmin, &u.Suspended, &u.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			users = append(users, u)
		}
		c.JSON(http.StatusOK, users)
	}
}
