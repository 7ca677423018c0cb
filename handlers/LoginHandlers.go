package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LoginHandler handles user authentication
// @Summary Login user
// @Description Authenticate user and return session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/login [post]

func LoginHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginData models.LoginRequest
		if err := c.ShouldBindJSON(&loginData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		user, err := storage.GetUserByEmail(db, loginData.Email)
		if err != nil || !utils.ValidatePassword(user.Password, loginData.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		// Generate a new JWT token; the token doubles as the session id.
		newToken, err := utils.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		// Refresh token is bound to this session (device).
		refreshToken, err := utils.GenerateRefreshToken(user.Email, newToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
			return
		}

		session := &models.Session{
			UserID:                user.ID,
			SessionID:             newToken,
			HostName:              user.Email,
			IPAddress:             loginData.IP,
			Timestamp:             time.Now(),
			ExpiresAt:             time.Now().Add(15 * time.Minute),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: time.Now().Add(15 * 24 * time.Hour),
		}

		if err := storage.SaveSession(db, session, true); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Login successful",
			"access_token":  newToken,
			"refresh_token": refreshToken,
			"expires_in":    900,
			"user": gin.H{
				"id":            user.ID,
				"email":         user.Email,
				"contractor_id": user.ContractorID,
				"is_admin":      user.IsAdmin,
			},
		})

		log := models.ActivityLog{
			EventContext: "Login",
			EventName:    "Post",
			Description:  "User Logged In",
			UserName:     user.FirstName + " " + user.LastName,
			HostName:     session.HostName,
			IPAddress:    session.IPAddress,
			CreatedAt:    time.Now(),
			ContractorID: user.ContractorID,
		}
		if logErr := SaveActivityLog(db, log); logErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to log activity",
				"details": logErr.Error(),
			})
			return
		}
	}
}

// RefreshTokenHandler exchanges a valid refresh token for a fresh access token.
// @Summary Refresh access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/refresh-token [post]
func RefreshTokenHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
			return
		}

		parsedToken, err := utils.ValidateJWT(body.RefreshToken)
		if err != nil || !parsedToken.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		claims, ok := parsedToken.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not a refresh token"})
			return
		}
		email, _ := claims["email"].(string)
		oldSessionID, _ := claims["sessionId"].(string)
		if email == "" || oldSessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token claims missing"})
			return
		}

		// The stored token must match what this device presented. A mismatch
		// means the token was already rotated or leaked, so the stored one is
		// revoked rather than left usable.
		stored, err := storage.GetRefreshTokenBySession(db, oldSessionID)
		if err != nil || stored != body.RefreshToken {
			if err == nil {
				_ = storage.DeleteRefreshToken(db, oldSessionID)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not recognized"})
			return
		}

		user, err := storage.GetUserByEmail(db, email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		if user.Suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		newToken, err := utils.GenerateJWT(email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(email, newToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
			return
		}

		// Rotate the session: the old device session is replaced.
		if err := storage.DeleteSessionByID(db, oldSessionID, user.ID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session no longer exists"})
			return
		}
		session := &models.Session{
			UserID:                user.ID,
			SessionID:             newToken,
			HostName:              email,
			IPAddress:             c.ClientIP(),
			Timestamp:             time.Now(),
			ExpiresAt:             time.Now().Add(15 * time.Minute),
			RefreshToken:          refreshToken,
			RefreshTokenExpiresAt: time.Now().Add(15 * 24 * time.Hour),
		}
		if err := storage.SaveSession(db, session, true); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  newToken,
			"refresh_token": refreshToken,
			"expires_in":    900,
		})
	}
}

// LogoutHandler removes the presenting device's session.
// @Summary Logout
// @Tags Authentication
// @Produce json
// @Success 200 {object} object
// @Failure 401 {object} models.ErrorResponse
// @Router /api/logout [post]
func LogoutHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		token := sessionToken(c)
		if err := storage.DeleteSessionByID(db, token, user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// LogoutAllHandler removes every session of the current user, logging out
// all devices including the one making the request.
// @Summary Logout everywhere
// @Tags Authentication
// @Produce json
// @Success 200 {object} object
// @Failure 401 {object} models.ErrorResponse
// @Router /api/logout-all [post]
func LogoutAllHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if err := storage.DeleteAllUserSessions(db, user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sessions", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out on all devices"})
	}
}

// GetSessionsHandler lists the active sessions (devices) of the current user.
// @Summary List active sessions
// @Tags Authentication
// @Produce json
// @Success 200 {array} models.Session
// @Failure 401 {object} models.ErrorResponse
// @Router /api/sessions [get]
func GetSessionsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		sessions, err := storage.GetUserSessions(db, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// Tokens stay server-side.
		for i := range sessions {
			sessions[i].SessionID = ""
			sessions[i].RefreshToken = ""
		}
		c.JSON(http.StatusOK, sessions)
	}
}
