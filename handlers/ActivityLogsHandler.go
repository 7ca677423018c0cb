package handlers

import (
	"backend/models"
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func GetSessionDetails(db *sql.DB, sessionID string) (models.Session, string, error) {
	var session models.Session
	var userName string

	query := `
        SELECT s.user_id, CONCAT(u.first_name, ' ', u.last_name) AS user_name, s.host_name, s.ip_address
        FROM session s
        JOIN users u ON s.user_id = u.id
        WHERE s.session_id = $1`

	err := db.QueryRow(query, sessionID).Scan(
		&session.UserID,
		&userName,
		&session.HostName,
		&session.IPAddress,
	)
	if err != nil {
		return models.Session{}, "", err
	}
	return session, userName, nil
}

// Helper to save activity logs
func SaveActivityLog(db *sql.DB, log models.ActivityLog) error {
	query := `
    INSERT INTO activity_logs (
        created_at, user_name, host_name, event_context, ip_address,
        description, event_name, contractor_id
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(query,
		log.CreatedAt, log.UserName, log.HostName, log.EventContext, log.IPAddress,
		log.Description, log.EventName, log.ContractorID,
	)
	return err
}

// GetActivityLogsHandler godoc
// @Summary      Get activity logs
// @Tags         activity-logs
// @Param        page   query  int  false  "Page"
// @Param        limit  query  int  false  "Limit"
// @Success      200    {object}  object
// @Router       /api/logs [get]
func GetActivityLogsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		pageStr := c.DefaultQuery("page", "1")
		limitStr := c.DefaultQuery("limit", "10")

		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			page = 1
		}

		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			limit = 10
		}

		offset := (page - 1) * limit

		// ----------- Step 1: Count total records -----------
		var totalRecords int
		countQuery := `SELECT COUNT(*) FROM activity_logs WHERE contractor_id = $1`
		if err := db.QueryRow(countQuery, user.ContractorID).Scan(&totalRecords); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting logs"})
			return
		}

		totalPages := int(math.Ceil(float64(totalRecords) / float64(limit)))
		hasNext := page < totalPages
		hasPrev := page > 1

		// ----------- Step 2: Fetch paginated data -----------
		query := `
			SELECT id, created_at, user_name, host_name, event_context, ip_address,
				   description, event_name, contractor_id
			FROM activity_logs
			WHERE contractor_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`

		rows, err := db.Query(query, user.ContractorID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error querying logs"})
			return
		}
		defer rows.Close()

		var logs []models.ActivityLog
		for rows.Next() {
			var (
				log          models.ActivityLog
				userName     sql.NullString
				hostName     sql.NullString
				eventContext sql.NullString
				ipAddress    sql.NullString
				description  sql.NullString
				eventName    sql.NullString
				contractorID sql.NullInt64
			)

			err := rows.Scan(
				&log.ID, &log.CreatedAt, &userName, &hostName, &eventContext, &ipAddress,
				&description, &eventName, &contractorID,
			)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning logs"})
				return
			}

			log.UserName = getStringOrEmpty(userName)
			log.HostName = getStringOrEmpty(hostName)
			log.EventContext = getStringOrEmpty(eventContext)
			log.IPAddress = getStringOrEmpty(ipAddress)
			log.Description = getStringOrEmpty(description)
			log.EventName = getStringOrEmpty(eventName)
			log.ContractorID = getIntOrZero(contractorID)

			logs = append(logs, log)
		}

		// ----------- Step 3: Send response -----------
		c.JSON(http.StatusOK, gin.H{
			"logs": logs,
			"pagination": gin.H{
				"current_page":  page,
				"page_size":     limit,
				"total_records": totalRecords,
				"total_pages":   totalPages,
				"has_next":      hasNext,
				"has_prev":      hasPrev,
			},
		})
	}
}

func getStringOrEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func getIntOrZero(ni sql.NullInt64) int {
	if ni.Valid {
		return int(ni.Int64)
	}
	return 0
}

// CreateActivityLogHandler godoc
// @Summary      Record a client-reported event
// @Description  Lets the frontend log UI events the backend would not otherwise see. Host and IP are taken from the session, not the request body.
// @Tags         activity-logs
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Event payload"
// @Success      201   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Router       /api/activity-logs [post]
func CreateActivityLogHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			EventContext string `json:"event_context" binding:"required"`
			EventName    string `json:"event_name" binding:"required"`
			Description  string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}

		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		session, userName, err := GetSessionDetails(db, sessionToken(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
			return
		}

		entry := models.ActivityLog{
			CreatedAt:    time.Now(),
			UserName:     userName,
			HostName:     session.HostName,
			EventContext: req.EventContext,
			IPAddress:    session.IPAddress,
			Description:  req.Description,
			EventName:    req.EventName,
			ContractorID: user.ContractorID,
		}
		if err := SaveActivityLog(db, entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save activity log", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Activity logged"})
	}
}
