package handlers

import (
	"backend/utils"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats godoc
// @Summary      Dashboard statistics
// @Description  Quote counts by status, pipeline and accepted value, customer count, and a 30 day acceptance rate for the contractor.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  object
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/dashboard [get]
func GetDashboardStats(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		ctx, cancel := utils.GetDefaultQueryContext(c.Request.Context())
		defer cancel()

		statusCounts := map[string]int{}
		rows, err := db.QueryContext(ctx, `
			SELECT status, COUNT(*)
			FROM quotes
			WHERE contractor_id = $1
			GROUP BY status
		`, user.ContractorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote counts", "details": err.Error()})
			return
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var count int
			if err := rows.Scan(&status, &count); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse quote counts", "details": err.Error()})
				return
			}
			statusCounts[status] = count
		}

		var pipelineValue, acceptedValue float64
		err = db.QueryRowContext(ctx, `
			SELECT
				COALESCE(SUM(total) FILTER (WHERE status IN ('draft', 'sent')), 0),
				COALESCE(SUM(total) FILTER (WHERE status = 'accepted'), 0)
			FROM quotes
			WHERE contractor_id = $1
		`, user.ContractorID).Scan(&pipelineValue, &acceptedValue)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote values", "details": err.Error()})
			return
		}

		var customerCount int
		err = db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM customers WHERE contractor_id = $1
		`, user.ContractorID).Scan(&customerCount)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer count", "details": err.Error()})
			return
		}

		// Acceptance rate over the last 30 days: accepted / (accepted + declined).
		since := time.Now().AddDate(0, 0, -30)
		var accepted30, decided30 int
		err = db.QueryRowContext(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE status = 'accepted'),
				COUNT(*) FILTER (WHERE status IN ('accepted', 'declined'))
			FROM quotes
			WHERE contractor_id = $1 AND updated_at >= $2
		`, user.ContractorID, since).Scan(&accepted30, &decided30)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch acceptance rate", "details": err.Error()})
			return
		}
		acceptanceRate := 0.0
		if decided30 > 0 {
			acceptanceRate = float64(accepted30) / float64(decided30) * 100
		}

		ctxRecent, cancelRecent := utils.GetFastQueryContext(c.Request.Context())
		defer cancelRecent()

		type recentQuote struct {
			ID          int       `json:"id"`
			QuoteNumber string    `json:"quote_number"`
			Title       string    `json:"title"`
			Status      string    `json:"status"`
			Total       float64   `json:"total"`
			CreatedAt   time.Time `json:"created_at"`
		}
		recent := []recentQuote{}
		recentRows, err := db.QueryContext(ctxRecent, `
			SELECT id, quote_number, title, status, total, created_at
			FROM quotes
			WHERE contractor_id = $1
			ORDER BY created_at DESC
			LIMIT 5
		`, user.ContractorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent quotes", "details": err.Error()})
			return
		}
		defer recentRows.Close()
		for recentRows.Next() {
			var q recentQuote
			if err := recentRows.Scan(&q.ID, &q.QuoteNumber, &q.Title, &q.Status, &q.Total, &q.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse recent quotes", "details": err.Error()})
				return
			}
			recent = append(recent, q)
		}

		c.JSON(http.StatusOK, gin.H{
			"quote_counts":    statusCounts,
			"pipeline_value":  pipelineValue,
			"accepted_value":  acceptedValue,
			"customer_count":  customerCount,
			"acceptance_rate": acceptanceRate,
			"recent_quotes":   recent,
		})
	}
}
