package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SendProposal godoc
// @Summary      Email the proposal to the quote's customer
// @Description  Sends the customer a portal link for the quote and moves the quote to the sent status.
// @Tags         quotes
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {object}  object
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/send [post]
func SendProposal(db *sql.DB, gdb *gorm.DB, emailService *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		quote, err := fetchQuote(gdb, user.ContractorID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if quote.PortalToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quote has no portal token"})
			return
		}

		var customerRow models.CustomerGorm
		err = gdb.Where("id = ? AND contractor_id = ?", quote.CustomerID, user.ContractorID).
			First(&customerRow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Quote has no customer"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		portalURL := portalBaseURL() + "/portal/quote/" + quote.PortalToken
		err = emailService.SendProposalEmail(
			models.Quote{
				ID:           quote.ID,
				ContractorID: quote.ContractorID,
				QuoteNumber:  quote.QuoteNumber,
				Title:        quote.Title,
				Total:        quote.Total,
			},
			models.Customer{
				FirstName: customerRow.FirstName,
				LastName:  customerRow.LastName,
				Email:     customerRow.Email,
			},
			portalURL,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send proposal email", "details": err.Error()})
			return
		}

		if err := gdb.Model(quote).
			Updates(map[string]interface{}{"status": "sent", "updated_at": time.Now()}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Proposal sent"})

		log := models.ActivityLog{
			EventContext: "Quote",
			EventName:    "Send",
			Description:  "Sent proposal " + quote.QuoteNumber + " to " + customerRow.Email,
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
