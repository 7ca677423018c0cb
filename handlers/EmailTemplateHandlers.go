package handlers

import (
	"backend/models"
	"backend/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetEmailTemplateVariables godoc
// @Summary      List available email template variables
// @Tags         email
// @Produce      json
// @Success      200  {object}  object
// @Router       /api/email/variables [get]
func GetEmailTemplateVariables(emailService *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"variables": emailService.GetAvailableVariables()})
	}
}

// PreviewEmailTemplate godoc
// @Summary      Render an email template as plain text
// @Description  Substitutes the given sample data into the template and strips the HTML, so the frontend can show how the email will read.
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "Template body and sample data"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/email/preview [post]
func PreviewEmailTemplate(emailService *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Body string           `json:"body" binding:"required"`
			Data models.EmailData `json:"data"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if err := emailService.ValidateTemplate(req.Body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		preview, err := emailService.PreviewEmailAsText(req.Body, req.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"preview": preview})
	}
}
