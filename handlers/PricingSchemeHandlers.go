package handlers

import (
	"backend/models"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreatePricingScheme godoc
// @Summary      Create pricing scheme
// @Tags         pricing-schemes
// @Accept       json
// @Produce      json
// @Param        body  body      models.PricingScheme  true  "Pricing scheme"
// @Success      201   {object}  models.PricingScheme
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/pricing-schemes [post]
func CreatePricingScheme(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var req models.PricingScheme
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if !models.IsSchemeType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown scheme type: " + req.Type})
			return
		}

		row := models.PricingSchemeGorm{
			ContractorID: user.ContractorID,
			Name:         req.Name,
			Type:         req.Type,
			Rules:        req.Rules,
			Active:       true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := gdb.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, row)

		log := models.ActivityLog{
			EventContext: "Pricing Scheme",
			EventName:    "Create",
			Description:  "Created pricing scheme " + row.Name,
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

// GetPricingSchemes godoc
// @Summary      List pricing schemes
// @Tags         pricing-schemes
// @Param        active  query  bool  false  "Only active schemes"
// @Success      200  {array}  models.PricingScheme
// @Router       /api/pricing-schemes [get]
func GetPricingSchemes(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		query := gdb.Where("contractor_id = ?", user.ContractorID)
		if c.Query("active") == "true" {
			query = query.Where("active = ?", true)
		}
		var rows []models.PricingSchemeGorm
		if err := query.Order("id").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetPricingScheme godoc
// @Summary      Get pricing scheme by ID
// @Tags         pricing-schemes
// @Param        id   path      int  true  "Scheme ID"
// @Success      200  {object}  models.PricingScheme
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/pricing-schemes/{id} [get]
func GetPricingScheme(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheme ID"})
			return
		}
		var row models.PricingSchemeGorm
		err = gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Pricing scheme not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// UpdatePricingScheme godoc
// @Summary      Update pricing scheme
// @Tags         pricing-schemes
// @Accept       json
// @Param        id    path      int                   true  "Scheme ID"
// @Param        body  body      models.PricingScheme  true  "Pricing scheme"
// @Success      200   {object}  models.PricingScheme
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/pricing-schemes/{id} [put]
func UpdatePricingScheme(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheme ID"})
			return
		}
		var req models.PricingScheme
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if req.Type != "" && !models.IsSchemeType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown scheme type: " + req.Type})
			return
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Type != "" {
			updates["type"] = req.Type
		}
		if req.Rules != nil {
			updates["rules"] = req.Rules
		}

		result := gdb.Model(&models.PricingSchemeGorm{}).
			Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing scheme not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pricing scheme updated"})
	}
}

// SetPricingSchemeActive godoc
// @Summary      Activate or deactivate a pricing scheme
// @Tags         pricing-schemes
// @Param        id   path      int  true  "Scheme ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/pricing-schemes/{id}/active [put]
func SetPricingSchemeActive(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheme ID"})
			return
		}
		var body struct {
			Active *bool `json:"active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "active is required"})
			return
		}
		result := gdb.Model(&models.PricingSchemeGorm{}).
			Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Updates(map[string]interface{}{"active": *body.Active, "updated_at": time.Now()})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing scheme not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pricing scheme updated"})
	}
}

// DeletePricingScheme godoc
// @Summary      Delete pricing scheme
// @Description  Refuses to delete a scheme that is still referenced by saved quotes.
// @Tags         pricing-schemes
// @Param        id   path      int  true  "Scheme ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/pricing-schemes/{id} [delete]
func DeletePricingScheme(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scheme ID"})
			return
		}

		var inUse int64
		if err := gdb.Model(&models.QuoteGorm{}).
			Where("pricing_scheme_id = ? AND contractor_id = ?", id, user.ContractorID).
			Count(&inUse).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if inUse > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Pricing scheme is used by existing quotes; deactivate it instead"})
			return
		}

		result := gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Delete(&models.PricingSchemeGorm{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pricing scheme not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Pricing scheme deleted"})
	}
}
