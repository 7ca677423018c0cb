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

// GetContractorSettings godoc
// @Summary      Get contractor settings
// @Description  Returns the default markup and tax percentages. Contractors without a saved row get the 15 percent markup / 0 percent tax defaults.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.ContractorSettings
// @Router       /api/settings [get]
func GetContractorSettings(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var row models.ContractorSettingGorm
		err := gdb.Where("contractor_id = ?", user.ContractorID).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, models.ContractorSettings{
				ContractorID:         user.ContractorID,
				DefaultMarkupPercent: 15,
				TaxPercent:           0,
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row.Settings())
	}
}

// UpdateContractorSettings godoc
// @Summary      Update contractor settings
// @Tags         settings
// @Accept       json
// @Param        body  body      models.ContractorSettings  true  "Settings"
// @Success      200   {object}  models.ContractorSettings
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/settings [put]
func UpdateContractorSettings(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req models.ContractorSettings
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if req.DefaultMarkupPercent < 0 || req.TaxPercent < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percentages must not be negative"})
			return
		}

		row := models.ContractorSettingGorm{
			ContractorID:         user.ContractorID,
			DefaultMarkupPercent: req.DefaultMarkupPercent,
			TaxPercent:           req.TaxPercent,
			UpdatedAt:            time.Now(),
		}
		if err := gdb.Save(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, row.Settings())

		log := models.ActivityLog{
			EventContext: "Settings",
			EventName:    "Update",
			Description:  "Updated contractor settings",
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

// GetZipMarkups godoc
// @Summary      List ZIP markups
// @Tags         settings
// @Success      200  {array}  models.ZipMarkup
// @Router       /api/settings/zip-markups [get]
func GetZipMarkups(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var rows []models.ZipMarkupGorm
		if err := gdb.Where("contractor_id = ?", user.ContractorID).
			Order("zip_prefix").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// CreateZipMarkup godoc
// @Summary      Create ZIP markup
// @Description  Registers a regional markup applied to quotes whose job ZIP starts with the given prefix.
// @Tags         settings
// @Accept       json
// @Param        body  body      models.ZipMarkup  true  "ZIP markup"
// @Success      201   {object}  models.ZipMarkup
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/settings/zip-markups [post]
func CreateZipMarkup(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req models.ZipMarkup
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		req.ZipPrefix = strings.TrimSpace(req.ZipPrefix)
		if req.ZipPrefix == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "zip_prefix is required"})
			return
		}
		if req.MarkupPercent < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "markup_percent must not be negative"})
			return
		}

		row := models.ZipMarkupGorm{
			ContractorID:  user.ContractorID,
			ZipPrefix:     req.ZipPrefix,
			MarkupPercent: req.MarkupPercent,
			CreatedAt:     time.Now(),
		}
		if err := gdb.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

// DeleteZipMarkup godoc
// @Summary      Delete ZIP markup
// @Tags         settings
// @Param        id   path      int  true  "ZIP markup ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/settings/zip-markups/{id} [delete]
func DeleteZipMarkup(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ZIP markup ID"})
			return
		}
		result := gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Delete(&models.ZipMarkupGorm{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "ZIP markup not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ZIP markup deleted"})
	}
}
