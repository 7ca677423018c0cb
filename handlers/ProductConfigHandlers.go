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

// CreateProductConfig godoc
// @Summary      Create product configuration
// @Description  A product config carries the sheen price list and the labor rate table used when quoting an area that selects this product.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      models.ProductConfig  true  "Product config"
// @Success      201   {object}  models.ProductConfig
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/products [post]
func CreateProductConfig(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var req models.ProductConfig
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		for _, sheen := range req.Sheens {
			if sheen.PricePerGallon < 0 || sheen.Coverage < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "sheen price and coverage must not be negative"})
				return
			}
		}

		row := models.ProductConfigGorm{
			ContractorID:  user.ContractorID,
			Name:          req.Name,
			Sheens:        req.Sheens,
			LaborRates:    req.LaborRates,
			MarkupPercent: req.MarkupPercent,
			TaxPercent:    req.TaxPercent,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}
		if err := gdb.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, row)

		log := models.ActivityLog{
			EventContext: "Product",
			EventName:    "Create",
			Description:  "Created product config " + row.Name,
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

// GetProductConfigs godoc
// @Summary      List product configurations
// @Tags         products
// @Success      200  {array}  models.ProductConfig
// @Router       /api/products [get]
func GetProductConfigs(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var rows []models.ProductConfigGorm
		if err := gdb.Where("contractor_id = ?", user.ContractorID).
			Order("name").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetProductConfig godoc
// @Summary      Get product configuration by ID
// @Tags         products
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  models.ProductConfig
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/products/{id} [get]
func GetProductConfig(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var row models.ProductConfigGorm
		err = gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product config not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// productConfigUpdateRequest is a partial update: only fields present in the
// body are written, so percent fields use pointers to tell "absent" from a
// legitimate zero.
type productConfigUpdateRequest struct {
	Name          string                `json:"name"`
	Sheens        models.SheenList      `json:"sheens"`
	LaborRates    models.LaborRateTable `json:"labor_rates"`
	MarkupPercent *float64              `json:"markup_percent"`
	TaxPercent    *float64              `json:"tax_percent"`
}

func productConfigUpdates(req productConfigUpdateRequest) map[string]interface{} {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Sheens != nil {
		updates["sheens"] = req.Sheens
	}
	if req.LaborRates != nil {
		updates["labor_rates"] = req.LaborRates
	}
	if req.MarkupPercent != nil {
		updates["markup_percent"] = *req.MarkupPercent
	}
	if req.TaxPercent != nil {
		updates["tax_percent"] = *req.TaxPercent
	}
	return updates
}

// UpdateProductConfig godoc
// @Summary      Update product configuration
// @Tags         products
// @Accept       json
// @Param        id    path      int     true  "Product ID"
// @Param        body  body      object  true  "Fields to update"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/products/{id} [put]
func UpdateProductConfig(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var req productConfigUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}

		updates := productConfigUpdates(req)

		result := gdb.Model(&models.ProductConfigGorm{}).
			Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product config not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product config updated"})
	}
}

// DeleteProductConfig godoc
// @Summary      Delete product configuration
// @Tags         products
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/products/{id} [delete]
func DeleteProductConfig(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		result := gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Delete(&models.ProductConfigGorm{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product config not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product config deleted"})

		log := models.ActivityLog{
			EventContext: "Product",
			EventName:    "Delete",
			Description:  "Deleted product config " + strconv.Itoa(id),
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
