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

// CreateCustomer godoc
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      models.Customer  true  "Customer"
// @Success      201   {object}  models.Customer
// @Failure      400   {object}  models.ErrorResponse
// @Router       /api/customers [post]
func CreateCustomer(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req models.Customer
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}
		if strings.TrimSpace(req.FirstName) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "first_name is required"})
			return
		}

		row := models.CustomerGorm{
			ContractorID: user.ContractorID,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			PhoneNo:      req.PhoneNo,
			Address:      req.Address,
			City:         req.City,
			State:        req.State,
			ZipCode:      req.ZipCode,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := gdb.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, row)

		log := models.ActivityLog{
			EventContext: "Customer",
			EventName:    "Create",
			Description:  "Created customer " + row.FirstName + " " + row.LastName,
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

// GetCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Param        search  query  string  false  "Match against name, email or phone"
// @Success      200  {array}  models.Customer
// @Router       /api/customers [get]
func GetCustomers(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		query := gdb.Where("contractor_id = ?", user.ContractorID)
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + search + "%"
			query = query.Where(
				"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone_no ILIKE ?",
				like, like, like, like,
			)
		}
		var rows []models.CustomerGorm
		if err := query.Order("first_name, last_name").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GetCustomer godoc
// @Summary      Get customer by ID
// @Tags         customers
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  models.Customer
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/customers/{id} [get]
func GetCustomer(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}
		var row models.CustomerGorm
		err = gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// UpdateCustomer godoc
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Param        id    path      int              true  "Customer ID"
// @Param        body  body      models.Customer  true  "Customer"
// @Success      200   {object}  object
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/customers/{id} [put]
func UpdateCustomer(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}
		var req models.Customer
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if req.FirstName != "" {
			updates["first_name"] = req.FirstName
		}
		if req.LastName != "" {
			updates["last_name"] = req.LastName
		}
		if req.Email != "" {
			updates["email"] = req.Email
		}
		if req.PhoneNo != "" {
			updates["phone_no"] = req.PhoneNo
		}
		if req.Address != "" {
			updates["address"] = req.Address
		}
		if req.City != "" {
			updates["city"] = req.City
		}
		if req.State != "" {
			updates["state"] = req.State
		}
		if req.ZipCode != "" {
			updates["zip_code"] = req.ZipCode
		}

		result := gdb.Model(&models.CustomerGorm{}).
			Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Updates(updates)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer updated"})
	}
}

// DeleteCustomer godoc
// @Summary      Delete customer
// @Tags         customers
// @Param        id   path      int  true  "Customer ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/customers/{id} [delete]
func DeleteCustomer(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
			return
		}
		result := gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Delete(&models.CustomerGorm{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
	}
}

// GetPortalQuote godoc
// @Summary      Customer portal view of a quote
// @Description  Public endpoint. The opaque portal token takes the place of authentication; only presentation fields are exposed.
// @Tags         portal
// @Produce      json
// @Param        token  path      string  true  "Portal token"
// @Success      200    {object}  object
// @Failure      404    {object}  models.ErrorResponse
// @Router       /api/portal/quote/{token} [get]
func GetPortalQuote(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if token == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		var row models.QuoteGorm
		err := gdb.Where("portal_token = ?", token).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var customer models.CustomerGorm
		_ = gdb.Where("id = ? AND contractor_id = ?", row.CustomerID, row.ContractorID).
			First(&customer).Error

		c.JSON(http.StatusOK, gin.H{
			"quote_number":  row.QuoteNumber,
			"title":         row.Title,
			"status":        row.Status,
			"customer_name": strings.TrimSpace(customer.FirstName + " " + customer.LastName),
			"total":         row.Total,
			"created_at":    row.CreatedAt,
		})
	}
}
