package handlers

import (
	"backend/models"
	"backend/pricing"
	"backend/repository"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondPricingError maps the engine's typed errors onto HTTP statuses.
func respondPricingError(c *gin.Context, err error) {
	switch {
	case pricing.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case pricing.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// loadQuoteContext assembles the engine context for a contractor: the selected
// scheme, every product config, and the contractor's settings. A scheme that is
// missing or inactive leaves ctx.Scheme nil; the engine turns that into its
// NotFoundError so both entry points fail identically.
func loadQuoteContext(gdb *gorm.DB, contractorID, schemeID int) (pricing.QuoteContext, error) {
	ctx := pricing.QuoteContext{Products: map[int]*models.ProductConfig{}}

	var schemeRow models.PricingSchemeGorm
	err := gdb.Where("id = ? AND contractor_id = ? AND active = ?", schemeID, contractorID, true).
		First(&schemeRow).Error
	if err == nil {
		ctx.Scheme = schemeRow.Scheme()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx, err
	}

	var productRows []models.ProductConfigGorm
	if err := gdb.Where("contractor_id = ?", contractorID).Find(&productRows).Error; err != nil {
		return ctx, err
	}
	for i := range productRows {
		ctx.Products[productRows[i].ID] = productRows[i].Config()
	}

	var settingsRow models.ContractorSettingGorm
	err = gdb.Where("contractor_id = ?", contractorID).First(&settingsRow).Error
	if err == nil {
		ctx.Settings = settingsRow.Settings()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx, err
	}

	return ctx, nil
}

// resolveZipMarkup looks up the regional markup for a job ZIP by longest
// matching prefix. Returns 0/false when no row matches.
func resolveZipMarkup(gdb *gorm.DB, contractorID int, zip string) (float64, bool) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return 0, false
	}
	var rows []models.ZipMarkupGorm
	if err := gdb.Where("contractor_id = ?", contractorID).Find(&rows).Error; err != nil {
		return 0, false
	}
	return matchZipMarkup(rows, zip)
}

// matchZipMarkup picks the row whose prefix is the longest match for the job
// ZIP, regardless of row order. Returns 0/false when no row matches.
func matchZipMarkup(rows []models.ZipMarkupGorm, zip string) (float64, bool) {
	best := -1
	percent := 0.0
	for _, row := range rows {
		if strings.HasPrefix(zip, row.ZipPrefix) && len(row.ZipPrefix) > best {
			best = len(row.ZipPrefix)
			percent = row.MarkupPercent
		}
	}
	return percent, best >= 0
}

// zipAdjustedInput applies the contractor's ZIP markup table to a request:
// an explicit zip_markup_percent wins, otherwise the job ZIP is matched
// against the table.
func zipAdjustedInput(gdb *gorm.DB, contractorID int, req models.QuoteRequest) pricing.QuoteInput {
	in := pricing.QuoteInput{
		Areas:            req.Areas,
		PricingSchemeID:  req.PricingSchemeID,
		ApplyZipMarkup:   req.ApplyZipMarkup,
		ZipMarkupPercent: req.ZipMarkupPercent,
	}
	if in.ApplyZipMarkup && in.ZipMarkupPercent == 0 {
		if percent, ok := resolveZipMarkup(gdb, contractorID, req.JobZip); ok {
			in.ZipMarkupPercent = percent
		}
	}
	return in
}

// PreviewQuote godoc
// @Summary      Calculate a quote from an inline payload
// @Description  Pure calculation: areas, scheme, products and settings all come from the request body, nothing is read from the database.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body      models.QuotePreviewRequest  true  "Preview payload"
// @Success      200   {object}  models.QuoteBreakdown
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/quotes/preview [post]
func PreviewQuote(c *gin.Context) {
	var req models.QuotePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	products := make(map[int]*models.ProductConfig, len(req.Products))
	for i := range req.Products {
		products[req.Products[i].ID] = &req.Products[i]
	}

	scheme := req.PricingScheme
	breakdown, err := pricing.CalculateQuote(
		pricing.QuoteInput{
			Areas:            req.Areas,
			PricingSchemeID:  scheme.ID,
			ApplyZipMarkup:   req.ApplyZipMarkup,
			ZipMarkupPercent: req.ZipMarkupPercent,
		},
		pricing.QuoteContext{
			Scheme:   &scheme,
			Products: products,
			Settings: req.Settings,
		},
	)
	if err != nil {
		respondPricingError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// CreateQuote godoc
// @Summary      Create quote
// @Description  Calculates the breakdown for the submitted areas under the selected pricing scheme and persists the result.
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body  body      models.QuoteRequest  true  "Quote request"
// @Success      201   {object}  models.Quote
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/quotes [post]
func CreateQuote(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var req models.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
			return
		}

		ctx, err := loadQuoteContext(gdb, user.ContractorID, req.PricingSchemeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		breakdown, err := pricing.CalculateQuote(zipAdjustedInput(gdb, user.ContractorID, req), ctx)
		if err != nil {
			respondPricingError(c, err)
			return
		}

		quoteNumber, err := repository.GenerateUniqueQuoteNumber(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		breakdownJSON, err := json.Marshal(breakdown)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		row := models.QuoteGorm{
			ContractorID:    user.ContractorID,
			CustomerID:      req.CustomerID,
			QuoteNumber:     quoteNumber,
			Title:           req.Title,
			Status:          "draft",
			PricingSchemeID: req.PricingSchemeID,
			Revision:        repository.GenerateRevisionCode(""),
			PortalToken:     repository.GeneratePortalToken(),
			Areas:           models.AreaList(req.Areas),
			Breakdown:       breakdownJSON,
			Total:           breakdown.Summary.Total,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		if err := gdb.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"quote":     row,
			"breakdown": breakdown,
		})

		log := models.ActivityLog{
			EventContext: "Quote",
			EventName:    "Create",
			Description:  "Created quote " + quoteNumber,
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

// fetchQuote loads a quote row scoped to the contractor.
func fetchQuote(gdb *gorm.DB, contractorID int, id int) (*models.QuoteGorm, error) {
	var row models.QuoteGorm
	err := gdb.Where("id = ? AND contractor_id = ?", id, contractorID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// quoteResponse decodes the persisted breakdown for API output.
func quoteResponse(row *models.QuoteGorm) gin.H {
	var breakdown *models.QuoteBreakdown
	if len(row.Breakdown) > 0 {
		breakdown = &models.QuoteBreakdown{}
		if err := json.Unmarshal(row.Breakdown, breakdown); err != nil {
			breakdown = nil
		}
	}
	return gin.H{
		"quote":     row,
		"breakdown": breakdown,
	}
}

// GetQuote godoc
// @Summary      Get quote by ID
// @Tags         quotes
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {object}  models.Quote
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id} [get]
func GetQuote(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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
		row, err := fetchQuote(gdb, user.ContractorID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, quoteResponse(row))
	}
}

// GetQuotes godoc
// @Summary      List quotes
// @Tags         quotes
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {array}  models.Quote
// @Router       /api/quotes [get]
func GetQuotes(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		query := gdb.Where("contractor_id = ?", user.ContractorID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		var rows []models.QuoteGorm
		if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// UpdateQuoteStatus godoc
// @Summary      Update quote status
// @Tags         quotes
// @Param        id    path  int     true  "Quote ID"
// @Success      200   {object}  object
// @Failure      400   {object}  models.ErrorResponse
// @Failure      404   {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/status [put]
func UpdateQuoteStatus(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	validStatuses := map[string]bool{
		"draft": true, "sent": true, "accepted": true, "declined": true, "expired": true,
	}
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
		var body struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		if !validStatuses[body.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status: " + body.Status})
			return
		}
		result := gdb.Model(&models.QuoteGorm{}).
			Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Updates(map[string]interface{}{"status": body.Status, "updated_at": time.Now()})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quote status updated"})
	}
}

// RecalculateQuote godoc
// @Summary      Recalculate a stored quote
// @Description  Re-runs the calculation over the quote's stored areas with the contractor's current configuration and persists the new breakdown.
// @Tags         quotes
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {object}  models.QuoteBreakdown
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/recalculate [post]
func RecalculateQuote(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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
		row, err := fetchQuote(gdb, user.ContractorID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ctx, err := loadQuoteContext(gdb, user.ContractorID, row.PricingSchemeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// The previously applied ZIP markup percent is carried forward from the
		// stored breakdown so recalculation stays comparable.
		in := pricing.QuoteInput{
			Areas:           row.Areas,
			PricingSchemeID: row.PricingSchemeID,
		}
		if len(row.Breakdown) > 0 {
			var prior models.QuoteBreakdown
			if err := json.Unmarshal(row.Breakdown, &prior); err == nil && prior.Summary.ZipMarkupPercent > 0 {
				in.ApplyZipMarkup = true
				in.ZipMarkupPercent = prior.Summary.ZipMarkupPercent
			}
		}

		breakdown, err := pricing.CalculateQuote(in, ctx)
		if err != nil {
			respondPricingError(c, err)
			return
		}

		breakdownJSON, err := json.Marshal(breakdown)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := gdb.Model(row).
			Updates(map[string]interface{}{
				"breakdown":  breakdownJSON,
				"total":      breakdown.Summary.Total,
				"revision":   repository.GenerateRevisionCode(row.Revision),
				"updated_at": time.Now(),
			}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, breakdown)
	}
}

// CompareQuoteTiers godoc
// @Summary      Compare a quote across all active pricing schemes
// @Description  Runs the stored quote through every active scheme of the contractor so good/better/best tiers can be shown side by side.
// @Tags         quotes
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {array}   models.TierComparison
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id}/tiers [get]
func CompareQuoteTiers(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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
		row, err := fetchQuote(gdb, user.ContractorID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var schemes []models.PricingSchemeGorm
		if err := gdb.Where("contractor_id = ? AND active = ?", user.ContractorID, true).
			Order("id").Find(&schemes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(schemes) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active pricing schemes"})
			return
		}

		ctx, err := loadQuoteContext(gdb, user.ContractorID, row.PricingSchemeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		tiers := make([]models.TierComparison, 0, len(schemes))
		for i := range schemes {
			scheme := schemes[i].Scheme()
			tierCtx := ctx
			tierCtx.Scheme = scheme
			breakdown, err := pricing.CalculateQuote(pricing.QuoteInput{
				Areas:           row.Areas,
				PricingSchemeID: scheme.ID,
			}, tierCtx)
			if err != nil {
				// One broken scheme should not hide the others.
				continue
			}
			tiers = append(tiers, models.TierComparison{
				Scheme:  breakdown.Scheme,
				Summary: breakdown.Summary,
			})
		}

		c.JSON(http.StatusOK, tiers)
	}
}

// DeleteQuote godoc
// @Summary      Delete quote
// @Tags         quotes
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {object}  object
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/quotes/{id} [delete]
func DeleteQuote(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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
		result := gdb.Where("id = ? AND contractor_id = ?", id, user.ContractorID).
			Delete(&models.QuoteGorm{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quote deleted"})

		log := models.ActivityLog{
			EventContext: "Quote",
			EventName:    "Delete",
			Description:  "Deleted quote " + strconv.Itoa(id),
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
