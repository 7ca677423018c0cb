package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// GenerateProposalPDF godoc
// @Summary      Generate proposal PDF for a quote
// @Tags         quotes
// @Param        id   path  int  true  "Quote ID"
// @Success      200  "PDF file"
// @Failure      400  {object}  object
// @Failure      404  {object}  object
// @Router       /api/quotes/{id}/pdf [get]
func GenerateProposalPDF(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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

		var breakdown models.QuoteBreakdown
		if len(quote.Breakdown) == 0 || json.Unmarshal(quote.Breakdown, &breakdown) != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quote has no stored breakdown; recalculate it first"})
			return
		}

		var customer models.CustomerGorm
		_ = gdb.Where("id = ? AND contractor_id = ?", quote.CustomerID, user.ContractorID).
			First(&customer).Error

		var contractorName string
		_ = db.QueryRow(`SELECT company_name FROM contractors WHERE id = $1`, user.ContractorID).
			Scan(&contractorName)

		titleCaser := cases.Title(language.Und)

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetMargins(10, 10, 10)
		pdf.SetFont("Arial", "", 10)

		// --- Header ---
		pdf.SetFont("Arial", "B", 18)
		pdf.Cell(190, 10, "PAINTING PROPOSAL")
		pdf.Ln(12)

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(95, 8, "Prepared by")
		pdf.Cell(95, 8, "Prepared for")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(90, 6, contractorName, "", "", false)
		pdf.SetXY(110, 38)
		pdf.MultiCell(90, 6, fmt.Sprintf(
			"%s\n%s\n%s, %s %s\n%s",
			strings.TrimSpace(customer.FirstName+" "+customer.LastName),
			customer.Address, customer.City, customer.State, customer.ZipCode,
			customer.Email,
		), "", "", false)
		pdf.Ln(10)

		// --- Quote Info ---
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(95, 6, fmt.Sprintf("Proposal No: %s", quote.QuoteNumber))
		pdf.Cell(95, 6, fmt.Sprintf("Date: %s", quote.CreatedAt.Format("02-Jan-2006")))
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(95, 6, fmt.Sprintf("Pricing: %s", titleCaser.String(strings.ReplaceAll(breakdown.Scheme.Type, "_", " "))))
		pdf.Cell(95, 6, fmt.Sprintf("Status: %s", titleCaser.String(quote.Status)))
		pdf.Ln(10)

		// --- Line Items ---
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(45, 8, "Area", "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 8, "Surface", "1", 0, "L", true, 0, "")
		pdf.CellFormat(25, 8, "Sq Ft", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, "Labor", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, "Material", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 8, "Total", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, area := range breakdown.Areas {
			for _, item := range area.Items {
				pdf.CellFormat(45, 8, area.Name, "1", 0, "L", false, 0, "")
				pdf.CellFormat(45, 8, titleCaser.String(item.SurfaceType), "1", 0, "L", false, 0, "")
				pdf.CellFormat(25, 8, fmt.Sprintf("%.0f", item.Sqft), "1", 0, "C", false, 0, "")
				pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", item.LaborCost), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", item.MaterialCost), "1", 0, "R", false, 0, "")
				pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", item.Subtotal), "1", 1, "R", false, 0, "")
			}
		}

		pdf.Ln(5)

		// --- Summary ---
		summary := breakdown.Summary
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(140, 8, "Subtotal")
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", summary.Subtotal), "1", 1, "R", false, 0, "")
		pdf.Cell(140, 8, fmt.Sprintf("Markup (%.1f%%)", summary.MarkupPercent))
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", summary.Markup), "1", 1, "R", false, 0, "")
		if summary.ZipMarkup > 0 {
			pdf.Cell(140, 8, fmt.Sprintf("Regional Adjustment (%.1f%%)", summary.ZipMarkupPercent))
			pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", summary.ZipMarkup), "1", 1, "R", false, 0, "")
		}
		pdf.Cell(140, 8, fmt.Sprintf("Tax (%.1f%%)", summary.TaxPercent))
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", summary.Tax), "1", 1, "R", false, 0, "")
		pdf.Cell(140, 8, "Total")
		pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", summary.Total), "1", 1, "R", false, 0, "")

		// --- Footer ---
		pdf.SetY(-20)
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(190, 6, "This proposal is valid for 30 days from the date above.")
		pdf.Ln(5)
		pdf.Cell(190, 6, "Generated on: "+time.Now().Format("2006-01-02 15:04:05"))

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=proposal_%s.pdf", quote.QuoteNumber))
		if err := pdf.Output(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
			return
		}
	}
}
