package handlers

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// ExportQuotesXLSX godoc
// @Summary      Export quotes as an Excel workbook
// @Description  One summary sheet plus a Quotes sheet with a row per saved quote, optionally filtered by status.
// @Tags         export
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {file}  file  "XLSX file"
// @Router       /api/export/quotes [get]
func ExportQuotesXLSX(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		query := gdb.Where("contractor_id = ?", user.ContractorID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		var quotes []models.QuoteGorm
		if err := query.Order("created_at DESC").Find(&quotes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		customerNames := map[int]string{}
		var customers []models.CustomerGorm
		if err := gdb.Where("contractor_id = ?", user.ContractorID).Find(&customers).Error; err == nil {
			for _, cust := range customers {
				customerNames[cust.ID] = cust.FirstName + " " + cust.LastName
			}
		}

		titleCaser := cases.Title(language.Und)

		f := excelize.NewFile()
		defer f.Close()

		summarySheet := "Summary"
		f.SetSheetName("Sheet1", summarySheet)

		f.SetCellValue(summarySheet, "A1", "Quote Export Summary")
		f.SetCellValue(summarySheet, "A2", "Exported At")
		f.SetCellValue(summarySheet, "B2", time.Now().Format("2006-01-02 15:04:05"))
		f.SetCellValue(summarySheet, "A3", "Total Quotes")
		f.SetCellValue(summarySheet, "B3", len(quotes))

		var grandTotal float64
		statusCounts := map[string]int{}
		for _, q := range quotes {
			grandTotal += q.Total
			statusCounts[q.Status]++
		}
		f.SetCellValue(summarySheet, "A4", "Combined Value")
		f.SetCellValue(summarySheet, "B4", fmt.Sprintf("%.2f", grandTotal))

		row := 6
		f.SetCellValue(summarySheet, "A5", "By Status:")
		for _, status := range []string{"draft", "sent", "accepted", "declined", "expired"} {
			if count, ok := statusCounts[status]; ok {
				f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), titleCaser.String(status))
				f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), count)
				row++
			}
		}

		quoteSheet := "Quotes"
		index, err := f.NewSheet(quoteSheet)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		headers := []string{"Quote No", "Title", "Customer", "Status", "Areas", "Total", "Created"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(quoteSheet, cell, h)
		}
		f.SetColWidth(quoteSheet, "A", "C", 24)
		f.SetColWidth(quoteSheet, "D", "G", 14)

		for i, q := range quotes {
			rowNum := i + 2
			f.SetCellValue(quoteSheet, fmt.Sprintf("A%d", rowNum), q.QuoteNumber)
			f.SetCellValue(quoteSheet, fmt.Sprintf("B%d", rowNum), q.Title)
			f.SetCellValue(quoteSheet, fmt.Sprintf("C%d", rowNum), customerNames[q.CustomerID])
			f.SetCellValue(quoteSheet, fmt.Sprintf("D%d", rowNum), titleCaser.String(q.Status))
			f.SetCellValue(quoteSheet, fmt.Sprintf("E%d", rowNum), len(q.Areas))
			f.SetCellValue(quoteSheet, fmt.Sprintf("F%d", rowNum), q.Total)
			f.SetCellValue(quoteSheet, fmt.Sprintf("G%d", rowNum), q.CreatedAt.Format("2006-01-02"))
		}

		f.SetActiveSheet(index)

		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment;filename=quotes_export.xlsx")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing XLSX file"})
			return
		}
	}
}

// ExportCustomersCSV godoc
// @Summary      Export customers as CSV
// @Tags         export
// @Produce      text/csv
// @Success      200  {file}  file  "CSV file"
// @Router       /api/export/customers [get]
func ExportCustomersCSV(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var customers []models.CustomerGorm
		if err := gdb.Where("contractor_id = ?", user.ContractorID).
			Order("first_name, last_name").Find(&customers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment;filename=customers_export.csv")

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		header := []string{"FirstName", "LastName", "Email", "Phone", "Address", "City", "State", "Zip"}
		if err := writer.Write(header); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV header"})
			return
		}

		for _, cust := range customers {
			row := []string{
				cust.FirstName, cust.LastName, cust.Email, cust.PhoneNo,
				cust.Address, cust.City, cust.State, cust.ZipCode,
			}
			if err := writer.Write(row); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing CSV row"})
				return
			}
		}
	}
}
