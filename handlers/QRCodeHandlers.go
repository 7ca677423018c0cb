package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"os"
	"strconv"
	"strings"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"
)

// addLabel draws regular text onto the image at the given position.
func addLabel(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{0, 0, 0, 255}
	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: inconsolata.Regular8x16,
		Dot:  point,
	}
	d.DrawString(label)
}

// addLabelBold draws bold text, used for the field names.
func addLabelBold(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{30, 30, 30, 255}
	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: inconsolata.Bold8x16,
		Dot:  point,
	}
	d.DrawString(label)
}

// portalBaseURL is where the customer portal frontend is served from.
func portalBaseURL() string {
	if base := os.Getenv("PORTAL_BASE_URL"); base != "" {
		return strings.TrimRight(base, "/")
	}
	return "http://localhost:3000"
}

// truncateLabel keeps label values inside the image width.
func truncateLabel(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// GenerateQuoteQRCode godoc
// @Summary      Generate portal QR code for a quote
// @Description  Produces a JPEG containing a QR code pointing at the customer portal link for the quote, with the quote details printed underneath.
// @Tags         quotes
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      400  {object}  object
// @Failure      404  {object}  object
// @Router       /api/quotes/{id}/qr [get]
func GenerateQuoteQRCode(db *sql.DB, gdb *gorm.DB) gin.HandlerFunc {
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

		var customer models.CustomerGorm
		_ = gdb.Where("id = ? AND contractor_id = ?", quote.CustomerID, user.ContractorID).
			First(&customer).Error
		customerName := strings.TrimSpace(customer.FirstName + " " + customer.LastName)
		if customerName == "" {
			customerName = "N/A"
		}

		portalURL := portalBaseURL() + "/portal/quote/" + quote.PortalToken

		qr, err := qrcode.New(portalURL, qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}
		qrImg := qr.Image(512)

		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 4*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

		qrRect := image.Rect(0, 0, qrSize, qrSize)
		draw.Draw(combinedImg, qrRect, qrImg, image.Point{}, draw.Src)

		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		addLabelBold(combinedImg, xPos, startY, "Quote No:")
		addLabel(combinedImg, xPos+120, startY, quote.QuoteNumber)

		addLabelBold(combinedImg, xPos, startY+lineHeight, "Customer:")
		addLabel(combinedImg, xPos+120, startY+lineHeight, truncateLabel(customerName, 30))

		addLabelBold(combinedImg, xPos, startY+2*lineHeight, "Total:")
		addLabel(combinedImg, xPos+120, startY+2*lineHeight, fmt.Sprintf("$%.2f", quote.Total))

		addLabelBold(combinedImg, xPos, startY+3*lineHeight, "Date:")
		addLabel(combinedImg, xPos+120, startY+3*lineHeight, quote.CreatedAt.Format("2006-01-02"))

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
