package adminControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/shaikhimran1006/Student-Market-Place/models"
	"github.com/shaikhimran1006/Student-Market-Place/utils"
)

// GET /admin/products/export
//
// Streams the full catalog as an xlsx workbook, trust columns included.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Seller").Find(&products).Error; err != nil {
			utils.Internal(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			utils.Internal(c, err)
			return
		}

		// Header row
		headers := []string{
			"ID", "Title", "Slug", "Category", "Type", "Price", "Stock",
			"Status", "Seller", "SellerEmail", "RatingAvg", "RatingCount",
			"SuspicionScore", "Flagged", "FlagReason", "Recommendation",
			"Views", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, p := range products {
			row := sheet.AddRow()

			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Title)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(string(p.Category))
			row.AddCell().SetValue(string(p.ProductType))
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(string(p.Status))
			row.AddCell().SetValue(p.Seller.Name)
			row.AddCell().SetValue(p.Seller.Email)
			row.AddCell().SetValue(p.Ratings.Average)
			row.AddCell().SetValue(p.Ratings.Count)
			row.AddCell().SetValue(p.AIAnalysis.SuspicionScore)
			row.AddCell().SetValue(p.AIAnalysis.IsFlagged)
			row.AddCell().SetValue(p.AIAnalysis.FlagReason)
			row.AddCell().SetValue(p.AIAnalysis.Recommendation)
			row.AddCell().SetValue(p.Views)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
