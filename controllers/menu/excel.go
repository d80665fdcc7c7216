package menu

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/vTempo/afroditis-delicacies/controllers/respond"
	"github.com/vTempo/afroditis-delicacies/models"
	"github.com/vTempo/afroditis-delicacies/services/catalog"
)

var sheetHeaders = []string{"ID", "Name", "Category", "Price", "SecondPrice", "Available", "IsTopSeller", "Order"}

// GET /admin/menu/export
func ExportMenu(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svc.GetMenuData(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Menu")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		header := sheet.AddRow()
		for _, h := range sheetHeaders {
			header.AddCell().SetValue(h)
		}
		for _, group := range data.Grouped() {
			for _, d := range group.Items {
				row := sheet.AddRow()
				row.AddCell().SetValue(d.ID)
				row.AddCell().SetValue(d.Name)
				row.AddCell().SetValue(d.Category)
				row.AddCell().SetValue(d.Price)
				if d.SecondPrice != nil {
					row.AddCell().SetValue(*d.SecondPrice)
				} else {
					row.AddCell().SetValue("")
				}
				row.AddCell().SetValue(strconv.FormatBool(d.Available))
				row.AddCell().SetValue(strconv.FormatBool(d.IsTopSeller))
				row.AddCell().SetValue(d.Order)
			}
		}

		c.Header("Content-Disposition", "attachment; filename=menu.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		if err := file.Write(c.Writer); err != nil {
			log.Printf("❌ Failed to write menu export: %v", err)
		}
	}
}

// POST /admin/menu/import (multipart field "file")
//
// Rows with an ID of an existing dish update it; other rows add a dish to the
// named category. Rows with a bad price or an unknown category are skipped.
func ImportMenu(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer f.Close()

		book, err := xlsx.OpenReaderAt(f, fh.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(book.Sheets) == 0 || book.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		ctx := c.Request.Context()
		sheet := book.Sheets[0]
		created, updated, skipped := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			get := func(idx int) string {
				if row != nil && idx < len(row.Cells) {
					return strings.TrimSpace(row.Cells[idx].String())
				}
				return ""
			}

			name := get(1)
			price, perr := ParsePrice(get(3))
			second, serr := ParseSecondPrice(get(4))
			if name == "" || perr != nil || serr != nil {
				skipped++
				continue
			}
			available := parseBool(get(5), true)

			if id := get(0); id != "" {
				if existing, err := svc.GetDish(ctx, id); err == nil {
					_, err := svc.UpdateDish(ctx, id, catalog.DishUpdate{
						Name:        name,
						Price:       price,
						SecondPrice: second,
						Available:   available,
						ImageURL:    existing.ImageURL,
					})
					if err != nil {
						skipped++
						continue
					}
					updated++
					continue
				} else if !models.IsNotFound(err) {
					skipped++
					continue
				}
			}

			if _, err := svc.AddDish(ctx, catalog.DishInput{
				Name:        name,
				Category:    get(2),
				Price:       price,
				SecondPrice: second,
				Available:   available,
			}); err != nil {
				skipped++
				continue
			}
			created++
		}

		log.Printf("✅ Menu import: %d created, %d updated, %d skipped", created, updated, skipped)
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"updated_count": updated,
			"skipped_count": skipped,
		})
	}
}

func parseBool(raw string, def bool) bool {
	switch strings.ToLower(raw) {
	case "true", "yes", "1", "y":
		return true
	case "false", "no", "0", "n":
		return false
	}
	return def
}
