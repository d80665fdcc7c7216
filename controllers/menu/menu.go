// Package menu holds the HTTP handlers for reading and editing the menu.
package menu

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/controllers/respond"
	"github.com/vTempo/afroditis-delicacies/services/catalog"
	"github.com/vTempo/afroditis-delicacies/uploads"
)

// GET /menu and GET /admin/menu. Unavailable dishes are only shown to admins.
func GetMenu(svc *catalog.Service, isAdmin func(*gin.Context) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svc.GetMenuData(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		visible := data.Visible(isAdmin(c))
		if c.Query("grouped") == "true" {
			c.JSON(http.StatusOK, gin.H{"groups": visible.Grouped(), "menuNote": visible.MenuNote})
			return
		}
		c.JSON(http.StatusOK, visible)
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	HasTwoSizes bool   `json:"hasTwoSizes"`
}

// POST /admin/categories
func CreateCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cat, err := svc.AddCategory(c.Request.Context(), req.Name, req.HasTwoSizes)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

// PUT /admin/categories/:name
func RenameCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cat, err := svc.UpdateCategoryName(c.Request.Context(), c.Param("name"), req.Name)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

// DELETE /admin/categories/:name removes the category and all its dishes.
func DeleteCategory(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCategory(c.Request.Context(), c.Param("name")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}

type dishRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       RawPrice `json:"price"`
	SecondPrice RawPrice `json:"secondPrice"`
	Available   *bool    `json:"available"`
	ImageURL    string   `json:"imageUrl"`
}

func (r dishRequest) prices() (float64, *float64, error) {
	price, err := ParsePrice(string(r.Price))
	if err != nil {
		return 0, nil, err
	}
	second, err := ParseSecondPrice(string(r.SecondPrice))
	if err != nil {
		return 0, nil, err
	}
	return price, second, nil
}

func (r dishRequest) available() bool {
	return r.Available == nil || *r.Available
}

// POST /admin/dishes
func CreateDish(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		price, second, err := req.prices()
		if err != nil {
			respond.Error(c, err)
			return
		}
		dish, err := svc.AddDish(c.Request.Context(), catalog.DishInput{
			Name:        strings.TrimSpace(req.Name),
			Category:    req.Category,
			Price:       price,
			SecondPrice: second,
			Available:   req.available(),
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, dish)
	}
}

// PUT /admin/dishes/:id
func UpdateDish(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		price, second, err := req.prices()
		if err != nil {
			respond.Error(c, err)
			return
		}
		dish, err := svc.UpdateDish(c.Request.Context(), c.Param("id"), catalog.DishUpdate{
			Name:        strings.TrimSpace(req.Name),
			Price:       price,
			SecondPrice: second,
			Available:   req.available(),
			ImageURL:    req.ImageURL,
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, dish)
	}
}

// DELETE /admin/dishes/:id
func DeleteDish(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteDish(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Dish deleted"})
	}
}

// POST /admin/dishes/:id/image (multipart field "image")
func UploadDishImage(svc *catalog.Service, images *uploads.Images) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := svc.GetDish(c.Request.Context(), id); err != nil {
			respond.Error(c, err)
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
			return
		}
		url, err := images.SaveDishImage(id, file)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := svc.SetDishImage(c.Request.Context(), id, url); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageUrl": url})
	}
}

// PUT /admin/menu/note
func SetNote(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Note string `json:"note"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := svc.SetMenuNote(c.Request.Context(), req.Note); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"menuNote": req.Note})
	}
}
