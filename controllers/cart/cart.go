// Package cart holds the HTTP handlers for the signed-in customer's cart.
package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/controllers/respond"
	"github.com/vTempo/afroditis-delicacies/models"
	cartsvc "github.com/vTempo/afroditis-delicacies/services/cart"
)

// GET /user/cart
func GetCart(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		items, err := svc.GetCart(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		summary := cartsvc.Summarize(items)
		c.JSON(http.StatusOK, gin.H{
			"items":     items,
			"cartCount": summary.Count,
			"cartTotal": summary.Total,
		})
	}
}

// GET /user/cart/summary. Checkout stops here; no order is placed.
func GetSummary(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		items, err := svc.GetCart(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cartsvc.Summarize(items))
	}
}

// POST /user/cart
func AddToCart(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		line, err := svc.AddToCart(c.Request.Context(), userID, in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

type quantityInput struct {
	Size     models.Size `json:"size" binding:"required"`
	Quantity *int        `json:"quantity" binding:"required"`
}

// PUT /user/cart/:id sets the quantity of one size. A line left with no
// sizes is removed and {"removed": true} is returned.
func UpdateQuantity(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		var in quantityInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		line, err := svc.UpdateCartItemQuantity(c.Request.Context(), userID, c.Param("id"), in.Size, *in.Quantity)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if line == nil {
			c.JSON(http.StatusOK, gin.H{"removed": true})
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

// DELETE /user/cart/:id
func RemoveItem(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		if err := svc.RemoveFromCart(c.Request.Context(), userID, c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /user/cart
func ClearCart(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		if err := svc.ClearCart(c.Request.Context(), userID); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/users/:user_id/cart
func GetUserCart(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		items, err := svc.GetCart(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
