// Package user holds the HTTP handlers for the signed-in customer's account.
package user

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/controllers/respond"
	"github.com/vTempo/afroditis-delicacies/geocode"
	"github.com/vTempo/afroditis-delicacies/services/account"
)

// GET /user/
func GetUser(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		user, err := svc.GetProfile(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /user/ accepts any subset of the editable profile fields.
func UpdateUser(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		var in account.ProfileUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), userID, in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
	}
}

// PUT /user/password
func ChangePassword(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		var req struct {
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
			return
		}
		if err := svc.ChangePassword(c.Request.Context(), userID, req.Password); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

// PUT /user/email. The new address has to be verified again.
func ChangeEmail(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
			return
		}
		if err := svc.ChangeEmail(c.Request.Context(), userID, req.Email); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Email updated. Please verify your new address."})
	}
}

// GET /user/orders
func GetOrders(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := respond.UserID(c)
		if !ok {
			respond.Unauthorized(c)
			return
		}
		orders, err := svc.ListOrders(c.Request.Context(), userID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/address/suggest?q=
func SuggestAddress(geo *geocode.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		suggestions, err := geo.Search(c.Request.Context(), c.Query("q"))
		if errors.Is(err, geocode.ErrNoToken) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Address lookup is not configured"})
			return
		}
		if err != nil {
			log.Printf("⚠️ Address lookup failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch address suggestions"})
			return
		}
		c.JSON(http.StatusOK, suggestions)
	}
}

// GET /auth/email-exists?email=
func EmailExists(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}
		exists, err := svc.EmailExists(c.Request.Context(), email)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
	}
}

// GET /admin/users
func GetAllUsers(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.ListUsers(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
