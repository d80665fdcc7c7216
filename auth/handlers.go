package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/controllers/respond"
)

// POST /auth/login
func LoginHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		session, err := svc.Login(c.Request.Context(), req.IDToken)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidToken):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			case respond.Status(err) == http.StatusForbidden:
				c.JSON(http.StatusForbidden, gin.H{"error": ErrorMessage(err)})
			default:
				respond.Error(c, err)
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   session.Token,
			"user":    session.User,
		})
	}
}

// POST /auth/register
func RegisterHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		user, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}
