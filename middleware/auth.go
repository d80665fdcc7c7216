package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/auth"
	"github.com/vTempo/afroditis-delicacies/models"
)

// Context keys set for authenticated requests.
const (
	UserIDKey = "user_id"
	EmailKey  = "email"
	RoleKey   = "role"
)

// ValidateToken requires a valid session token in the Authorization header,
// with or without the Bearer prefix.
func ValidateToken(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, issuer) {
			return
		}
		c.Next()
	}
}

// RequireAdmin lets a request through when it carries the admin API key or a
// session token with the admin role.
func RequireAdmin(issuer *auth.Issuer, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-KEY"); key != "" {
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
				return
			}
			c.Set(UserIDKey, "api-key")
			c.Set(RoleKey, models.RoleAdmin)
			c.Next()
			return
		}

		if !authenticate(c, issuer) {
			return
		}
		if c.GetString(RoleKey) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// IsAdmin reports whether the request was authenticated as an admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(RoleKey) == models.RoleAdmin
}

func authenticate(c *gin.Context, issuer *auth.Issuer) bool {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		return false
	}
	tokenString := header
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		tokenString = strings.TrimSpace(header[7:])
	}

	claims, err := issuer.Parse(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	c.Set(UserIDKey, claims.UserID)
	c.Set(EmailKey, claims.Email)
	c.Set(RoleKey, claims.Role)
	return true
}
