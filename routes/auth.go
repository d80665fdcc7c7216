package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/auth"
	menuControllers "github.com/vTempo/afroditis-delicacies/controllers/menu"
	userControllers "github.com/vTempo/afroditis-delicacies/controllers/user"
)

// SetupMenuRoutes registers the public menu endpoints.
func SetupMenuRoutes(r *gin.Engine, d Deps) {
	menuGroup := r.Group("/menu")
	{
		menuGroup.GET("", menuControllers.GetMenu(d.Catalog, func(*gin.Context) bool { return false }))
		menuGroup.GET("/ws", d.Hub.Handler())
	}
}

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", auth.LoginHandler(d.Auth))
		authGroup.POST("/register", auth.RegisterHandler(d.Auth))
		authGroup.GET("/email-exists", userControllers.EmailExists(d.Account))
	}
}
