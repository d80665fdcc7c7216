package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/vTempo/afroditis-delicacies/controllers/cart"
	menuControllers "github.com/vTempo/afroditis-delicacies/controllers/menu"
	userControllers "github.com/vTempo/afroditis-delicacies/controllers/user"
	"github.com/vTempo/afroditis-delicacies/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Issuer, d.AdminAPIKey))
	{
		// ─────────── Menu ───────────
		adminGroup.GET("/menu", menuControllers.GetMenu(d.Catalog, middleware.IsAdmin))
		adminGroup.PUT("/menu/note", menuControllers.SetNote(d.Catalog))
		adminGroup.GET("/menu/export", menuControllers.ExportMenu(d.Catalog))
		adminGroup.POST("/menu/import", menuControllers.ImportMenu(d.Catalog))

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", menuControllers.CreateCategory(d.Catalog))
			categoryAdmin.PUT("/:name", menuControllers.RenameCategory(d.Catalog))
			categoryAdmin.DELETE("/:name", menuControllers.DeleteCategory(d.Catalog))
		}

		dishAdmin := adminGroup.Group("/dishes")
		{
			dishAdmin.POST("", menuControllers.CreateDish(d.Catalog))
			dishAdmin.PUT("/:id", menuControllers.UpdateDish(d.Catalog))
			dishAdmin.DELETE("/:id", menuControllers.DeleteDish(d.Catalog))
			dishAdmin.POST("/:id/image", menuControllers.UploadDishImage(d.Catalog, d.Images))
		}

		// ─────────── Users ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Account))
		adminGroup.GET("/users/:user_id/cart", cartControllers.GetUserCart(d.Cart))
	}
}
