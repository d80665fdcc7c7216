package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/vTempo/afroditis-delicacies/controllers/cart"
	userControllers "github.com/vTempo/afroditis-delicacies/controllers/user"
	"github.com/vTempo/afroditis-delicacies/middleware"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires a session token.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Issuer))
	{
		// ──────────────── Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(d.Account))
		userGroup.PUT("/", userControllers.UpdateUser(d.Account))
		userGroup.PUT("/password", userControllers.ChangePassword(d.Account))
		userGroup.PUT("/email", userControllers.ChangeEmail(d.Account))
		userGroup.GET("/orders", userControllers.GetOrders(d.Account))
		userGroup.GET("/address/suggest", userControllers.SuggestAddress(d.Geocode))

		// ──────────────── Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.Cart))
			cartGroup.GET("/summary", cartControllers.GetSummary(d.Cart))
			cartGroup.POST("", cartControllers.AddToCart(d.Cart))
			cartGroup.PUT("/:id", cartControllers.UpdateQuantity(d.Cart))
			cartGroup.DELETE("/:id", cartControllers.RemoveItem(d.Cart))
			cartGroup.DELETE("", cartControllers.ClearCart(d.Cart))
		}
	}
}
