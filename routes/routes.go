package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vTempo/afroditis-delicacies/auth"
	"github.com/vTempo/afroditis-delicacies/geocode"
	"github.com/vTempo/afroditis-delicacies/realtime"
	"github.com/vTempo/afroditis-delicacies/services/account"
	"github.com/vTempo/afroditis-delicacies/services/cart"
	"github.com/vTempo/afroditis-delicacies/services/catalog"
	"github.com/vTempo/afroditis-delicacies/uploads"
)

// Deps are the services the route groups are built from.
type Deps struct {
	Auth        *auth.Service
	Issuer      *auth.Issuer
	AdminAPIKey string

	Catalog *catalog.Service
	Cart    *cart.Service
	Account *account.Service

	Hub     *realtime.Hub
	Geocode *geocode.Client
	Images  *uploads.Images
}

// SetupRoutes is the single entry point that wires up the Menu, Auth, User
// and Admin route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public menu and change feed
	SetupMenuRoutes(r, d)

	// 2️⃣ Public auth routes
	SetupAuthRoutes(r, d)

	// 3️⃣ User routes (JWT-protected)
	SetupUserRoutes(r, d)

	// 4️⃣ Admin routes (admin JWT or API key)
	SetupAdminRoutes(r, d)
}
