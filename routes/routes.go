package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/handlers"
	"github.com/Phirakan/go-inventory/middleware"
)

// SetupRoutes registers every endpoint on r.
func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	authRequired := middleware.AuthMiddleware(h.Tokens, h.Revocations)
	adminRequired := middleware.AdminRequired()

	r.GET("/health-check", h.CheckConnection)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", middleware.RefreshTokenRequired(h.Tokens, h.Revocations), h.Refresh)
		auth.POST("/logout", authRequired, h.Logout)
		auth.GET("/protected", authRequired, h.Protected)

		// Admin user management
		auth.POST("/add-user", authRequired, adminRequired, h.AddUser)
		auth.PUT("/update-role/:user_id", authRequired, adminRequired, h.UpdateRole)
	}

	// Public catalog and reporting routes
	r.GET("/products", h.GetAllProducts)
	r.GET("/products/count-total", h.CountProducts)
	r.GET("/products/count-by-category", h.CountProductsByCategory)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/sales", h.GetSales)
	r.GET("/sales/total", h.TotalSales)
	r.GET("/sales/count-by-category", h.CountSalesByCategory)
	r.GET("/sales/:id", h.GetSale)
	r.GET("/api/ai/recommendations", h.Recommendations)

	// Sales by any signed-in user
	r.POST("/make_sale", authRequired, h.MakeSale)
	r.POST("/checkout", authRequired, h.Checkout)
	r.GET("/sales/mine", authRequired, h.MySales)

	// Product management
	admin := r.Group("/", authRequired, adminRequired)
	{
		admin.POST("/add_product", h.AddProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)
	}
}
