package routes

import (
	"github.com/gin-gonic/gin"

	"shopez_back_end/internal/handlers/product"
	"shopez_back_end/internal/handlers/user"
	"shopez_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Auth
	api.POST("/auth/register", user.Register)
	api.POST("/auth/login", user.Login)

	// Catalogue (lecture seule, flux externe)
	api.GET("/products", product.GetProducts)
	api.GET("/products/search", product.SearchProducts)

	// Panier (authentifié)
	cart := api.Group("/cart", middleware.AuthRequired())
	cart.GET("", user.GetCart)
	cart.GET("/ws", user.CartWebSocket)
	cart.POST("/add", user.AddToCart)
	cart.PUT("/:productId/quantity", user.UpdateQuantity)
	cart.POST("/:productId/increase", user.IncreaseQuantity)
	cart.POST("/:productId/decrease", user.DecreaseQuantity)
	cart.DELETE("/:productId", user.RemoveFromCart)
}
