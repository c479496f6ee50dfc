package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopez_back_end/internal/cartcache"
	"shopez_back_end/internal/cartstore"
	"shopez_back_end/internal/cartsync"
	"shopez_back_end/internal/config"
	"shopez_back_end/internal/database"
	"shopez_back_end/internal/handlers/user"
	"shopez_back_end/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	// Cache local du panier (repli hors-ligne)
	cachePath := os.Getenv("CART_CACHE_PATH")
	if cachePath == "" {
		cachePath = "shopez_cache.db"
	}
	cache, err := cartcache.Open(cachePath)
	if err != nil {
		log.Fatalf("❌ Impossible d'ouvrir le cache local: %v", err)
	}
	log.Println("✅ Cache local du panier ouvert:", cachePath)

	// Synchroniseur panier : magasin distant Redis + cache local
	user.InitCart(cartsync.New(cartstore.New(database.Redis), cache))

	r := gin.Default()
	r.Use(cors.Default())
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur ShopEz lancé sur le port", port)
	r.Run(":" + port)
}
