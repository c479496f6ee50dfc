package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopez_back_end/internal/cartsync"
	"shopez_back_end/internal/models"
)

// Sync est câblé au démarrage par cmd/server.
var Sync *cartsync.Synchronizer

func InitCart(sync *cartsync.Synchronizer) {
	Sync = sync
}

func cartError(c *gin.Context, err error) {
	if errors.Is(err, cartsync.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	// L'état en mémoire n'a pas bougé : l'utilisateur peut simplement réessayer
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func cartResponse(cart models.Cart) gin.H {
	return gin.H{
		"items": cart.Items(),
		"total": cart.Total(),
		"count": cart.ItemCount(),
	}
}

// GetCart récupère l'instantané courant (distant, ou cache local en repli)
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")

	cart, err := Sync.Snapshot(c.Request.Context(), userID)
	if err != nil {
		cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart))
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if product.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}

	if err := Sync.AddOrIncrement(c.Request.Context(), userID, product); err != nil {
		cartError(c, err)
		return
	}

	// Pas de mise à jour optimiste : les clients abonnés recevront l'instantané
	c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté au panier"})
}

//
// 🔄 PUT /api/cart/:productId/quantity
//
func UpdateQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	// Une quantité < 1 supprime la ligne (jamais de quantité nulle stockée)
	if err := Sync.SetQuantity(c.Request.Context(), userID, productID, input.Quantity); err != nil {
		cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

//
// ➕ POST /api/cart/:productId/increase
// ➖ POST /api/cart/:productId/decrease
//
// La quantité courante vient du dernier instantané détenu par le client,
// pas du magasin distant (comportement assumé, voir cartsync).
//
func IncreaseQuantity(c *gin.Context) {
	adjustQuantity(c, +1)
}

func DecreaseQuantity(c *gin.Context) {
	adjustQuantity(c, -1)
}

func adjustQuantity(c *gin.Context, delta int) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	var input struct {
		CurrentQuantity int `json:"currentQuantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	var err error
	if delta > 0 {
		err = Sync.Increase(c.Request.Context(), userID, productID, input.CurrentQuantity)
	} else {
		err = Sync.Decrease(c.Request.Context(), userID, productID, input.CurrentQuantity)
	}
	if err != nil {
		cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	if err := Sync.Remove(c.Request.Context(), userID, productID); err != nil {
		cartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé du panier"})
}
