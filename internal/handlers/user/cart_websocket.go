package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket gère la synchronisation temps réel du panier.
//
// Un abonnement par connexion : la fermeture du socket annule le contexte, ce
// qui libère l'abonnement Redis côté synchroniseur. Le premier message peut
// venir du cache local, chaque instantané distant le remplace ensuite.
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	snapshots, err := Sync.Subscribe(ctx, userID)
	if err != nil {
		conn.WriteJSON(map[string]interface{}{
			"type":    "error",
			"message": err.Error(),
		})
		return
	}

	// Détecter la fermeture côté client
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case cart, ok := <-snapshots:
			if !ok {
				// Abonnement terminé : on cesse de livrer, le client repartira du cache
				return
			}
			response := map[string]interface{}{
				"type":  "cart_updated",
				"items": cart.Items(),
				"total": cart.Total(),
				"count": cart.ItemCount(),
			}
			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
