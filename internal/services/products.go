package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"shopez_back_end/internal/database"
	"shopez_back_end/internal/models"
)

const (
	ProductCacheKey = "products:catalog"
	ProductCacheTTL = 10 * time.Minute
)

var feedClient = &http.Client{Timeout: 10 * time.Second}

func feedURL() string {
	if url := os.Getenv("PRODUCT_FEED_URL"); url != "" {
		return url
	}
	return "https://fakestoreapi.com/products"
}

// FetchProducts retourne le catalogue produit.
//
// Cache-aside Redis : le flux externe n'est appelé qu'à l'expiration du cache.
// Une erreur de cache dégrade en appel direct au flux ; une erreur du flux
// remonte à l'appelant (pas de retry).
func FetchProducts(ctx context.Context) ([]models.Product, error) {
	if data, err := database.Redis.Get(ctx, ProductCacheKey).Result(); err == nil && data != "" {
		var products []models.Product
		if json.Unmarshal([]byte(data), &products) == nil {
			return products, nil
		}
	}

	products, err := fetchFromFeed(ctx)
	if err != nil {
		return nil, err
	}

	// Mise en cache best-effort
	if jsonData, err := json.Marshal(products); err == nil {
		if err := database.Redis.Set(ctx, ProductCacheKey, jsonData, ProductCacheTTL).Err(); err != nil {
			log.Printf("⚠️ Mise en cache du catalogue échouée: %v", err)
		}
	}

	// Indexation Elasticsearch pour la recherche
	for _, p := range products {
		IndexProduct(p)
	}

	return products, nil
}

func fetchFromFeed(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("requête catalogue invalide: %w", err)
	}

	res, err := feedClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flux catalogue injoignable: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flux catalogue en erreur: HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("lecture du flux catalogue échouée: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("décodage du flux catalogue échoué: %w", err)
	}

	return products, nil
}
