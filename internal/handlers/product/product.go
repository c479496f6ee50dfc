package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopez_back_end/internal/services"
)

// GetProducts renvoie le catalogue (flux externe, cache Redis)
func GetProducts(c *gin.Context) {
	products, err := services.FetchProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalogue indisponible: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

// SearchProducts recherche dans l'index Elasticsearch
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q manquant"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}
