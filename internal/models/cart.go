package models

import (
	"fmt"
	"math"
	"sort"
)

// CartItem est la copie dénormalisée d'un produit au moment de l'ajout au panier.
// Quantité toujours ≥ 1 : un item avec quantité < 1 n'existe pas, il est supprimé.
type CartItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
}

// Cart associe chaque ID produit à sa ligne de panier. Un seul panier par utilisateur.
type Cart map[string]CartItem

// Items retourne les lignes triées par ID produit pour un affichage stable.
func (c Cart) Items() []CartItem {
	items := make([]CartItem, 0, len(c))
	for _, item := range c {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// ItemCount calcule le nombre total d'articles pour le badge du panier.
// Une quantité absente ou invalide compte pour 1 (anciennes données).
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c {
		q := item.Quantity
		if q < 1 {
			q = 1
		}
		count += q
	}
	return count
}

// Total calcule le prix total du panier, arrondi à 2 décimales.
func (c Cart) Total() float64 {
	total := 0.0
	for _, item := range c {
		total += item.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}

// FormatTotal rend le total avec exactement 2 décimales pour l'affichage.
func (c Cart) FormatTotal() string {
	return fmt.Sprintf("%.2f", c.Total())
}
