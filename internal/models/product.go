package models

import "strconv"

// Product est une fiche produit telle que renvoyée par le flux catalogue externe.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// LineItem convertit le produit en ligne de panier (copie des attributs à l'ajout).
// La quantité est laissée à 0, c'est le synchroniseur qui la fixe.
func (p Product) LineItem() CartItem {
	return CartItem{
		ID:          strconv.Itoa(p.ID),
		Title:       p.Title,
		Image:       p.Image,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
	}
}
